//go:build integration

package integration

import (
	"cmp"
	"os"
	"strings"
)

// minioEnv is the MinIO target for the integration suite, read from
// COASTCAM_MINIO_* with the docker-compose defaults.
type minioEnv struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

func loadMinIOEnv() minioEnv {
	return minioEnv{
		Endpoint:  strings.TrimSuffix(cmp.Or(os.Getenv("COASTCAM_MINIO_ENDPOINT"), "http://localhost:9000"), "/"),
		AccessKey: cmp.Or(os.Getenv("COASTCAM_MINIO_ACCESS_KEY"), "minioadmin"),
		SecretKey: cmp.Or(os.Getenv("COASTCAM_MINIO_SECRET_KEY"), "minioadmin"),
		Bucket:    cmp.Or(os.Getenv("COASTCAM_MINIO_BUCKET"), "coastcam-test"),
	}
}
