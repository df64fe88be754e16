package s3

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient is the minio-go store driver, for MinIO deployments and
// local test stacks.
type MinioClient struct {
	client *minio.Client
	bucket string
	region string
	prefix keyPrefix
}

func NewMinio(ctx context.Context, opts Options) (*MinioClient, error) {
	host, secure, err := splitEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}

	var creds *credentials.Credentials
	switch {
	case opts.AccessKey != "" && opts.SecretKey != "":
		creds = credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, "")
	case opts.Profile != "":
		creds = credentials.NewFileAWSCredentials("", opts.Profile)
	default:
		creds = credentials.NewEnvAWS()
	}

	mopts := &minio.Options{
		Creds:        creds,
		Secure:       secure,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupAuto,
	}
	if opts.PathStyle {
		mopts.BucketLookup = minio.BucketLookupPath
	}
	if opts.MaxAttempts > 0 {
		mopts.MaxRetries = opts.MaxAttempts
	}
	if opts.InsecureSkipVerify {
		mopts.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	client, err := minio.New(host, mopts)
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioClient{
		client: client,
		bucket: opts.Bucket,
		region: opts.Region,
		prefix: keyPrefix(strings.Trim(opts.Prefix, "/")),
	}, nil
}

func splitEndpoint(raw string) (host string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("minio driver needs an endpoint")
	}
	if !strings.Contains(raw, "://") {
		return strings.TrimSuffix(raw, "/"), true, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("s3 endpoint: %w", err)
	}
	return u.Host, u.Scheme != "http", nil
}

func (m *MinioClient) Bucket() string {
	return m.bucket
}

func (m *MinioClient) ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []ObjectInfo
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    m.prefix.listPrefix(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, ObjectInfo{
			Key:          m.prefix.relative(obj.Key),
			LastModified: obj.LastModified,
			Size:         obj.Size,
		})
		if maxKeys > 0 && int32(len(objects)) >= maxKeys {
			break
		}
	}
	return objects, nil
}

func (m *MinioClient) CopyObject(ctx context.Context, src, dst string) error {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: m.prefix.full(dst)},
		minio.CopySrcOptions{Bucket: m.bucket, Object: m.prefix.full(src)},
	)
	if err != nil {
		return minioNotFound(src, err)
	}
	return nil
}

func (m *MinioClient) DeleteObject(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, m.prefix.full(key), minio.RemoveObjectOptions{})
}

func (m *MinioClient) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.prefix.full(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, minioNotFound(key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, minioNotFound(key, err)
	}
	return obj, nil
}

func (m *MinioClient) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	_, err := m.client.PutObject(ctx, m.bucket, m.prefix.full(key), body, contentLength, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("upload to minio: %w", err)
	}
	return nil
}

func (m *MinioClient) HeadObject(ctx context.Context, key string) (ObjectInfo, error) {
	st, err := m.client.StatObject(ctx, m.bucket, m.prefix.full(key), minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, minioNotFound(key, err)
	}
	return ObjectInfo{Key: key, LastModified: st.LastModified, Size: st.Size}, nil
}

func (m *MinioClient) CreateBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.bucket, err)
	}
	return nil
}

func minioNotFound(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return err
}
