package audit

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"CoastCam/internal/batch"
	"CoastCam/internal/s3"
)

const TimestampLayout = "20060102150405"

// Storage is the subset of the store used by publishing, listing and
// retention. s3.Store implements it.
type Storage interface {
	ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]s3.ObjectInfo, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, key string) error
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

type Manifest struct {
	Station   string        `json:"station"`
	Operation string        `json:"operation"`
	RunID     string        `json:"run_id"`
	Timestamp string        `json:"timestamp"`
	Key       string        `json:"key"`
	Host      string        `json:"host"`
	Format    string        `json:"format"`
	Rows      int           `json:"rows"`
	Checksum  string        `json:"checksum"`
	DryRun    bool          `json:"dry_run,omitempty"`
	Summary   batch.Summary `json:"summary"`
}

type LatestPointer struct {
	Timestamp string `json:"timestamp"`
	Key       string `json:"key"`
	RunID     string `json:"run_id,omitempty"`
}

// Checksum is the blake3 hex digest of the uncompressed CSV.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func putJSON(ctx context.Context, store Storage, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return store.PutObject(ctx, key, bytes.NewReader(body), int64(len(body)))
}

func WriteManifest(ctx context.Context, store Storage, m Manifest) error {
	return putJSON(ctx, store, s3.AuditManifestKey(m.Station, m.Timestamp), m)
}

func WriteLatest(ctx context.Context, store Storage, station string, p LatestPointer) error {
	return putJSON(ctx, store, s3.AuditLatestKey(station), p)
}

func ReadLatest(ctx context.Context, store Storage, station string) (*LatestPointer, error) {
	rc, err := store.GetObject(ctx, s3.AuditLatestKey(station))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var p LatestPointer
	if err := json.NewDecoder(rc).Decode(&p); err != nil {
		return nil, fmt.Errorf("latest pointer decode: %w", err)
	}
	return &p, nil
}

func ReadManifest(ctx context.Context, store Storage, manifestKey string) (*Manifest, error) {
	rc, err := store.GetObject(ctx, manifestKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var m Manifest
	if err := json.NewDecoder(rc).Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest decode: %w", err)
	}
	return &m, nil
}

// ListManifests returns the manifest keys of a station, oldest first.
func ListManifests(ctx context.Context, store Storage, station string) ([]string, error) {
	objects, err := store.ListObjects(ctx, s3.AuditManifestsPrefix(station), 0)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, obj := range objects {
		if _, ok := timestampFromManifestKey(obj.Key); ok {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func timestampFromManifestKey(manifestKey string) (string, bool) {
	base := path.Base(manifestKey)
	if base == "." || base == "/" || !strings.HasSuffix(base, ".json") {
		return "", false
	}
	ts := strings.TrimSuffix(base, ".json")
	if len(ts) != len(TimestampLayout) {
		return "", false
	}
	for i := 0; i < len(ts); i++ {
		if ts[i] < '0' || ts[i] > '9' {
			return "", false
		}
	}
	return ts, true
}
