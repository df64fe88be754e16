package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

const (
	DriverAWS   = "aws"
	DriverMinio = "minio"

	DefaultRegion      = "us-east-1"
	DefaultMaxAttempts = 5
)

var ErrNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// Store is the object store seen by the rest of the program. Keys are
// relative to the configured prefix.
type Store interface {
	ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]ObjectInfo, error)
	CopyObject(ctx context.Context, src, dst string) error
	DeleteObject(ctx context.Context, key string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
	HeadObject(ctx context.Context, key string) (ObjectInfo, error)
	CreateBucket(ctx context.Context) error
	Bucket() string
}

type Options struct {
	Driver             string
	Endpoint           string
	Region             string
	Profile            string
	AccessKey          string
	SecretKey          string
	Bucket             string
	Prefix             string
	PathStyle          bool
	InsecureSkipVerify bool
	MaxAttempts        int
}

// Open returns a store for opts.Driver. An empty driver means aws.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverAWS:
		c, err := New(ctx, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	case DriverMinio:
		m, err := NewMinio(ctx, opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown s3 driver %q", opts.Driver)
	}
}

type keyPrefix string

func (p keyPrefix) full(relative string) string {
	relative = strings.TrimLeft(relative, "/")
	if p == "" {
		return relative
	}
	return path.Join(string(p), relative)
}

func (p keyPrefix) listPrefix(relative string) string {
	full := p.full(relative)
	if strings.HasSuffix(relative, "/") && !strings.HasSuffix(full, "/") {
		full += "/"
	}
	if relative == "" && p != "" {
		full += "/"
	}
	return full
}

func (p keyPrefix) relative(full string) string {
	if p == "" {
		return full
	}
	return strings.TrimPrefix(full, string(p)+"/")
}
