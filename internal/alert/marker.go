package alert

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"CoastCam/internal/s3"
)

const markerHeader = "latest"

// Store is the object store surface used by the alert and tally jobs.
type Store interface {
	ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]s3.ObjectInfo, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

const utf8BOM = "\ufeff"

// ReadMarker returns the last seen time stored at key. A missing marker
// returns ok=false and no error.
func ReadMarker(ctx context.Context, store Store, key string) (t time.Time, ok bool, err error) {
	data, err := readObject(ctx, store, key)
	if errors.Is(err, s3.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read marker %s: %w", key, err)
	}
	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM))).ReadAll()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse marker %s: %w", key, err)
	}
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == markerHeader {
			continue
		}
		secs, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("parse marker %s: %q is not unix seconds", key, row[0])
		}
		return time.Unix(secs, 0).UTC(), true, nil
	}
	return time.Time{}, false, nil
}

// WriteMarker replaces the marker with t as unix seconds.
func WriteMarker(ctx context.Context, store Store, key string, t time.Time) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{markerHeader})
	_ = w.Write([]string{strconv.FormatInt(t.Unix(), 10)})
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := store.PutObject(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		return fmt.Errorf("write marker %s: %w", key, err)
	}
	return nil
}

func readObject(ctx context.Context, store Store, key string) ([]byte, error) {
	rc, err := store.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
