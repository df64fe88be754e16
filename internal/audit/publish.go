package audit

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"CoastCam/internal/batch"
	"CoastCam/internal/s3"
)

type PublishOptions struct {
	// Dir receives the local CSV. Empty skips the local copy.
	Dir         string
	Upload      bool
	Compression Compression
	Station     string
	Operation   string
	RunID       string
	Host        string
	DryRun      bool
	Now         time.Time
}

type Record struct {
	LocalPath   string
	Key         string
	ManifestKey string
	Checksum    string
	Rows        int
}

// Publish writes the audit CSV locally and, when enabled, uploads it with
// a manifest and moves the station's latest pointer.
func Publish(ctx context.Context, store Storage, entries []Entry, summary batch.Summary, opts PublishOptions) (*Record, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	data, err := EncodeCSV(entries)
	if err != nil {
		return nil, fmt.Errorf("encode audit: %w", err)
	}
	rec := &Record{Checksum: Checksum(data), Rows: len(entries)}

	if opts.Dir != "" {
		p, err := WriteLocal(opts.Dir, opts.Station, now, data)
		if err != nil {
			return rec, err
		}
		rec.LocalPath = p
	}
	if !opts.Upload || store == nil {
		return rec, nil
	}

	body, err := Compress(data, opts.Compression)
	if err != nil {
		return rec, fmt.Errorf("compress audit: %w", err)
	}
	utc := now.UTC()
	ts := utc.Format(TimestampLayout)
	name := opts.RunID
	if name == "" {
		name = ts
	}
	key := s3.AuditObjectKey(opts.Station, utc.Format("2006"), utc.Format("01"), utc.Format("02"),
		name+".csv"+opts.Compression.Extension())
	if err := store.PutObject(ctx, key, bytes.NewReader(body), int64(len(body))); err != nil {
		return rec, fmt.Errorf("upload audit %s: %w", key, err)
	}
	rec.Key = key

	format := string(opts.Compression)
	if format == "" {
		format = string(CompressionNone)
	}
	m := Manifest{
		Station:   opts.Station,
		Operation: opts.Operation,
		RunID:     opts.RunID,
		Timestamp: ts,
		Key:       key,
		Host:      opts.Host,
		Format:    format,
		Rows:      len(entries),
		Checksum:  rec.Checksum,
		DryRun:    opts.DryRun,
		Summary:   summary,
	}
	if err := WriteManifest(ctx, store, m); err != nil {
		return rec, fmt.Errorf("write manifest: %w", err)
	}
	rec.ManifestKey = s3.AuditManifestKey(opts.Station, ts)
	if err := WriteLatest(ctx, store, opts.Station, LatestPointer{Timestamp: ts, Key: key, RunID: opts.RunID}); err != nil {
		return rec, fmt.Errorf("write latest: %w", err)
	}
	return rec, nil
}
