package audit

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"CoastCam/internal/batch"
	"CoastCam/internal/config"
	"CoastCam/internal/relocate"
	"CoastCam/internal/s3"
)

func sampleResults() []relocate.Result {
	return []relocate.Result{
		{Source: "cameras/sandkey/products/1590000000.c1.snap.jpg", Destination: "cameras/sandkey/c1/2020/141_May.20/1590000000.c1.snap.jpg", Status: relocate.StatusCopied},
		{Source: "cameras/sandkey/products/notes.docx", Status: relocate.StatusSkipped, Reason: relocate.ReasonNotImageLike},
		{Source: "cameras/sandkey/products/1590000010.c1.snap.jpg", Destination: "x", Status: relocate.StatusFailed, Reason: relocate.ReasonStoreOperationFailed, Err: errors.New("denied")},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Entries(sampleResults())); err != nil {
		t.Fatal(err)
	}
	want := "source filepath,destination filepath\n" +
		"cameras/sandkey/products/1590000000.c1.snap.jpg,cameras/sandkey/c1/2020/141_May.20/1590000000.c1.snap.jpg\n" +
		"cameras/sandkey/products/notes.docx,NotImageLike\n" +
		"cameras/sandkey/products/1590000010.c1.snap.jpg,StoreOperationFailed: denied\n"
	if buf.String() != want {
		t.Errorf("WriteCSV =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 2, 26, 9, 5, 7, 0, time.UTC)
	got := FileName(now)
	want := "image copy log 26-02-2025 09_05_07.csv"
	if got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
}

func TestWriteLocal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	now := time.Date(2025, 2, 26, 9, 5, 7, 0, time.UTC)
	p, err := WriteLocal(dir, "sandkey", now, []byte("a,b\n"))
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(dir, "sandkey", FileName(now)) {
		t.Errorf("path = %q", p)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "a,b\n" {
		t.Errorf("content = %q, %v", b, err)
	}
}

func TestCompress_Roundtrip(t *testing.T) {
	input := []byte("source filepath,destination filepath\n")

	plain, err := Compress(input, CompressionNone)
	if err != nil || !bytes.Equal(plain, input) {
		t.Fatalf("none should pass through: %q, %v", plain, err)
	}

	gz, err := Compress(input, CompressionGzip)
	if err != nil {
		t.Fatal(err)
	}
	gr, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(gr)
	if err != nil || !bytes.Equal(out, input) {
		t.Errorf("gzip roundtrip = %q, %v", out, err)
	}

	zs, err := Compress(input, CompressionZstd)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zstd.NewReader(bytes.NewReader(zs))
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	out, err = io.ReadAll(zr)
	if err != nil || !bytes.Equal(out, input) {
		t.Errorf("zstd roundtrip = %q, %v", out, err)
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "gzip": CompressionGzip, "zstd": CompressionZstd} {
		got, err := ParseCompression(in)
		if err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseCompression("xz"); err == nil {
		t.Error("xz should be rejected")
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	store := newFakeStorage()
	now := time.Date(2025, 2, 26, 12, 0, 0, 0, time.UTC)
	results := sampleResults()
	entries := Entries(results)

	rec, err := Publish(ctx, store, entries, batch.Summarize(results), PublishOptions{
		Dir:         t.TempDir(),
		Upload:      true,
		Compression: CompressionZstd,
		Station:     "sandkey",
		Operation:   "sort",
		RunID:       "run-1",
		Host:        "h",
		Now:         now,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Key != "audit/sandkey/2025/02/26/run-1.csv.zst" {
		t.Errorf("key = %q", rec.Key)
	}
	if _, ok := store.objects[rec.Key]; !ok {
		t.Fatal("audit object not uploaded")
	}

	raw, err := EncodeCSV(entries)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(store.objects[s3.AuditManifestKey("sandkey", "20250226120000")], &m); err != nil {
		t.Fatal(err)
	}
	if m.Checksum != Checksum(raw) || m.Rows != 3 || m.Format != "zstd" || m.Summary.Failed != 1 {
		t.Errorf("manifest = %+v", m)
	}

	latest, err := ReadLatest(ctx, store, "sandkey")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Key != rec.Key || latest.RunID != "run-1" {
		t.Errorf("latest = %+v", latest)
	}
}

func TestPublish_LocalOnly(t *testing.T) {
	store := newFakeStorage()
	rec, err := Publish(context.Background(), store, nil, batch.Summary{}, PublishOptions{Dir: t.TempDir(), Station: "s"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.LocalPath == "" || rec.Key != "" || len(store.objects) != 0 {
		t.Errorf("record = %+v, objects = %d", rec, len(store.objects))
	}
}

func TestPublish_StationsSameSecondKeepSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 2, 26, 12, 0, 0, 0, time.UTC)
	runs := map[string][]Entry{
		"caco-01": {{Source: "cameras/caco-01/products/x.jpg", Destination: "A"}},
		"sandkey": {{Source: "cameras/sandkey/products/y.jpg", Destination: "B"}},
	}
	paths := map[string]string{}
	for station, entries := range runs {
		rec, err := Publish(context.Background(), nil, entries, batch.Summary{}, PublishOptions{Dir: dir, Station: station, Now: now})
		if err != nil {
			t.Fatal(err)
		}
		paths[station] = rec.LocalPath
	}
	if paths["caco-01"] == paths["sandkey"] {
		t.Fatalf("both stations wrote %s", paths["caco-01"])
	}
	for station, entries := range runs {
		b, err := os.ReadFile(paths[station])
		if err != nil {
			t.Fatal(err)
		}
		want := "source filepath,destination filepath\n" + entries[0].Source + "," + entries[0].Destination + "\n"
		if string(b) != want {
			t.Errorf("%s audit = %q, want %q", station, b, want)
		}
	}
}

func putManifest(t *testing.T, store *fakeStorage, m Manifest) {
	t.Helper()
	if err := WriteManifest(context.Background(), store, m); err != nil {
		t.Fatal(err)
	}
	store.objects[m.Key] = []byte("csv")
}

func TestApplyRetention_NilOrZero_NoCalls(t *testing.T) {
	store := newFakeStorage()
	store.listErr = errors.New("should not be called")
	for _, r := range []*config.RetentionConfig{nil, {}} {
		n, err := ApplyRetention(context.Background(), store, "s", r, time.Now())
		if err != nil || n != 0 {
			t.Errorf("ApplyRetention(%v) = %d, %v", r, n, err)
		}
	}
}

func TestApplyRetention_DeletesExpired_UpdatesLatest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStorage()
	old := Manifest{Station: "s", Timestamp: "20250101000000", Key: "audit/s/2025/01/01/old.csv.gz"}
	kept := Manifest{Station: "s", Timestamp: "20250215000000", Key: "audit/s/2025/02/15/kept.csv.gz", RunID: "kept"}
	putManifest(t, store, old)
	putManifest(t, store, kept)
	if err := WriteLatest(ctx, store, "s", LatestPointer{Timestamp: old.Timestamp, Key: old.Key}); err != nil {
		t.Fatal(err)
	}

	deleted, err := ApplyRetention(ctx, store, "s", &config.RetentionConfig{Days: 30}, now)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, ok := store.objects[old.Key]; ok {
		t.Error("expired audit object should be deleted")
	}
	latest, err := ReadLatest(ctx, store, "s")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Key != kept.Key || latest.RunID != "kept" {
		t.Errorf("latest = %+v", latest)
	}
}

func TestApplyRetention_DeletesLatestWhenAllExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStorage()
	old := Manifest{Station: "s", Timestamp: "20250101000000", Key: "audit/s/2025/01/01/old.csv"}
	putManifest(t, store, old)
	if err := WriteLatest(ctx, store, "s", LatestPointer{Timestamp: old.Timestamp, Key: old.Key}); err != nil {
		t.Fatal(err)
	}

	deleted, err := ApplyRetention(ctx, store, "s", &config.RetentionConfig{Weeks: 1}, now)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, ok := store.objects[s3.AuditLatestKey("s")]; ok {
		t.Error("latest pointer should be deleted when no audits remain")
	}
}

func TestTimestampFromManifestKey(t *testing.T) {
	if ts, ok := timestampFromManifestKey("audit/manifests/s/20250226120000.json"); !ok || ts != "20250226120000" {
		t.Errorf("got %q, %v", ts, ok)
	}
	for _, k := range []string{"audit/manifests/s/2025022612000.json", "audit/manifests/s/20250226120000.txt", "audit/manifests/s/2025022612000x.json"} {
		if _, ok := timestampFromManifestKey(k); ok {
			t.Errorf("%q should be rejected", k)
		}
	}
}
