package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoastCam/internal/naming"
	"CoastCam/internal/relocate"
	"CoastCam/internal/s3"
)

type fakeBucket struct {
	mu       sync.Mutex
	keys     []string
	listErr  error
	failCopy map[string]bool
	copied   map[string]string
	listed   []string
}

func newFakeBucket(keys ...string) *fakeBucket {
	return &fakeBucket{keys: keys, failCopy: map[string]bool{}, copied: map[string]string{}}
}

func (f *fakeBucket) ListObjects(_ context.Context, prefix string, _ int32) ([]s3.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, prefix)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []s3.ObjectInfo
	for _, k := range f.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, s3.ObjectInfo{Key: k})
		}
	}
	return out, nil
}

func (f *fakeBucket) CopyObject(_ context.Context, src, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCopy[src] {
		return errors.New("copy refused")
	}
	f.copied[src] = dst
	return nil
}

func (f *fakeBucket) DeleteObject(context.Context, string) error {
	return nil
}

var sandkey = naming.Convention{Station: "sandkey", Policy: naming.PolicyArchive}

func TestRunKeepsSubmissionOrder(t *testing.T) {
	var keys []string
	for i := 0; i < 50; i++ {
		keys = append(keys, fmt.Sprintf("cameras/sandkey/products/15900%05d.c1.snap.jpg", i*10))
	}
	bucket := newFakeBucket(keys...)
	rel := relocate.New(bucket, sandkey, relocate.Options{Operation: relocate.OpSort, Logger: zerolog.Nop()})

	report, err := NewDriver(bucket, Options{Workers: 4, Logger: zerolog.Nop()}).Run(context.Background(), sandkey, rel)
	require.NoError(t, err)
	require.Len(t, report.Results, len(keys))
	for i, res := range report.Results {
		assert.Equal(t, keys[i], res.Source)
	}
	assert.Equal(t, 50, report.Summary.Copied)
	assert.False(t, report.Summary.HasFailures())
}

func TestRunIsolatesObjectFailures(t *testing.T) {
	good := "cameras/sandkey/products/1590000000.c1.snap.jpg"
	bad := "cameras/sandkey/products/1590000010.c1.snap.jpg"
	bucket := newFakeBucket(good, bad,
		"cameras/sandkey/products/notes.docx",
		"cameras/sandkey/products/a.b.c.d.e.f.jpg",
	)
	bucket.failCopy[bad] = true
	rel := relocate.New(bucket, sandkey, relocate.Options{Operation: relocate.OpSort, Logger: zerolog.Nop()})

	report, err := NewDriver(bucket, Options{Workers: 2, Logger: zerolog.Nop()}).Run(context.Background(), sandkey, rel)
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Total:   4,
		Copied:  1,
		Skipped: 2,
		Failed:  1,
		Reasons: map[string]int{
			"StoreOperationFailed": 1,
			"NotImageLike":         1,
			"UnrecognizedFilename": 1,
		},
	}, report.Summary)
	assert.True(t, report.Summary.HasFailures())
	assert.Equal(t, relocate.StatusFailed, report.Results[1].Status)
}

func TestRunListingFailureIsFatal(t *testing.T) {
	bucket := newFakeBucket()
	bucket.listErr = errors.New("no route to host")
	rel := relocate.New(bucket, sandkey, relocate.Options{Logger: zerolog.Nop()})

	_, err := NewDriver(bucket, Options{Logger: zerolog.Nop()}).Run(context.Background(), sandkey, rel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cameras/sandkey/products/")
}

func TestKeysDeduplicatesAndFiltersTree(t *testing.T) {
	conv := naming.Convention{Station: "nuvuk", Walk: naming.WalkAll}
	bucket := newFakeBucket(
		"cameras/nuvuk/products/1590000000.c1.snap.jpg",
		"cameras/nuvuk/c1/2020/141_May.20/raw/1590000000.c1.snap.jpg",
		"cameras/nuvuk/c1calibration/2020/141_May.20/raw/x.jpg",
		"cameras/nuvuk/nuvuk_most_recent_time.csv",
	)
	keys, err := NewDriver(bucket, Options{Logger: zerolog.Nop()}).Keys(context.Background(), conv, relocate.OpArgus)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cameras/nuvuk/products/1590000000.c1.snap.jpg",
		"cameras/nuvuk/c1/2020/141_May.20/raw/1590000000.c1.snap.jpg",
	}, keys)
}

func TestKeysLimit(t *testing.T) {
	bucket := newFakeBucket(
		"cameras/sandkey/products/a.jpg",
		"cameras/sandkey/products/b.jpg",
		"cameras/sandkey/products/c.jpg",
	)
	keys, err := NewDriver(bucket, Options{Limit: 2, Logger: zerolog.Nop()}).Keys(context.Background(), sandkey, relocate.OpSort)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestSources(t *testing.T) {
	tests := []struct {
		name string
		conv naming.Convention
		op   relocate.Operation
		want []Source
	}{
		{"sort default", naming.Convention{Station: "s"}, relocate.OpSort, []Source{{Prefix: "cameras/s/products/"}}},
		{"remap default", naming.Convention{Station: "s"}, relocate.OpRemap, []Source{{Prefix: "cameras/s/", Tree: true}}},
		{"archive", naming.Convention{Station: "s", Walk: naming.WalkTree}, relocate.OpArchive, []Source{{Prefix: "cameras/s/dumps/dumps/"}}},
		{"latest", naming.Convention{Station: "s", Walk: naming.WalkLatest}, relocate.OpSort, []Source{{Prefix: "cameras/s/latest/"}}},
		{"explicit", naming.Convention{Station: "s", SourcePrefixes: []string{"x/", "y/"}}, relocate.OpArchive, []Source{{Prefix: "x/"}, {Prefix: "y/"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sources(tt.conv, tt.op))
		})
	}
}

func TestSummaryString(t *testing.T) {
	s := Summarize([]relocate.Result{
		{Status: relocate.StatusCopied},
		{Status: relocate.StatusSkipped, Reason: relocate.ReasonNotImageLike},
	})
	assert.Equal(t, "total=2 copied=1 skipped=1 failed=0 partial=0 NotImageLike=1", s.String())
}
