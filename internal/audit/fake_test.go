package audit

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"CoastCam/internal/s3"
)

// fakeStorage implements Storage for tests.
type fakeStorage struct {
	objects map[string][]byte
	listErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) ListObjects(_ context.Context, prefix string, _ int32) ([]s3.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []s3.ObjectInfo
	for k, b := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, s3.ObjectInfo{Key: k, Size: int64(len(b))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeStorage) GetObject(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, s3.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) PutObject(_ context.Context, key string, body io.Reader, _ int64) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}
