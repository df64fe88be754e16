package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"CoastCam/internal/naming"
)

var ErrNoImagery = errors.New("no imagery directory found")

type Putter interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

type Options struct {
	Workers int
	DryRun  bool
	Logger  zerolog.Logger
}

type Result struct {
	Local string
	Key   string
	Err   error
}

// LatestHourDir finds the newest <ddd...>/<hour> directory under root.
// Day directories start with a three digit day-of-year; entries ending in
// .txt are skipped at the hour level.
func LatestHourDir(root string) (string, error) {
	day, err := lastEntry(root, func(e os.DirEntry) bool {
		n := e.Name()
		return e.IsDir() && len(n) >= 3 && allDigits(n[:3])
	})
	if err != nil {
		return "", err
	}
	dayDir := filepath.Join(root, day)
	hour, err := lastEntry(dayDir, func(e os.DirEntry) bool {
		return e.IsDir() && !strings.HasSuffix(e.Name(), ".txt")
	})
	if err != nil {
		return "", err
	}
	return filepath.Join(dayDir, hour), nil
}

func lastEntry(dir string, keep func(os.DirEntry) bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range entries {
		if keep(e) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoImagery, dir)
	}
	sort.Strings(names)
	return names[len(names)-1], nil
}

// Dir uploads every regular file in dir to the station's products/ prefix.
// Per-file failures are returned in the results, not as an error.
func Dir(ctx context.Context, store Putter, station, dir string, opts Options) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range files {
		results[i] = Result{Local: filepath.Join(dir, name), Key: naming.ProductKey(station, name)}
		if opts.DryRun {
			continue
		}
		g.Go(func() error {
			results[i].Err = putFile(gctx, store, results[i].Local, results[i].Key)
			if results[i].Err != nil {
				opts.Logger.Warn().Err(results[i].Err).Str("file", results[i].Local).Msg("upload failed")
			} else {
				opts.Logger.Debug().Str("key", results[i].Key).Msg("uploaded")
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func putFile(ctx context.Context, store Putter, local, key string) error {
	f, err := os.Open(local)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := store.PutObject(ctx, key, f, info.Size()); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
