package doctor

import (
	"context"
	"fmt"
	"os"
	"time"

	"CoastCam/internal/config"
	"CoastCam/internal/lock"
	"CoastCam/internal/naming"
	"CoastCam/internal/s3"
)

type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

type Lister interface {
	ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]s3.ObjectInfo, error)
}

type Options struct {
	// Store is nil when the store could not be opened; StoreErr says why.
	Store    Lister
	StoreErr error
	LockDir  string
}

func Run(ctx context.Context, cfg *config.Config, opts Options) []CheckResult {
	results := []CheckResult{{Name: "config", OK: cfg != nil, Detail: "configuration loaded"}}
	if cfg == nil {
		return results
	}

	results = append(results, checkStore(ctx, cfg, opts))
	for _, st := range cfg.EnabledStations() {
		results = append(results, checkStation(ctx, &st, opts.Store))
	}
	results = append(results, checkLock(opts.LockDir))
	results = append(results, checkDir("audit dir", cfg.AuditDir()))
	return results
}

func Failed(results []CheckResult) bool {
	for _, r := range results {
		if !r.OK {
			return true
		}
	}
	return false
}

func checkStore(ctx context.Context, cfg *config.Config, opts Options) CheckResult {
	r := CheckResult{Name: "s3"}
	switch {
	case cfg.S3 == nil:
		r.Detail = "s3 not configured"
		return r
	case opts.StoreErr != nil:
		r.Detail = fmt.Sprintf("s3 client init failed: %v", opts.StoreErr)
		return r
	case opts.Store == nil:
		r.Detail = "s3 client not available"
		return r
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := opts.Store.ListObjects(ctx, naming.CamerasRoot+"/", 1); err != nil {
		r.Detail = fmt.Sprintf("s3 list failed: %v", err)
		return r
	}
	r.OK = true
	r.Detail = fmt.Sprintf("s3 OK (bucket=%s, prefix=%s)", cfg.S3.Bucket, cfg.S3.Prefix)
	return r
}

func checkStation(ctx context.Context, st *config.StationConfig, store Lister) CheckResult {
	r := CheckResult{Name: "station " + st.Name}
	if _, err := st.Location(); err != nil {
		r.Detail = fmt.Sprintf("timezone %q: %v", st.Timezone, err)
		return r
	}
	if store == nil {
		r.OK = true
		r.Detail = "config OK (store not checked)"
		return r
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	objs, err := store.ListObjects(ctx, naming.StationPrefix(st.Name), 1)
	if err != nil {
		r.Detail = fmt.Sprintf("list %s failed: %v", naming.StationPrefix(st.Name), err)
		return r
	}
	r.OK = true
	if len(objs) == 0 {
		r.Detail = fmt.Sprintf("no objects under %s", naming.StationPrefix(st.Name))
	} else {
		r.Detail = fmt.Sprintf("%s reachable", naming.StationPrefix(st.Name))
	}
	return r
}

func checkLock(dir string) CheckResult {
	l := lock.NewFile(dir, "doctor", 0)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Acquire(ctx); err != nil {
		return CheckResult{Name: "local lock", Detail: fmt.Sprintf("local lock acquire failed: %v", err)}
	}
	if err := l.Release(context.Background()); err != nil {
		return CheckResult{Name: "local lock", Detail: fmt.Sprintf("local lock release failed: %v", err)}
	}
	return CheckResult{Name: "local lock", OK: true, Detail: fmt.Sprintf("lock dir accessible (%s)", l.Path())}
}

func checkDir(name, dir string) CheckResult {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CheckResult{Name: name, Detail: fmt.Sprintf("create %s failed: %v", dir, err)}
	}
	f, err := os.CreateTemp(dir, ".coastcam-doctor-*")
	if err != nil {
		return CheckResult{Name: name, Detail: fmt.Sprintf("create temp file failed in %s: %v", dir, err)}
	}
	defer os.Remove(f.Name())
	if err := f.Close(); err != nil {
		return CheckResult{Name: name, Detail: fmt.Sprintf("close temp file failed: %v", err)}
	}
	return CheckResult{Name: name, OK: true, Detail: fmt.Sprintf("%s writable", dir)}
}
