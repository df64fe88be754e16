package lock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"CoastCam/internal/s3"
)

type ObjectStore interface {
	HeadObject(ctx context.Context, key string) (s3.ObjectInfo, error)
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
	DeleteObject(ctx context.Context, key string) error
}

// Object is a lock stored as an object under locks/. It is advisory: two
// processes racing between HEAD and PUT can both win.
type Object struct {
	store ObjectStore
	key   string
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	held  bool
}

func NewObject(store ObjectStore, name string, ttl time.Duration) *Object {
	return &Object{store: store, key: s3.LockKey(Name(name)), ttl: ttl, now: time.Now}
}

func (l *Object) Key() string { return l.key }

func (l *Object) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return fmt.Errorf("%w: %s already held by this process", ErrHeld, l.key)
	}

	info, err := l.store.HeadObject(ctx, l.key)
	switch {
	case errors.Is(err, s3.ErrNotFound):
	case err != nil:
		return fmt.Errorf("lock head %s: %w", l.key, err)
	default:
		if l.ttl <= 0 || l.now().Sub(info.LastModified) < l.ttl {
			return fmt.Errorf("%w: %s since %s", ErrHeld, l.key, info.LastModified.UTC().Format(time.RFC3339))
		}
		if err := l.store.DeleteObject(ctx, l.key); err != nil {
			return fmt.Errorf("remove stale lock %s: %w", l.key, err)
		}
	}

	body := l.now().UTC().Format(time.RFC3339)
	if err := l.store.PutObject(ctx, l.key, strings.NewReader(body), int64(len(body))); err != nil {
		return fmt.Errorf("lock put %s: %w", l.key, err)
	}
	l.held = true
	return nil
}

func (l *Object) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	if err := l.store.DeleteObject(ctx, l.key); err != nil {
		return fmt.Errorf("lock release %s: %w", l.key, err)
	}
	l.held = false
	return nil
}
