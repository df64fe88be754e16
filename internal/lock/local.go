package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const DefaultLockDir = "/var/run/coastcam"

// File is an exclusive lock file on local disk. Lock files older than TTL
// are considered stale and replaced.
type File struct {
	path string
	ttl  time.Duration
	mu   sync.Mutex
	file *os.File
}

func NewFile(dir, name string, ttl time.Duration) *File {
	if dir == "" {
		dir = DefaultLockDir
	}
	return &File{path: filepath.Join(dir, Name(name)+".lock"), ttl: ttl}
}

func (l *File) Path() string { return l.path }

func (l *File) create() (*os.File, error) {
	return os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0640)
}

func (l *File) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return fmt.Errorf("%w: %s already held by this process", ErrHeld, l.path)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	f, err := l.create()
	if err != nil {
		if !os.IsExist(err) {
			return fmt.Errorf("create lock file: %w", err)
		}
		info, statErr := os.Stat(l.path)
		if statErr != nil {
			return fmt.Errorf("stat lock file: %w", statErr)
		}
		if l.ttl <= 0 || time.Since(info.ModTime()) < l.ttl {
			return fmt.Errorf("%w: %s", ErrHeld, l.path)
		}
		if err := os.Remove(l.path); err != nil {
			return fmt.Errorf("remove stale lock %s: %w", l.path, err)
		}
		if f, err = l.create(); err != nil {
			return fmt.Errorf("create lock file after stale remove: %w", err)
		}
	}

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		_ = f.Close()
		_ = os.Remove(l.path)
		return fmt.Errorf("write lock file: %w", err)
	}
	l.file = f
	return nil
}

func (l *File) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	closeErr := l.file.Close()
	l.file = nil
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return closeErr
}
