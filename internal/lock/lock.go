package lock

import (
	"context"
	"errors"
	"strings"
)

// ErrHeld is returned by Acquire when another holder owns the lock.
var ErrHeld = errors.New("lock held")

type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// Name joins the parts of a lock name, e.g. Name("relocate", "sandkey").
// Path separators are replaced so a name is always a single segment.
func Name(parts ...string) string {
	n := strings.Join(parts, "-")
	n = strings.NewReplacer("/", "_", "\\", "_").Replace(n)
	if n == "" {
		return "default"
	}
	return n
}
