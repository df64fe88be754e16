package relocate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"CoastCam/internal/naming"
)

type Operation string

const (
	OpSort    Operation = "sort"
	OpArgus   Operation = "argus"
	OpRepad   Operation = "repad"
	OpRemap   Operation = "remap"
	OpArchive Operation = "archive"
)

var ErrInvalidOperation = errors.New("invalid operation")

func Operations() []Operation {
	return []Operation{OpSort, OpArgus, OpRepad, OpRemap, OpArchive}
}

func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations() {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w %q (allowed: sort, argus, repad, remap, archive)", ErrInvalidOperation, s)
}

// Store is the subset of the object store a relocation needs.
type Store interface {
	CopyObject(ctx context.Context, src, dst string) error
	DeleteObject(ctx context.Context, key string) error
}

type Options struct {
	Operation Operation
	// Policy overrides the station policy for sort and archive runs.
	Policy naming.Policy
	DryRun bool
	Logger zerolog.Logger
}

// Relocator moves single objects for one station and one operation.
type Relocator struct {
	store  Store
	conv   naming.Convention
	op     Operation
	policy naming.Policy
	dryRun bool
	log    zerolog.Logger
}

func New(store Store, conv naming.Convention, opts Options) *Relocator {
	op := opts.Operation
	if op == "" {
		op = OpSort
	}
	policy := conv.Policy
	if opts.Policy != "" {
		policy = opts.Policy
	}
	if op == OpArchive && opts.Policy == "" {
		policy = naming.PolicyArchive
	}
	return &Relocator{
		store:  store,
		conv:   conv,
		op:     op,
		policy: policy,
		dryRun: opts.DryRun,
		log:    opts.Logger.With().Str("station", conv.Station).Str("operation", string(op)).Logger(),
	}
}

func (r *Relocator) Operation() Operation {
	return r.op
}

func (r *Relocator) Convention() naming.Convention {
	return r.conv
}

// DeletesSource reports whether a successful copy is followed by a delete.
// Renames within the tree always delete; sort and archive follow the policy.
func (r *Relocator) DeletesSource() bool {
	switch r.op {
	case OpArgus, OpRepad, OpRemap:
		return true
	default:
		return r.policy == naming.PolicyRename
	}
}

// Relocate processes one key. It never returns an error: every failure is
// a Result.
func (r *Relocator) Relocate(ctx context.Context, key string) Result {
	dst, reason := r.plan(key)
	if reason != ReasonNone {
		r.log.Debug().Str("key", key).Str("reason", string(reason)).Msg("skipped")
		return skipped(key, reason)
	}
	if dst == key {
		r.log.Debug().Str("key", key).Msg("already canonical")
		return skipped(key, ReasonAlreadyCanonical)
	}
	if r.dryRun {
		r.log.Debug().Str("key", key).Str("destination", dst).Msg("planned")
		return planned(key, dst)
	}
	return r.apply(ctx, key, dst)
}

func (r *Relocator) apply(ctx context.Context, src, dst string) Result {
	if err := r.store.CopyObject(ctx, src, dst); err != nil {
		r.log.Warn().Err(err).Str("key", src).Str("destination", dst).Msg("copy failed")
		return failed(src, dst, err)
	}
	if r.DeletesSource() {
		if err := r.store.DeleteObject(ctx, src); err != nil {
			r.log.Error().Err(err).Str("key", src).Str("destination", dst).Msg("copied but source not deleted")
			return partial(src, dst, err)
		}
	}
	r.log.Debug().Str("key", src).Str("destination", dst).Msg("copied")
	return copied(src, dst)
}

// Plan computes the destination of key without touching the store.
func (r *Relocator) Plan(key string) (string, Reason) {
	return r.plan(key)
}

func (r *Relocator) plan(key string) (string, Reason) {
	dir, filename := naming.SplitKey(key)

	if !naming.IsImageLike(filename) {
		if r.op == OpSort && r.conv.RelocateLogs && naming.IsLogFile(filename) {
			return naming.LogKey(r.conv.Station, filename), ReasonNone
		}
		return "", ReasonNotImageLike
	}
	if r.op == OpArchive {
		return naming.ArchiveKey(r.conv.Station, filename), ReasonNone
	}

	p, err := naming.Parse(filename)
	if err != nil {
		return "", parseReason(err)
	}

	switch r.op {
	case OpArgus:
		if p.IsLong() {
			return "", ReasonAlreadyCanonical
		}
		return naming.JoinKey(dir, naming.ArgusName(p, r.conv.Name())), ReasonNone
	case OpRepad:
		if !p.NeedsRepad {
			return "", ReasonAlreadyCanonical
		}
		return naming.JoinKey(dir, p.Canonical()), ReasonNone
	case OpRemap:
		camera := naming.RemapCamera(p.Camera)
		if camera == p.Camera {
			return "", ReasonAlreadyCanonical
		}
		return naming.JoinKey(remapDir(dir, p.Camera, camera), p.WithCamera(camera)), ReasonNone
	default:
		name := r.conv.TargetName(p)
		return naming.Derive(p, name, r.conv), ReasonNone
	}
}

func remapDir(dir, from, to string) string {
	parts := strings.Split(dir, "/")
	for i, part := range parts {
		if part == from {
			parts[i] = to
		}
	}
	return strings.Join(parts, "/")
}

func parseReason(err error) Reason {
	switch {
	case errors.Is(err, naming.ErrMalformedTimestamp):
		return ReasonMalformedTimestamp
	case errors.Is(err, naming.ErrUnrecognizedFilename):
		return ReasonUnrecognizedFilename
	default:
		return ReasonUnrecognizedFilename
	}
}
