package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"CoastCam/internal/naming"
	"CoastCam/internal/relocate"
	"CoastCam/internal/s3"
)

const DefaultWorkers = 8

type Lister interface {
	ListObjects(ctx context.Context, prefix string, maxKeys int32) ([]s3.ObjectInfo, error)
}

type Relocator interface {
	Relocate(ctx context.Context, key string) relocate.Result
	Operation() relocate.Operation
}

type Options struct {
	Workers int
	// Limit caps the number of keys processed. Zero means no cap.
	Limit  int
	Logger zerolog.Logger
}

type Driver struct {
	lister  Lister
	workers int
	limit   int
	log     zerolog.Logger
}

func NewDriver(lister Lister, opts Options) *Driver {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Driver{lister: lister, workers: workers, limit: opts.Limit, log: opts.Logger}
}

type Report struct {
	Station   string
	Operation relocate.Operation
	Started   time.Time
	Finished  time.Time
	Results   []relocate.Result
	Summary   Summary
}

func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Keys lists every source of the station and returns the de-duplicated
// keys in listing order. A listing failure is returned as is.
func (d *Driver) Keys(ctx context.Context, conv naming.Convention, op relocate.Operation) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string
	for _, src := range Sources(conv, op) {
		objects, err := d.lister.ListObjects(ctx, src.Prefix, 0)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", src.Prefix, err)
		}
		for _, obj := range objects {
			if src.Tree {
				if _, ok := naming.ParseTreeKey(conv.Station, obj.Key); !ok {
					continue
				}
			}
			if _, ok := seen[obj.Key]; ok {
				continue
			}
			seen[obj.Key] = struct{}{}
			keys = append(keys, obj.Key)
			if d.limit > 0 && len(keys) >= d.limit {
				return keys, nil
			}
		}
	}
	return keys, nil
}

// Run relocates every key of the station through rel. Only a listing
// failure aborts the run; per-object failures are in the report.
func (d *Driver) Run(ctx context.Context, conv naming.Convention, rel Relocator) (*Report, error) {
	log := d.log.With().Str("station", conv.Station).Str("operation", string(rel.Operation())).Logger()
	report := &Report{Station: conv.Station, Operation: rel.Operation(), Started: time.Now().UTC()}

	keys, err := d.Keys(ctx, conv, rel.Operation())
	if err != nil {
		return nil, err
	}
	log.Info().Int("keys", len(keys)).Int("workers", d.workers).Msg("relocation started")

	results := make([]relocate.Result, len(keys))
	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, key := range keys {
		g.Go(func() error {
			results[i] = rel.Relocate(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	report.Results = results
	report.Summary = Summarize(results)
	report.Finished = time.Now().UTC()
	log.Info().
		Int("copied", report.Summary.Copied).
		Int("skipped", report.Summary.Skipped).
		Int("failed", report.Summary.Failed).
		Int("partial", report.Summary.Partial).
		Int("planned", report.Summary.Planned).
		Dur("duration", report.Duration()).
		Msg("relocation finished")
	return report, nil
}
