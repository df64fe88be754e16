package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CoastCam/internal/audit"
	"CoastCam/internal/batch"
	"CoastCam/internal/config"
	"CoastCam/internal/exitcode"
	"CoastCam/internal/lock"
	"CoastCam/internal/naming"
	"CoastCam/internal/notifier"
	"CoastCam/internal/relocate"
	"CoastCam/internal/s3"
)

var (
	relocateStation string
	relocateAll     bool
	relocateOp      string
	relocatePolicy  string
	relocatePrefix  []string
	relocateDryRun  bool
	relocateLimit   int
	relocateWorkers int
)

func init() {
	rootCmd.AddCommand(relocateCmd)
	f := relocateCmd.Flags()
	f.StringVar(&relocateStation, "station", "", "Relocate only this station")
	f.BoolVar(&relocateAll, "all", false, "Relocate every enabled station")
	f.StringVar(&relocateOp, "op", string(relocate.OpSort), "Operation: sort, argus, repad, remap, archive")
	f.StringVar(&relocatePolicy, "policy", "", "Override the station policy: archive or rename")
	f.StringSliceVar(&relocatePrefix, "prefix", nil, "List these source prefixes instead of the station walk")
	f.BoolVar(&relocateDryRun, "dry-run", false, "Plan destinations without copying or deleting")
	f.IntVar(&relocateLimit, "limit", 0, "Process at most this many keys per station")
	f.IntVar(&relocateWorkers, "workers", 0, "Concurrent relocations (default from config)")
}

var relocateCmd = &cobra.Command{
	Use:   "relocate",
	Short: "Move station images into the camera/year/day tree",
	Long: "List the station's source prefixes and relocate every object with the chosen operation. " +
		"An audit CSV is written for each station; per-object failures do not stop the run.",
	RunE: runRelocate,
}

func runRelocate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := relocate.ParseOperation(relocateOp)
	if err != nil {
		return exitcode.Wrap(exitcode.Config, err)
	}
	var policy naming.Policy
	switch naming.Policy(relocatePolicy) {
	case "", naming.PolicyArchive, naming.PolicyRename:
		policy = naming.Policy(relocatePolicy)
	default:
		return exitcode.Wrap(exitcode.Config, fmt.Errorf("%w: got %q", config.ErrInvalidPolicy, relocatePolicy))
	}

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	stations, err := selectStations(cfg, relocateStation, relocateAll)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	notif := notifierFromConfig(ctx, cfg)

	workers := relocateWorkers
	if workers <= 0 {
		workers = cfg.WorkerCount()
	}
	driver := batch.NewDriver(store, batch.Options{Workers: workers, Limit: relocateLimit, Logger: log.Logger})

	return relocateAcross(stations, func(i int, st *config.StationConfig) (*batch.Report, error) {
		conv := st.Convention()
		if len(relocatePrefix) > 0 {
			conv.SourcePrefixes = normalizePrefixes(relocatePrefix)
		}
		rel := relocate.New(store, conv, relocate.Options{Operation: op, Policy: policy, DryRun: relocateDryRun, Logger: log.Logger})

		cmd.Printf("[%d/%d] %s %s ...\n", i+1, len(stations), st.Name, op)
		var report *batch.Report
		err := withLock(ctx, lock.Name("relocate", st.Name), func() error {
			var runErr error
			report, runErr = driver.Run(ctx, conv, rel)
			return runErr
		})
		if err != nil {
			cmd.Printf("  failed: %v\n", err)
			return nil, err
		}

		cmd.Printf("  %s in %s\n", report.Summary.String(), report.Duration().Round(time.Millisecond))
		runID := newRunID()
		rec, err := publishAudit(ctx, cfg, store, report, runID)
		if err != nil {
			log.Error().Err(err).Str("station", st.Name).Msg("audit publish failed")
		} else {
			if rec.LocalPath != "" {
				cmd.Printf("  audit: %s\n", rec.LocalPath)
			}
			if rec.Key != "" {
				cmd.Printf("  audit uploaded: %s\n", rec.Key)
			}
		}
		if !relocateDryRun {
			notifyRelocation(ctx, notif, st, report, runID)
		}
		return report, nil
	})
}

// relocateAcross runs every station in turn. A station whose run fails is
// recorded and the next one still runs; a held lock stops everything.
func relocateAcross(stations []config.StationConfig, run func(i int, st *config.StationConfig) (*batch.Report, error)) error {
	var failedStations, brokenStations []string
	for i := range stations {
		st := &stations[i]
		report, err := run(i, st)
		if err != nil {
			if errors.Is(err, lock.ErrHeld) {
				return exitcode.Wrap(exitcode.Config, err)
			}
			log.Error().Err(err).Str("station", st.Name).Msg("relocation run failed")
			brokenStations = append(brokenStations, st.Name)
			continue
		}
		if report.Summary.HasFailures() {
			failedStations = append(failedStations, st.Name)
		}
	}

	if len(brokenStations) > 0 {
		return exitcode.Wrap(exitcode.Storage, fmt.Errorf("relocation could not run for: %s", strings.Join(brokenStations, ", ")))
	}
	if len(failedStations) > 0 {
		return exitcode.Wrap(exitcode.ObjectFailures, fmt.Errorf("relocation finished with failed objects: %s", strings.Join(failedStations, ", ")))
	}
	return nil
}

func publishAudit(ctx context.Context, cfg *config.Config, store s3.Store, report *batch.Report, runID string) (*audit.Record, error) {
	opts := audit.PublishOptions{
		Dir:       cfg.AuditDir(),
		Station:   report.Station,
		Operation: string(report.Operation),
		RunID:     runID,
		Host:      hostname(),
		DryRun:    relocateDryRun,
		Now:       report.Finished,
	}
	if cfg.Audit != nil {
		c, err := audit.ParseCompression(cfg.Audit.Compression)
		if err != nil {
			return nil, err
		}
		opts.Upload = cfg.Audit.Upload
		opts.Compression = c
	}
	return audit.Publish(ctx, store, audit.Entries(report.Results), report.Summary, opts)
}

func notifyRelocation(ctx context.Context, n notifier.Notifier, st *config.StationConfig, report *batch.Report, runID string) {
	subject := fmt.Sprintf("%s relocation (%s)", st.DisplayTitle(), report.Operation)
	if report.Summary.HasFailures() {
		subject += " finished with failures"
	}
	err := n.Send(ctx, notifier.Message{
		Subject: subject,
		Body:    fmt.Sprintf("%s\nrun: %s\nduration: %s", report.Summary.String(), runID, report.Duration().Round(time.Second)),
		Station: st.Name,
		Event:   notifier.EventRelocate,
	})
	if err != nil {
		log.Warn().Err(err).Str("station", st.Name).Msg("relocation notification failed")
	}
}

func normalizePrefixes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = config.SourcePrefix(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
