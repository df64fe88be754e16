package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"CoastCam/internal/alert"
	"CoastCam/internal/audit"
	"CoastCam/internal/config"
	"CoastCam/internal/s3"
	"CoastCam/internal/schedule"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-station state: last audit, last seen marker, next scheduled jobs",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		cmd.Printf("Store unavailable: %v\n", err)
	}
	now := time.Now()
	for i := range cfg.Stations {
		st := &cfg.Stations[i]
		cmd.Printf("%s (%s)\n", st.Name, onOff(st.Enabled))
		if store != nil {
			printStoreStatus(ctx, cmd, store, st)
		}
		loc, _ := st.Location()
		if st.Alert != nil && st.Alert.Enabled {
			next, desc := schedule.NextRun(st.Alert.Schedule, now.In(loc))
			cmd.Printf("  next alert:  %s (%s)\n", formatTime(next), desc)
		}
		if st.Tally != nil && st.Tally.Enabled {
			next, desc := schedule.NextRun(st.Tally.Schedule, now.In(loc))
			cmd.Printf("  next tally:  %s (%s)\n", formatTime(next), desc)
		}
	}
	return nil
}

func printStoreStatus(ctx context.Context, cmd *cobra.Command, store s3.Store, st *config.StationConfig) {
	latest, err := audit.ReadLatest(ctx, store, st.Name)
	switch {
	case errors.Is(err, s3.ErrNotFound):
		cmd.Println("  last audit:  none")
	case err != nil:
		cmd.Printf("  last audit:  error: %v\n", err)
	default:
		cmd.Printf("  last audit:  %s (%s)\n", latest.Timestamp, latest.Key)
	}
	if st.Alert == nil || !st.Alert.Enabled {
		return
	}
	job, err := alert.NewJob(store, nil, st, zerolog.Nop())
	if err != nil {
		return
	}
	marker, ok, err := alert.ReadMarker(ctx, store, job.MarkerKey())
	switch {
	case err != nil:
		cmd.Printf("  last seen:   error: %v\n", err)
	case !ok:
		cmd.Println("  last seen:   no marker")
	default:
		cmd.Printf("  last seen:   %s\n", formatTime(marker))
	}
}
