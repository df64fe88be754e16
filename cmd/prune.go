package cmd

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"CoastCam/internal/audit"
	"CoastCam/internal/config"
	"CoastCam/internal/exitcode"
	"CoastCam/internal/notifier"
)

var pruneStation string

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().StringVar(&pruneStation, "station", "", "Prune only this station (default: all stations)")
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply audit retention and remove expired audit artifacts",
	RunE:  runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if cfg.Audit == nil || config.RetentionDays(cfg.Audit.Retention) == 0 {
		cmd.Println("No audit retention configured")
		return nil
	}
	stations := cfg.Stations
	if pruneStation != "" {
		if stations, err = selectStations(cfg, pruneStation, false); err != nil {
			return err
		}
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	notif := notifierFromConfig(ctx, cfg)

	now := time.Now()
	for _, st := range stations {
		deleted, err := audit.ApplyRetention(ctx, store, st.Name, cfg.Audit.Retention, now)
		if err != nil {
			return exitcode.Wrap(exitcode.Storage, err)
		}
		cmd.Printf("%-16s deleted %d audits\n", st.Name, deleted)
		if deleted > 0 {
			_ = notif.Send(ctx, notifier.Message{
				Subject: st.DisplayTitle() + " audit prune",
				Body:    "Expired audits deleted: " + strconv.Itoa(deleted),
				Station: st.Name,
				Event:   notifier.EventPrune,
			})
		}
	}
	return nil
}
