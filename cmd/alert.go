package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CoastCam/internal/alert"
	"CoastCam/internal/exitcode"
	"CoastCam/internal/lock"
)

var (
	alertStation string
	alertAll     bool
)

func init() {
	rootCmd.AddCommand(alertCmd)
	alertCmd.AddCommand(alertCheckCmd, alertTallyCmd)
	for _, c := range []*cobra.Command{alertCheckCmd, alertTallyCmd} {
		c.Flags().StringVar(&alertStation, "station", "", "Station name")
		c.Flags().BoolVar(&alertAll, "all", false, "Every enabled station with the job enabled")
	}
}

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Scheduled station watch jobs",
}

var alertCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Alert when no new imagery arrived since the last seen marker",
	RunE:  runAlertCheck,
}

var alertTallyCmd = &cobra.Command{
	Use:   "tally",
	Short: "Count today's images per camera, notify and append to the tally CSV",
	RunE:  runAlertTally,
}

func runAlertCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	stations, err := selectStations(cfg, alertStation, alertAll)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	notif := notifierFromConfig(ctx, cfg)

	var notifyFailed []string
	for i := range stations {
		st := &stations[i]
		if alertAll && (st.Alert == nil || !st.Alert.Enabled) {
			continue
		}
		job, err := alert.NewJob(store, notif, st, log.Logger)
		if err != nil {
			return exitcode.Wrap(exitcode.Config, err)
		}
		l := lock.NewObject(store, lock.Name("alert", st.Name), time.Hour)
		if err := l.Acquire(ctx); err != nil {
			return exitcode.Wrap(exitcode.Storage, err)
		}
		out, err := job.Run(ctx, time.Now())
		if relErr := l.Release(ctx); relErr != nil {
			log.Warn().Err(relErr).Str("lock", l.Key()).Msg("release lock")
		}
		if err != nil {
			return exitcode.Wrap(exitcode.Storage, fmt.Errorf("station %s: %w", st.Name, err))
		}
		cmd.Printf("%-16s %-7s objects=%d newest=%s\n", st.Name, out.State, out.Objects, formatTime(out.Newest))
		if out.NotifyErr != nil {
			notifyFailed = append(notifyFailed, st.Name)
		}
	}
	if len(notifyFailed) > 0 {
		log.Warn().Strs("stations", notifyFailed).Msg("alert notifications could not be sent")
	}
	return nil
}

func runAlertTally(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	stations, err := selectStations(cfg, alertStation, alertAll)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	notif := notifierFromConfig(ctx, cfg)

	for i := range stations {
		st := &stations[i]
		if alertAll && (st.Tally == nil || !st.Tally.Enabled) {
			continue
		}
		t, err := alert.NewTally(store, notif, st, log.Logger)
		if err != nil {
			return exitcode.Wrap(exitcode.Config, err)
		}
		rep, err := t.Run(ctx, time.Now())
		if err != nil {
			return exitcode.Wrap(exitcode.Storage, fmt.Errorf("station %s: %w", st.Name, err))
		}
		counts := make([]string, 0, len(rep.Cameras))
		for _, c := range rep.Cameras {
			counts = append(counts, fmt.Sprintf("%s=%d", c.Camera, c.Count))
		}
		cmd.Printf("%-16s %s total=%d %s\n", st.Name, rep.Date, rep.Total, strings.Join(counts, " "))
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
