package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"CoastCam/internal/config"
	"CoastCam/internal/exitcode"
	"CoastCam/internal/notifier"
)

var notifyTestStation string

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
	notifyTestCmd.Flags().StringVar(&notifyTestStation, "station", "", "Use this station's title and alert recipients")
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification tools",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test message through every enabled notifier",
	RunE:  runNotifyTest,
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if !config.NotificationsEnabled(cfg.Notifications) {
		return exitcode.Wrap(exitcode.Config, fmt.Errorf("notifications are disabled"))
	}
	n, err := notifier.FromConfig(ctx, cfg.Notifications)
	if err != nil {
		return exitcode.Wrap(exitcode.Config, err)
	}
	msg := notifier.Message{
		Subject: "CoastCam test notification",
		Body:    fmt.Sprintf("Test message from %s at %s", hostname(), time.Now().UTC().Format(time.RFC3339)),
		Event:   notifier.EventTest,
	}
	if notifyTestStation != "" {
		st := cfg.Station(notifyTestStation)
		if st == nil {
			return exitcode.Wrap(exitcode.Config, fmt.Errorf("station %q not found", notifyTestStation))
		}
		msg.Station = st.Name
		msg.Subject = st.DisplayTitle() + " test notification"
		if st.Alert != nil {
			msg.Recipients = st.Alert.Recipients
		}
	}
	if err := n.Send(ctx, msg); err != nil {
		return exitcode.Wrap(exitcode.Notify, err)
	}
	cmd.Println("Test notification sent")
	return nil
}
