package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"CoastCam/internal/config"
	"CoastCam/internal/notifier"
)

var (
	webhookURLFlag       string
	discordEnableFlag    bool
	discordDisableFlag   bool
	alertMentionFlag     string
	notificationsEnable  bool
	notificationsDisable bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configWebhooksCmd)
	f := configWebhooksCmd.Flags()
	f.StringVar(&webhookURLFlag, "webhook-url", "", "Discord webhook URL (or set "+notifier.EnvDiscordWebhook+")")
	f.BoolVar(&discordEnableFlag, "discord-enable", false, "Enable Discord notifications")
	f.BoolVar(&discordDisableFlag, "discord-disable", false, "Disable Discord notifications")
	f.StringVar(&alertMentionFlag, "alert-mention", "", "Mention added to alert messages, e.g. @here")
	f.BoolVar(&notificationsEnable, "notifications-on", false, "Enable all notifications")
	f.BoolVar(&notificationsDisable, "notifications-off", false, "Disable all notifications")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configWebhooksCmd = &cobra.Command{
	Use:   "webhooks",
	Short: "Configure the Discord webhook and notifications",
	Long:  "Show current notification settings and optionally set the Discord webhook URL, enable or disable Discord or all notifications. Run without flags for interactive prompts.",
	RunE:  runConfigWebhooks,
}

func runConfigWebhooks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForEdit()
	if err != nil {
		return err
	}
	path := config.ResolveConfigPath()
	if cfg.Notifications == nil {
		cfg.Notifications = &config.NotificationsConfig{}
	}
	if cfg.Notifications.Discord == nil {
		cfg.Notifications.Discord = &config.DiscordConfig{}
	}

	if webhookURLFlag != "" || discordEnableFlag || discordDisableFlag || alertMentionFlag != "" || notificationsEnable || notificationsDisable {
		if err := applyWebhookFlags(cfg); err != nil {
			return err
		}
	} else {
		editWebhooksInteractive(cmd, cfg)
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(cfg, path); err != nil {
		return err
	}
	cmd.Printf("Configuration updated: %s\n", path)
	printWebhookStatus(cmd, cfg)
	return nil
}

func applyWebhookFlags(cfg *config.Config) error {
	if discordEnableFlag && discordDisableFlag {
		return fmt.Errorf("cannot use both --discord-enable and --discord-disable")
	}
	if notificationsEnable && notificationsDisable {
		return fmt.Errorf("cannot use both --notifications-on and --notifications-off")
	}
	d := cfg.Notifications.Discord
	if webhookURLFlag != "" {
		d.WebhookURL = strings.TrimSpace(webhookURLFlag)
	}
	if discordEnableFlag || discordDisableFlag {
		d.Enabled = discordEnableFlag
	}
	if alertMentionFlag != "" {
		d.Mentions = &config.DiscordMentions{OnAlert: alertMentionFlag}
	}
	if notificationsEnable || notificationsDisable {
		cfg.Notifications.Enabled = boolPtr(notificationsEnable)
	}
	return nil
}

func editWebhooksInteractive(cmd *cobra.Command, cfg *config.Config) {
	reader := bufio.NewReader(os.Stdin)
	cmd.Println("Current notification settings:")
	printWebhookStatus(cmd, cfg)
	cmd.Println()

	d := cfg.Notifications.Discord
	current := d.WebhookURL
	if current == "" && os.Getenv(notifier.EnvDiscordWebhook) != "" {
		current = "(from env)"
	}
	if url := prompt(cmd, reader, "Discord webhook URL", current); url != "" && url != current {
		d.WebhookURL = url
	}
	d.Enabled = confirm(cmd, reader, "Enable Discord notifications?", d.Enabled)
	cfg.Notifications.Enabled = boolPtr(confirm(cmd, reader, "Enable all notifications (global switch)?", config.NotificationsEnabled(cfg.Notifications)))
}

func printWebhookStatus(cmd *cobra.Command, cfg *config.Config) {
	glob := "on"
	if !config.NotificationsEnabled(cfg.Notifications) {
		glob = "off"
	}
	cmd.Printf("  Notifications (global): %s\n", glob)

	if cfg.Notifications == nil || cfg.Notifications.Discord == nil {
		cmd.Println("  Discord: not configured")
	} else {
		d := cfg.Notifications.Discord
		cmd.Printf("  Discord: %s\n", onOff(d.Enabled))
		switch {
		case d.WebhookURL != "":
			cmd.Printf("    Webhook URL: %s\n", maskWebhookURL(d.WebhookURL))
		case os.Getenv(notifier.EnvDiscordWebhook) != "":
			cmd.Println("    Webhook URL: (from env)")
		default:
			cmd.Println("    Webhook URL: (not set)")
		}
	}
	if cfg.Notifications != nil && cfg.Notifications.Email != nil {
		e := cfg.Notifications.Email
		cmd.Printf("  Email: %s (from %s, to %s)\n", onOff(e.Enabled), e.From, strings.Join(e.To, ", "))
	}
}

func maskWebhookURL(s string) string {
	const max = 50
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func boolPtr(b bool) *bool {
	return &b
}
