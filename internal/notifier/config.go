package notifier

import (
	"context"

	"CoastCam/internal/config"
)

// FromConfig builds the notifiers enabled in cfg. It returns Nop when
// notifications are disabled.
func FromConfig(ctx context.Context, cfg *config.NotificationsConfig) (Notifier, error) {
	if !config.NotificationsEnabled(cfg) {
		return Nop(), nil
	}
	var m Multi
	if cfg.Discord != nil && cfg.Discord.Enabled {
		d, err := NewDiscord(cfg.Discord)
		if err != nil {
			return nil, err
		}
		m = append(m, d)
	}
	if cfg.Email != nil && cfg.Email.Enabled {
		e, err := NewEmail(ctx, cfg.Email)
		if err != nil {
			return nil, err
		}
		m = append(m, e)
	}
	if len(m) == 0 {
		return Nop(), nil
	}
	return m, nil
}
