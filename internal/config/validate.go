package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"CoastCam/internal/naming"
)

var (
	ErrInvalidDriver      = errors.New("invalid s3 driver: must be 'aws' or 'minio'")
	ErrInvalidPolicy      = errors.New("invalid policy: must be exactly 'archive' or 'rename'")
	ErrInvalidWalk        = errors.New("invalid walk: must be one of products, tree, all, dumps, latest")
	ErrInvalidDialect     = errors.New("invalid dialect: must be 'keep' or 'long'")
	ErrInvalidCompression = errors.New("invalid audit compression: must be none, gzip or zstd")
	ErrInvalidSchedule    = errors.New("invalid schedule")
)

const (
	PeriodHour = "hour"
	PeriodDay  = "day"
	PeriodWeek = "week"

	MaxTimesPerPeriod = 5
)

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.S3 != nil {
		cfg.S3.Prefix = NormalizePrefix(cfg.S3.Prefix)
		switch cfg.S3.Driver {
		case "", "aws", "minio":
		default:
			return fmt.Errorf("%w: got %q", ErrInvalidDriver, cfg.S3.Driver)
		}
		if cfg.S3.Driver == "minio" && cfg.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required for the minio driver")
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if cfg.Audit != nil {
		switch cfg.Audit.Compression {
		case "", "none", "gzip", "zstd":
		default:
			return fmt.Errorf("%w: got %q", ErrInvalidCompression, cfg.Audit.Compression)
		}
	}
	if err := validateNotifications(cfg.Notifications); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(cfg.Stations))
	for i := range cfg.Stations {
		s := &cfg.Stations[i]
		if s.Name == "" {
			return fmt.Errorf("stations[%d]: name is required", i)
		}
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("station %q is defined twice", s.Name)
		}
		seen[s.Name] = struct{}{}
		if err := ValidateStation(s); err != nil {
			return fmt.Errorf("station %q: %w", s.Name, err)
		}
	}
	return nil
}

func ValidateStation(s *StationConfig) error {
	if strings.Contains(s.Name, "/") {
		return fmt.Errorf("name must not contain '/'")
	}
	switch naming.Policy(s.Policy) {
	case naming.PolicyArchive, naming.PolicyRename:
	case "":
		return fmt.Errorf("%w (policy is required)", ErrInvalidPolicy)
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidPolicy, s.Policy)
	}
	switch naming.Walk(s.Walk) {
	case "", naming.WalkProducts, naming.WalkTree, naming.WalkAll, naming.WalkDumps, naming.WalkLatest:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidWalk, s.Walk)
	}
	switch s.Dialect {
	case "", naming.TargetKeep, naming.TargetLong:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidDialect, s.Dialect)
	}
	for i, p := range s.SourcePrefixes {
		p = SourcePrefix(p)
		if p == "" {
			return fmt.Errorf("source_prefixes[%d] is empty", i)
		}
		s.SourcePrefixes[i] = p
	}
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	if s.Alert != nil {
		if s.Alert.WindowMinutes < 0 {
			return fmt.Errorf("alert.window_minutes must not be negative")
		}
		if err := ValidateSchedule(s.Alert.Schedule); err != nil {
			return fmt.Errorf("alert: %w", err)
		}
	}
	if s.Tally != nil {
		if err := ValidateSchedule(s.Tally.Schedule); err != nil {
			return fmt.Errorf("tally: %w", err)
		}
	}
	return nil
}

func ValidateSchedule(s *ScheduleConfig) error {
	if s == nil {
		return nil
	}
	switch s.Period {
	case PeriodHour, PeriodDay, PeriodWeek:
	default:
		return fmt.Errorf("%w: period must be hour, day or week, got %q", ErrInvalidSchedule, s.Period)
	}
	if s.Period != PeriodHour && (s.Times < 1 || s.Times > MaxTimesPerPeriod) {
		return fmt.Errorf("%w: times must be between 1 and %d", ErrInvalidSchedule, MaxTimesPerPeriod)
	}
	if s.JitterMinutes < 0 {
		return fmt.Errorf("%w: jitter_minutes must not be negative", ErrInvalidSchedule)
	}
	if _, _, err := ParseAt(s.At); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return nil
}

// ParseAt parses an "HH:MM" schedule anchor. Empty means 02:00.
func ParseAt(at string) (hour, minute int, err error) {
	if at == "" {
		return 2, 0, nil
	}
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, fmt.Errorf("at %q: want HH:MM", at)
	}
	return t.Hour(), t.Minute(), nil
}

func validateNotifications(n *NotificationsConfig) error {
	if n == nil {
		return nil
	}
	if d := n.Discord; d != nil && d.Enabled {
		if d.TimeoutSeconds < 0 {
			return fmt.Errorf("notifications.discord.timeout_seconds must not be negative")
		}
		if d.Retry != nil && (d.Retry.Attempts < 0 || d.Retry.BackoffMs < 0) {
			return fmt.Errorf("notifications.discord.retry values must not be negative")
		}
	}
	if e := n.Email; e != nil && e.Enabled {
		if e.From == "" {
			return fmt.Errorf("notifications.email.from is required")
		}
		if !strings.Contains(e.From, "@") {
			return fmt.Errorf("notifications.email.from %q is not an address", e.From)
		}
	}
	return nil
}
