package config

import (
	"time"

	"github.com/spf13/viper"

	"CoastCam/internal/naming"
)

const (
	DefaultWorkers  = 8
	DefaultAuditDir = "/var/lib/coastcam/audit"
)

type Config struct {
	LogLevel      string               `mapstructure:"log_level" yaml:"log_level,omitempty"`
	Workers       int                  `mapstructure:"workers" yaml:"workers,omitempty"`
	S3            *S3Config            `mapstructure:"s3" yaml:"s3,omitempty"`
	Audit         *AuditConfig         `mapstructure:"audit" yaml:"audit,omitempty"`
	Notifications *NotificationsConfig `mapstructure:"notifications" yaml:"notifications,omitempty"`
	Stations      []StationConfig      `mapstructure:"stations" yaml:"stations"`
}

type S3Config struct {
	Driver      string     `mapstructure:"driver" yaml:"driver,omitempty"`
	Endpoint    string     `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region      string     `mapstructure:"region" yaml:"region,omitempty"`
	Profile     string     `mapstructure:"profile" yaml:"profile,omitempty"`
	AccessKey   string     `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey   string     `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Bucket      string     `mapstructure:"bucket" yaml:"bucket"`
	Prefix      string     `mapstructure:"prefix" yaml:"prefix,omitempty"`
	PathStyle   *bool      `mapstructure:"path_style" yaml:"path_style,omitempty"`
	MaxAttempts int        `mapstructure:"max_attempts" yaml:"max_attempts,omitempty"`
	TLS         *TLSConfig `mapstructure:"tls" yaml:"tls,omitempty"`
}

type TLSConfig struct {
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type AuditConfig struct {
	Dir         string           `mapstructure:"dir" yaml:"dir,omitempty"`
	Upload      bool             `mapstructure:"upload" yaml:"upload"`
	Compression string           `mapstructure:"compression" yaml:"compression,omitempty"`
	Retention   *RetentionConfig `mapstructure:"retention" yaml:"retention,omitempty"`
}

type RetentionConfig struct {
	Days   int `mapstructure:"days" yaml:"days"`
	Weeks  int `mapstructure:"weeks" yaml:"weeks"`
	Months int `mapstructure:"months" yaml:"months"`
}

type NotificationsConfig struct {
	Enabled *bool          `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Discord *DiscordConfig `mapstructure:"discord" yaml:"discord,omitempty"`
	Email   *EmailConfig   `mapstructure:"email" yaml:"email,omitempty"`
}

type DiscordConfig struct {
	Enabled        bool             `mapstructure:"enabled" yaml:"enabled"`
	WebhookURL     string           `mapstructure:"webhook_url" yaml:"webhook_url,omitempty"`
	TimeoutSeconds int              `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	Retry          *DiscordRetry    `mapstructure:"retry" yaml:"retry,omitempty"`
	Mentions       *DiscordMentions `mapstructure:"mentions" yaml:"mentions,omitempty"`
	Events         []string         `mapstructure:"events" yaml:"events,omitempty"`
}

type DiscordRetry struct {
	Attempts  int `mapstructure:"attempts" yaml:"attempts"`
	BackoffMs int `mapstructure:"backoff_ms" yaml:"backoff_ms"`
}

type DiscordMentions struct {
	OnAlert string `mapstructure:"on_alert" yaml:"on_alert,omitempty"`
}

type EmailConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	Region  string   `mapstructure:"region" yaml:"region,omitempty"`
	Profile string   `mapstructure:"profile" yaml:"profile,omitempty"`
	From    string   `mapstructure:"from" yaml:"from"`
	To      []string `mapstructure:"to" yaml:"to,omitempty"`
	Events  []string `mapstructure:"events" yaml:"events,omitempty"`
}

type StationConfig struct {
	Name           string       `mapstructure:"name" yaml:"name"`
	ShortName      string       `mapstructure:"short_name" yaml:"short_name,omitempty"`
	Title          string       `mapstructure:"title" yaml:"title,omitempty"`
	Enabled        bool         `mapstructure:"enabled" yaml:"enabled"`
	RawSegment     bool         `mapstructure:"raw_segment" yaml:"raw_segment"`
	CameraRemap    bool         `mapstructure:"camera_remap" yaml:"camera_remap"`
	Dialect        string       `mapstructure:"dialect" yaml:"dialect,omitempty"`
	Walk           string       `mapstructure:"walk" yaml:"walk,omitempty"`
	SourcePrefixes []string     `mapstructure:"source_prefixes" yaml:"source_prefixes,omitempty"`
	Policy         string       `mapstructure:"policy" yaml:"policy"`
	RelocateLogs   bool         `mapstructure:"relocate_logs" yaml:"relocate_logs"`
	Timezone       string       `mapstructure:"timezone" yaml:"timezone,omitempty"`
	Alert          *AlertConfig `mapstructure:"alert" yaml:"alert,omitempty"`
	Tally          *TallyConfig `mapstructure:"tally" yaml:"tally,omitempty"`
}

type AlertConfig struct {
	Enabled       bool            `mapstructure:"enabled" yaml:"enabled"`
	Prefix        string          `mapstructure:"prefix" yaml:"prefix,omitempty"`
	MarkerKey     string          `mapstructure:"marker_key" yaml:"marker_key,omitempty"`
	WindowMinutes int             `mapstructure:"window_minutes" yaml:"window_minutes,omitempty"`
	Recipients    []string        `mapstructure:"recipients" yaml:"recipients,omitempty"`
	Schedule      *ScheduleConfig `mapstructure:"schedule" yaml:"schedule,omitempty"`
}

type TallyConfig struct {
	Enabled    bool            `mapstructure:"enabled" yaml:"enabled"`
	Cameras    []string        `mapstructure:"cameras" yaml:"cameras,omitempty"`
	Key        string          `mapstructure:"key" yaml:"key,omitempty"`
	Recipients []string        `mapstructure:"recipients" yaml:"recipients,omitempty"`
	Schedule   *ScheduleConfig `mapstructure:"schedule" yaml:"schedule,omitempty"`
}

type ScheduleConfig struct {
	Period        string `mapstructure:"period" yaml:"period"`
	Times         int    `mapstructure:"times" yaml:"times"`
	At            string `mapstructure:"at" yaml:"at,omitempty"`
	JitterMinutes int    `mapstructure:"jitter_minutes" yaml:"jitter_minutes,omitempty"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func NotificationsEnabled(n *NotificationsConfig) bool {
	if n == nil {
		return false
	}
	if n.Enabled != nil {
		return *n.Enabled
	}
	return (n.Discord != nil && n.Discord.Enabled) || (n.Email != nil && n.Email.Enabled)
}

// S3PathStyle is the explicit path_style setting, or true when a custom
// endpoint is configured.
func S3PathStyle(c *S3Config) bool {
	if c == nil {
		return false
	}
	if c.PathStyle != nil {
		return *c.PathStyle
	}
	return c.Endpoint != ""
}

func (c *Config) WorkerCount() int {
	if c == nil || c.Workers <= 0 {
		return DefaultWorkers
	}
	return c.Workers
}

func (c *Config) Station(name string) *StationConfig {
	if c == nil {
		return nil
	}
	for i := range c.Stations {
		if c.Stations[i].Name == name {
			return &c.Stations[i]
		}
	}
	return nil
}

func (c *Config) EnabledStations() []StationConfig {
	if c == nil {
		return nil
	}
	var out []StationConfig
	for _, s := range c.Stations {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) AuditDir() string {
	if c == nil || c.Audit == nil || c.Audit.Dir == "" {
		return DefaultAuditDir
	}
	return c.Audit.Dir
}

// Convention builds the naming convention passed to the relocator.
func (s *StationConfig) Convention() naming.Convention {
	return naming.Convention{
		Station:        s.Name,
		ShortName:      s.ShortName,
		RawSegment:     s.RawSegment,
		CameraRemap:    s.CameraRemap,
		LongNames:      s.Dialect == naming.TargetLong,
		Walk:           naming.Walk(s.Walk),
		SourcePrefixes: s.SourcePrefixes,
		Policy:         naming.Policy(s.Policy),
		RelocateLogs:   s.RelocateLogs,
	}
}

// DisplayTitle is the title used in notification subjects.
func (s *StationConfig) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if s.ShortName != "" {
		return s.ShortName
	}
	return s.Name
}

// Location loads the station timezone, UTC when unset.
func (s *StationConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}
