package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"CoastCam/internal/config"
	"CoastCam/internal/exitcode"
	"CoastCam/internal/lock"
	"CoastCam/internal/notifier"
	"CoastCam/internal/s3"
)

const lockTTL = 6 * time.Hour

// loadConfig loads and validates the config. Config errors exit with
// exitcode.Config.
func loadConfig(checkPerms bool) (*config.Config, error) {
	cfg, err := config.LoadConfig(checkPerms)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Config, err)
	}
	if cfg.LogLevel != "" && logLevel == "" && os.Getenv(config.EnvPrefix+"_LOG_LEVEL") == "" {
		if err := applyLevel(cfg.LogLevel); err != nil {
			return nil, exitcode.Wrap(exitcode.Config, err)
		}
	}
	return cfg, nil
}

func loadConfigForEdit() (*config.Config, error) {
	v, err := config.Load(false)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, err
	}
	return cfg, config.Validate(cfg)
}

func storeOptions(c *config.S3Config) s3.Options {
	return s3.Options{
		Driver:             c.Driver,
		Endpoint:           c.Endpoint,
		Region:             c.Region,
		Profile:            c.Profile,
		AccessKey:          c.AccessKey,
		SecretKey:          c.SecretKey,
		Bucket:             c.Bucket,
		Prefix:             c.Prefix,
		PathStyle:          config.S3PathStyle(c),
		InsecureSkipVerify: c.TLS != nil && c.TLS.InsecureSkipVerify,
		MaxAttempts:        c.MaxAttempts,
	}
}

func openStore(ctx context.Context, cfg *config.Config) (s3.Store, error) {
	if cfg.S3 == nil {
		return nil, exitcode.Wrap(exitcode.Config, fmt.Errorf("s3 configuration is required"))
	}
	store, err := s3.Open(ctx, storeOptions(cfg.S3))
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Storage, err)
	}
	return store, nil
}

// notifierFromConfig never fails the command: a broken notifier is logged
// and replaced with Nop.
func notifierFromConfig(ctx context.Context, cfg *config.Config) notifier.Notifier {
	n, err := notifier.FromConfig(ctx, cfg.Notifications)
	if err != nil {
		log.Warn().Err(err).Msg("notifications disabled")
		return notifier.Nop()
	}
	return n
}

// selectStations returns the named station, or every enabled station
// when all is set.
func selectStations(cfg *config.Config, name string, all bool) ([]config.StationConfig, error) {
	switch {
	case all && name != "":
		return nil, exitcode.Wrap(exitcode.Config, fmt.Errorf("use either --station or --all"))
	case all:
		st := cfg.EnabledStations()
		if len(st) == 0 {
			return nil, exitcode.Wrap(exitcode.Config, fmt.Errorf("no enabled stations"))
		}
		return st, nil
	case name != "":
		st := cfg.Station(name)
		if st == nil {
			return nil, exitcode.Wrap(exitcode.Config, fmt.Errorf("station %q not found", name))
		}
		return []config.StationConfig{*st}, nil
	default:
		return nil, exitcode.Wrap(exitcode.Config, fmt.Errorf("specify --station <name> or --all"))
	}
}

// withLock runs fn while holding the local lock name.
func withLock(ctx context.Context, name string, fn func() error) error {
	l := lock.NewFile(os.Getenv(config.EnvPrefix+"_LOCK_DIR"), name, lockTTL)
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer func() {
		if err := l.Release(context.Background()); err != nil {
			log.Warn().Err(err).Str("lock", l.Path()).Msg("release lock")
		}
	}()
	return fn()
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func hostname() string {
	h, _ := os.Hostname()
	if h == "" {
		return "localhost"
	}
	return h
}
