package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CoastCam/internal/config"
	"CoastCam/internal/exitcode"
)

var (
	configPath string
	logLevel   string
	logJSON    bool
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "coastcam",
	Short: "Relocate, rename and watch coastal camera imagery in S3-compatible storage",
	Long: "coastcam sorts station images from products/ into the camera/year/day tree, converts filenames " +
		"between the short and Argus dialects, archives dumps, and runs the per-station alert and tally jobs.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON instead of console text")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file if it exists")
}

func setup(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if configPath != "" {
		config.SetPathOverride(configPath)
	}

	if err := applyLevel(firstNonEmpty(logLevel, os.Getenv(config.EnvPrefix+"_LOG_LEVEL"), "info")); err != nil {
		return err
	}
	if logJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	return nil
}

func applyLevel(lvl string) error {
	level, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("command failed")
	}
	return exitcode.Code(err)
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
