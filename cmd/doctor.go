package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"CoastCam/internal/config"
	"CoastCam/internal/doctor"
	"CoastCam/internal/exitcode"
	"CoastCam/internal/s3"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, S3 connectivity, station prefixes, locks and the audit dir",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(true)
	if err != nil {
		cmd.Printf("config       ERROR: %v\n", err)
		return err
	}
	opts := doctor.Options{LockDir: os.Getenv(config.EnvPrefix + "_LOCK_DIR")}
	if cfg.S3 != nil {
		var store s3.Store
		store, opts.StoreErr = s3.Open(ctx, storeOptions(cfg.S3))
		if opts.StoreErr == nil {
			opts.Store = store
		}
	}

	results := doctor.Run(ctx, cfg, opts)
	for _, r := range results {
		status := "OK"
		if !r.OK {
			status = "ERROR"
		}
		cmd.Printf("%-20s %s: %s\n", r.Name, status, r.Detail)
	}
	if doctor.Failed(results) {
		return exitcode.Wrap(exitcode.Storage, fmt.Errorf("one or more checks failed; see output above"))
	}
	return nil
}
