package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CoastCam/internal/exitcode"
	"CoastCam/internal/upload"
)

var (
	uploadStation string
	uploadDir     string
	uploadLatest  bool
	uploadDryRun  bool
)

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadStation, "station", "", "Station name (required)")
	uploadCmd.Flags().StringVar(&uploadDir, "dir", "", "Local directory (required)")
	uploadCmd.Flags().BoolVar(&uploadLatest, "latest-hour", true, "Upload only the newest <day>/<hour> directory below --dir")
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "Print keys without uploading")
	_ = uploadCmd.MarkFlagRequired("station")
	_ = uploadCmd.MarkFlagRequired("dir")
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload local camera output into the station's products/ prefix",
	RunE:  runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if cfg.Station(uploadStation) == nil {
		return exitcode.Wrap(exitcode.Config, fmt.Errorf("station %q not found", uploadStation))
	}
	dir := uploadDir
	if uploadLatest {
		if dir, err = upload.LatestHourDir(uploadDir); err != nil {
			return exitcode.Wrap(exitcode.Config, err)
		}
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	cmd.Printf("Uploading %s\n", dir)
	results, err := upload.Dir(ctx, store, uploadStation, dir, upload.Options{
		Workers: cfg.WorkerCount(),
		DryRun:  uploadDryRun,
		Logger:  log.Logger,
	})
	if err != nil {
		return exitcode.Wrap(exitcode.Config, err)
	}
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			cmd.Printf("  FAILED %s: %v\n", r.Local, r.Err)
		case uploadDryRun:
			cmd.Printf("  would upload %s -> %s\n", r.Local, r.Key)
		}
	}
	cmd.Printf("%d files, %d failed\n", len(results), failed)
	if failed > 0 {
		return exitcode.Wrap(exitcode.ObjectFailures, fmt.Errorf("%d uploads failed", failed))
	}
	return nil
}
