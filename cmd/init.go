package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"CoastCam/internal/config"
)

var (
	initForce    bool
	initTemplate string
	initStation  string
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().StringVar(&initTemplate, "template", "", "Add a first station from this template (non-interactive)")
	initCmd.Flags().StringVar(&initStation, "station", "", "Station name for --template")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	}

	cfg := &config.Config{
		LogLevel: "info",
		Workers:  config.DefaultWorkers,
		S3:       &config.S3Config{Driver: "aws", Region: "us-west-2", Bucket: "cmgp-coastcam"},
		Audit:    &config.AuditConfig{Dir: config.DefaultAuditDir, Compression: "gzip", Retention: &config.RetentionConfig{Days: 90}},
	}

	if initTemplate != "" {
		name := initStation
		if name == "" {
			name = initTemplate
		}
		st := config.StationTemplate(initTemplate, name)
		if st == nil {
			return fmt.Errorf("unknown template %q (use: %s)", initTemplate, strings.Join(config.StationTemplateNames(), ", "))
		}
		cfg.Stations = append(cfg.Stations, *st)
	} else {
		reader := bufio.NewReader(os.Stdin)
		s3c := cfg.S3
		s3c.Driver = prompt(cmd, reader, "S3 driver (aws/minio)", s3c.Driver)
		s3c.Endpoint = prompt(cmd, reader, "S3 endpoint (empty for AWS)", "")
		s3c.Region = prompt(cmd, reader, "S3 region", s3c.Region)
		s3c.Bucket = prompt(cmd, reader, "Bucket", s3c.Bucket)
		s3c.Profile = prompt(cmd, reader, "Shared credentials profile (empty for default chain)", "")
		cfg.Audit.Upload = confirm(cmd, reader, "Upload audit CSVs to the bucket?", true)
		if tpl := prompt(cmd, reader, "First station template ("+strings.Join(config.StationTemplateNames(), "/")+", empty to skip)", ""); tpl != "" {
			name := prompt(cmd, reader, "Station folder name", tpl)
			st := config.StationTemplate(tpl, name)
			if st == nil {
				return fmt.Errorf("unknown template %q", tpl)
			}
			cfg.Stations = append(cfg.Stations, *st)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(cfg, path); err != nil {
		return err
	}
	cmd.Printf("Configuration written to %s\n", path)
	return nil
}
