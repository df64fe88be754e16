package cmd

import (
	"github.com/spf13/cobra"

	"CoastCam/internal/audit"
	"CoastCam/internal/exitcode"
)

var auditStation string

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().StringVar(&auditStation, "station", "", "Station name (required)")
	_ = auditListCmd.MarkFlagRequired("station")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Uploaded relocation audits",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded audit manifests for a station",
	RunE:  runAuditList,
}

func runAuditList(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	keys, err := audit.ListManifests(ctx, store, auditStation)
	if err != nil {
		return exitcode.Wrap(exitcode.Storage, err)
	}
	if len(keys) == 0 {
		cmd.Printf("No audits for station %s\n", auditStation)
		return nil
	}
	cmd.Printf("%-15s %-8s %-7s %6s  %s\n", "TIMESTAMP", "OP", "FORMAT", "ROWS", "SUMMARY")
	for _, k := range keys {
		m, err := audit.ReadManifest(ctx, store, k)
		if err != nil {
			cmd.Printf("%s: %v\n", k, err)
			continue
		}
		cmd.Printf("%-15s %-8s %-7s %6d  %s\n", m.Timestamp, m.Operation, m.Format, m.Rows, m.Summary.String())
	}
	return nil
}
