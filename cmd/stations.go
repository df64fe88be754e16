package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(stationsCmd)
}

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List configured stations",
	RunE:  runStations,
}

func runStations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if len(cfg.Stations) == 0 {
		cmd.Println("No stations configured")
		return nil
	}
	cmd.Printf("%-16s %-8s %-8s %-9s %-5s %-5s %s\n", "NAME", "STATE", "POLICY", "WALK", "RAW", "REMAP", "DIALECT")
	for _, st := range cfg.Stations {
		walk := st.Walk
		if walk == "" {
			walk = "products"
		}
		dialect := st.Dialect
		if dialect == "" {
			dialect = "keep"
		}
		cmd.Printf("%-16s %-8s %-8s %-9s %-5t %-5t %s\n", st.Name, onOff(st.Enabled), st.Policy, walk, st.RawSegment, st.CameraRemap, dialect)
	}
	return nil
}
