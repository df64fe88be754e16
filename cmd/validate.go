package cmd

import (
	"github.com/spf13/cobra"
)

var validateStrict bool

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Also require config file mode 0600")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and station conventions",
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(validateStrict)
	if err != nil {
		return err
	}
	for _, st := range cfg.Stations {
		if st.Alert != nil && st.Alert.Enabled && st.Alert.Schedule == nil {
			cmd.Printf("warning: station %s has alert enabled without a schedule (no timer will be installed)\n", st.Name)
		}
		if st.Tally != nil && st.Tally.Enabled && st.Tally.Schedule == nil {
			cmd.Printf("warning: station %s has tally enabled without a schedule (no timer will be installed)\n", st.Name)
		}
	}
	cmd.Printf("Configuration OK (%d stations, %d enabled)\n", len(cfg.Stations), len(cfg.EnabledStations()))
	return nil
}
