package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"CoastCam/internal/config"
)

func init() {
	rootCmd.AddCommand(enableCmd, disableCmd)
	enableCmd.AddCommand(enableStationCmd)
	disableCmd.AddCommand(disableStationCmd)
}

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable a station",
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable a station",
}

var enableStationCmd = &cobra.Command{
	Use:   "station [name]",
	Short: "Enable a station by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStationEnabled(cmd, args[0], true)
	},
}

var disableStationCmd = &cobra.Command{
	Use:   "station [name]",
	Short: "Disable a station by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStationEnabled(cmd, args[0], false)
	},
}

func setStationEnabled(cmd *cobra.Command, name string, enabled bool) error {
	cfg, err := loadConfigForEdit()
	if err != nil {
		return err
	}
	st := cfg.Station(name)
	if st == nil {
		return fmt.Errorf("station %q not found", name)
	}
	st.Enabled = enabled
	if err := config.Write(cfg, config.ResolveConfigPath()); err != nil {
		return err
	}
	cmd.Printf("Station %q %s\n", name, onOff(enabled))
	return nil
}
