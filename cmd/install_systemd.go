package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"CoastCam/internal/config"
	"CoastCam/internal/systemd"
)

var (
	systemdUnitDir   string
	systemdBinary    string
	systemdHardening bool
	systemdNoEnable  bool
)

func init() {
	rootCmd.AddCommand(installSystemdCmd, uninstallSystemdCmd)
	for _, c := range []*cobra.Command{installSystemdCmd, uninstallSystemdCmd} {
		c.Flags().StringVar(&systemdUnitDir, "unit-dir", systemd.DefaultUnitDir, "Directory for systemd unit files")
	}
	installSystemdCmd.Flags().StringVar(&systemdBinary, "binary", systemd.DefaultBinary, "Path of the coastcam binary in ExecStart")
	installSystemdCmd.Flags().BoolVar(&systemdHardening, "hardening", true, "Add sandboxing directives to the services")
	installSystemdCmd.Flags().BoolVar(&systemdNoEnable, "no-enable", false, "Write units without enabling the timers")
}

var installSystemdCmd = &cobra.Command{
	Use:   "install-systemd",
	Short: "Install service and timer units for station alert and tally jobs",
	RunE:  runInstallSystemd,
}

var uninstallSystemdCmd = &cobra.Command{
	Use:   "uninstall-systemd",
	Short: "Remove the station service and timer units",
	RunE:  runUninstallSystemd,
}

func scheduledUnits(cfg *config.Config, opts systemd.GeneratorOptions) ([]systemd.Unit, error) {
	var units []systemd.Unit
	for _, st := range cfg.EnabledStations() {
		u, err := systemd.StationUnits(&st, opts)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", st.Name, err)
		}
		units = append(units, u...)
	}
	return units, nil
}

func runInstallSystemd(cmd *cobra.Command, args []string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("install-systemd is only supported on Linux")
	}
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	units, err := scheduledUnits(cfg, systemd.GeneratorOptions{
		Binary:     systemdBinary,
		ConfigPath: config.ResolveConfigPath(),
		Hardening:  systemdHardening,
	})
	if err != nil {
		return err
	}
	if len(units) == 0 {
		cmd.Println("No enabled alert or tally schedules to install")
		return nil
	}
	if err := os.MkdirAll(systemdUnitDir, 0755); err != nil {
		return err
	}
	for _, u := range units {
		if err := os.WriteFile(filepath.Join(systemdUnitDir, u.ServiceFile()), []byte(u.Service), 0644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(systemdUnitDir, u.TimerFile()), []byte(u.Timer), 0644); err != nil {
			return err
		}
		cmd.Printf("Wrote %s and %s\n", u.ServiceFile(), u.TimerFile())
	}
	if systemdNoEnable {
		return nil
	}
	if err := exec.Command("systemctl", "daemon-reload").Run(); err != nil {
		return fmt.Errorf("systemctl daemon-reload: %w", err)
	}
	for _, u := range units {
		if err := exec.Command("systemctl", "enable", "--now", u.TimerFile()).Run(); err != nil {
			return fmt.Errorf("systemctl enable %s: %w", u.TimerFile(), err)
		}
	}
	cmd.Printf("Enabled %d timers\n", len(units))
	return nil
}

func runUninstallSystemd(cmd *cobra.Command, args []string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("uninstall-systemd is only supported on Linux")
	}
	matches, err := filepath.Glob(filepath.Join(systemdUnitDir, systemd.UnitPrefix+"*.timer"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		cmd.Println("No coastcam units installed")
		return nil
	}
	for _, timerPath := range matches {
		timer := filepath.Base(timerPath)
		svcPath := timerPath[:len(timerPath)-len(".timer")] + ".service"
		_ = exec.Command("systemctl", "disable", "--now", timer).Run()
		if err := os.Remove(timerPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", timerPath, err)
		}
		if err := os.Remove(svcPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", svcPath, err)
		}
		cmd.Printf("Removed %s and %s\n", timer, filepath.Base(svcPath))
	}
	if err := exec.Command("systemctl", "daemon-reload").Run(); err != nil {
		return fmt.Errorf("systemctl daemon-reload: %w", err)
	}
	cmd.Println("Reloaded systemd daemon")
	return nil
}
