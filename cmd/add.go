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
	addStationTemplate string
	addStationName     string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.AddCommand(addStationCmd)
	addStationCmd.Flags().StringVar(&addStationTemplate, "template", "", "Station template: "+strings.Join(config.StationTemplateNames(), ", "))
	addStationCmd.Flags().StringVar(&addStationName, "name", "", "Station folder name under cameras/ (required with --template)")
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a resource",
}

var addStationCmd = &cobra.Command{
	Use:   "station",
	Short: "Add a station (interactive or template)",
	RunE:  runAddStation,
}

func runAddStation(cmd *cobra.Command, args []string) error {
	if addStationTemplate != "" {
		if addStationName == "" {
			return fmt.Errorf("--name is required when using --template")
		}
		st := config.StationTemplate(addStationTemplate, addStationName)
		if st == nil {
			return fmt.Errorf("unknown template %q (use: %s)", addStationTemplate, strings.Join(config.StationTemplateNames(), ", "))
		}
		return addStationToConfig(cmd, st)
	}
	return runAddStationInteractive(cmd)
}

func runAddStationInteractive(cmd *cobra.Command) error {
	reader := bufio.NewReader(os.Stdin)
	name := prompt(cmd, reader, "Station folder name", "")
	if name == "" {
		return fmt.Errorf("station name is required")
	}
	cmd.Printf("Available templates: %s\n", strings.Join(config.StationTemplateNames(), ", "))
	tpl := strings.ToLower(prompt(cmd, reader, "Template or Enter for custom", ""))
	if st := config.StationTemplate(tpl, name); st != nil {
		return addStationToConfig(cmd, st)
	}

	st := &config.StationConfig{
		Name:      name,
		ShortName: prompt(cmd, reader, "Short name written into long filenames", name),
		Title:     prompt(cmd, reader, "Title for notifications", name),
		Enabled:   true,
		Dialect:   prompt(cmd, reader, "Target filename dialect (keep/long)", "keep"),
		Walk:      prompt(cmd, reader, "Source walk (products/tree/all/dumps/latest)", "products"),
		Policy:    prompt(cmd, reader, "Policy after copy (archive/rename)", "archive"),
		Timezone:  prompt(cmd, reader, "Timezone", "UTC"),
	}
	st.RawSegment = confirm(cmd, reader, "Use raw/ segment in destination keys?", true)
	st.CameraRemap = confirm(cmd, reader, "Remap CameraN to cN?", false)
	if confirm(cmd, reader, "Enable daily no-imagery alert?", false) {
		st.Alert = &config.AlertConfig{
			Enabled:  true,
			Schedule: &config.ScheduleConfig{Period: config.PeriodDay, Times: 1, At: prompt(cmd, reader, "Alert time (HH:MM)", "10:00")},
		}
	}
	return addStationToConfig(cmd, st)
}

func addStationToConfig(cmd *cobra.Command, st *config.StationConfig) error {
	cfg, err := loadConfigForEdit()
	if err != nil {
		return err
	}
	if cfg.Station(st.Name) != nil {
		return fmt.Errorf("station %q already exists", st.Name)
	}
	cfg.Stations = append(cfg.Stations, *st)
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(cfg, config.ResolveConfigPath()); err != nil {
		return err
	}
	cmd.Printf("Station %q added\n", st.Name)
	return nil
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		cmd.Printf("%s [%s]: ", label, defaultVal)
	} else {
		cmd.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	s := strings.TrimSpace(line)
	if s == "" {
		return defaultVal
	}
	return s
}

func confirm(cmd *cobra.Command, reader *bufio.Reader, label string, defaultYes bool) bool {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	cmd.Printf("%s [%s]: ", label, hint)
	line, _ := reader.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}
