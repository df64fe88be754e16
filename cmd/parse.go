package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"CoastCam/internal/naming"
)

var (
	parseStation string
	parseRaw     bool
	parseRemap   bool
	parseLong    bool
	parseShort   string
)

func init() {
	rootCmd.AddCommand(parseCmd)
	f := parseCmd.Flags()
	f.StringVar(&parseStation, "station", "station", "Station folder for the destination key")
	f.BoolVar(&parseRaw, "raw", true, "Use the raw/ segment")
	f.BoolVar(&parseRemap, "remap", false, "Remap CameraN to cN")
	f.BoolVar(&parseLong, "long", false, "Convert short names to the long dialect")
	f.StringVar(&parseShort, "short-name", "", "Station name written into long filenames")
}

var parseCmd = &cobra.Command{
	Use:   "parse NAME...",
	Short: "Print parsed fields, canonical name and destination key of image filenames",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	conv := naming.Convention{
		Station:     parseStation,
		ShortName:   parseShort,
		RawSegment:  parseRaw,
		CameraRemap: parseRemap,
		LongNames:   parseLong,
	}
	for _, name := range args {
		cmd.Println(name)
		if !naming.IsImageLike(name) {
			cmd.Printf("  skipped: %s\n", naming.ErrNotImageLike)
			continue
		}
		p, err := naming.Parse(name)
		if err != nil {
			if errors.Is(err, naming.ErrMalformedTimestamp) || errors.Is(err, naming.ErrUnrecognizedFilename) {
				cmd.Printf("  skipped: %v\n", err)
				continue
			}
			return err
		}
		c := p.Calendar()
		cmd.Printf("  dialect:     %s\n", p.Dialect)
		cmd.Printf("  time:        %s (%s)\n", p.Instant.Format("2006-01-02 15:04:05 MST"), c.Weekday)
		cmd.Printf("  camera:      %s\n", p.Camera)
		cmd.Printf("  kind:        %s\n", p.Kind)
		cmd.Printf("  extension:   %s\n", p.Extension)
		cmd.Printf("  needs repad: %t\n", p.NeedsRepad)
		cmd.Printf("  canonical:   %s\n", p.Canonical())
		target := conv.TargetName(p)
		cmd.Printf("  destination: %s\n", naming.Derive(p, target, conv))
	}
	return nil
}
