package audit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"CoastCam/internal/relocate"
)

const (
	fileNameLayout = "02-01-2006 15_04_05"
	fileNamePrefix = "image copy log "
)

var Header = []string{"source filepath", "destination filepath"}

// Entry is one audit row. Destination carries the skip reason or error
// text when nothing was copied.
type Entry struct {
	Source      string
	Destination string
}

func Entries(results []relocate.Result) []Entry {
	out := make([]Entry, len(results))
	for i, r := range results {
		out[i] = Entry{Source: r.Source, Destination: r.AuditValue()}
	}
	return out
}

func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Source, e.Destination}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func EncodeCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the local artifact name for a run started at now.
func FileName(now time.Time) string {
	return fileNamePrefix + now.Format(fileNameLayout) + ".csv"
}

// WriteLocal writes data into dir/<station> under FileName(now) and
// returns the path.
func WriteLocal(dir, station string, now time.Time, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if station != "" {
		dir = filepath.Join(dir, station)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("audit dir: %w", err)
	}
	p := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write audit: %w", err)
	}
	return p, nil
}
