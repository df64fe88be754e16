package naming

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Dialect int

const (
	DialectShort Dialect = iota + 1
	DialectLong
	DialectLongExt
)

func (d Dialect) String() string {
	switch d {
	case DialectShort:
		return "short"
	case DialectLong:
		return "long"
	case DialectLongExt:
		return "long+ext"
	default:
		return "unknown"
	}
}

const (
	shortFields   = 4
	longFields    = 10
	longExtFields = 11

	shortCameraField = 1
	longCameraField  = 7
	dhmsField        = 3

	// ArgusTimezone is the timezone label written into long-form names.
	ArgusTimezone = "GMT"

	timexCamera = "timex"
	mergeKind   = "timex.merge"
)

// ParsedFilename holds the fields of a recognised image filename.
type ParsedFilename struct {
	Raw     string
	Dialect Dialect
	Epoch   string
	Instant time.Time

	// Long form only.
	Weekday  string
	Month    string
	DayHMS   string
	Timezone string
	Year     string
	Station  string

	Camera    string
	Kind      string
	Extension string

	// NeedsRepad is set when a d_h_m_s subfield has a single digit.
	NeedsRepad bool

	fields []string
}

// Parse splits a filename into its fields. The dialect is chosen by the
// number of dot-separated fields only: 4 is short form, 10 is long form and
// 11 is long form with a two-part extension.
func Parse(name string) (*ParsedFilename, error) {
	fields := strings.Split(name, ".")
	p := &ParsedFilename{Raw: name, fields: fields}

	switch len(fields) {
	case shortFields:
		p.Dialect = DialectShort
		p.Epoch = fields[0]
		p.Camera = fields[1]
		p.Kind = fields[2]
		p.Extension = fields[3]
		if p.Camera == timexCamera {
			p.Camera = MergeCamera
			p.Kind = mergeKind
		}
	case longFields, longExtFields:
		p.Dialect = DialectLong
		p.Epoch = fields[0]
		p.Weekday = fields[1]
		p.Month = fields[2]
		p.DayHMS = fields[dhmsField]
		p.Timezone = fields[4]
		p.Year = fields[5]
		p.Station = fields[6]
		p.Camera = fields[longCameraField]
		p.Kind = fields[8]
		p.Extension = fields[9]
		if len(fields) == longExtFields {
			p.Dialect = DialectLongExt
			p.Extension = fields[9] + "." + fields[10]
		}
		repad, err := checkDHMS(p.DayHMS)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrUnrecognizedFilename, name, err)
		}
		p.NeedsRepad = repad
	default:
		return nil, fmt.Errorf("%w: %q has %d fields", ErrUnrecognizedFilename, name, len(fields))
	}

	instant, err := DecodeEpoch(p.Epoch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	p.Instant = instant
	return p, nil
}

func (p *ParsedFilename) IsLong() bool {
	return p.Dialect == DialectLong || p.Dialect == DialectLongExt
}

func (p *ParsedFilename) Calendar() Calendar {
	return FormatCalendar(p.Instant)
}

// Canonical returns the filename with the d_h_m_s block zero padded.
func (p *ParsedFilename) Canonical() string {
	return p.build(true, "")
}

// WithCamera returns the filename with its camera field replaced.
func (p *ParsedFilename) WithCamera(camera string) string {
	return p.build(false, camera)
}

func (p *ParsedFilename) build(pad bool, camera string) string {
	if (!pad || !p.NeedsRepad) && camera == "" {
		return p.Raw
	}
	fields := append([]string(nil), p.fields...)
	if pad && p.NeedsRepad {
		fields[dhmsField] = padDHMS(fields[dhmsField])
	}
	if camera != "" {
		if p.IsLong() {
			fields[longCameraField] = camera
		} else {
			fields[shortCameraField] = camera
		}
	}
	return strings.Join(fields, ".")
}

// ArgusName renders a short-form filename as a long-form one for the given
// station short name. The epoch token is kept verbatim.
func ArgusName(p *ParsedFilename, shortName string) string {
	c := FormatCalendar(p.Instant)
	return strings.Join([]string{
		p.Epoch,
		c.Weekday,
		c.Month,
		c.DHMS(),
		ArgusTimezone,
		strconv.Itoa(c.Year),
		shortName,
		p.Camera,
		p.Kind,
		p.Extension,
	}, ".")
}

func checkDHMS(block string) (needsRepad bool, err error) {
	parts := strings.Split(block, "_")
	if len(parts) != 4 {
		return false, fmt.Errorf("time block %q has %d subfields, want 4", block, len(parts))
	}
	for _, part := range parts {
		if len(part) == 0 || len(part) > 2 || !allDigits(part) {
			return false, fmt.Errorf("time block %q has invalid subfield %q", block, part)
		}
		if len(part) == 1 {
			needsRepad = true
		}
	}
	return needsRepad, nil
}

func padDHMS(block string) string {
	parts := strings.Split(block, "_")
	for i, part := range parts {
		if len(part) == 1 {
			parts[i] = "0" + part
		}
	}
	return strings.Join(parts, "_")
}
