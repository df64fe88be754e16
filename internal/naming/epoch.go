package naming

import (
	"fmt"
	"strconv"
	"time"
)

// Calendar is the UTC calendar breakdown of an image timestamp.
type Calendar struct {
	Year      int
	DayOfYear int
	Month     string
	Day       int
	Hour      int
	Minute    int
	Second    int
	Weekday   string
}

// DecodeEpoch turns a filename epoch token into a UTC instant. The last
// character of the token is a per-image sequence digit and is replaced with
// '0' before the token is read as Unix seconds.
func DecodeEpoch(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, fmt.Errorf("%w: empty epoch token", ErrMalformedTimestamp)
	}
	fixed := token[:len(token)-1] + "0"
	if !allDigits(fixed) {
		return time.Time{}, fmt.Errorf("%w: %q is not numeric", ErrMalformedTimestamp, token)
	}
	secs, err := strconv.ParseInt(fixed, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, token, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

func FormatCalendar(t time.Time) Calendar {
	t = t.UTC()
	return Calendar{
		Year:      t.Year(),
		DayOfYear: t.YearDay(),
		Month:     t.Month().String()[:3],
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Second:    t.Second(),
		Weekday:   t.Weekday().String()[:3],
	}
}

// DayFolder renders the ddd_Mmm.dd bucket used as a key segment.
func (c Calendar) DayFolder() string {
	return fmt.Sprintf("%03d_%s.%02d", c.DayOfYear, c.Month, c.Day)
}

func (c Calendar) DHMS() string {
	return fmt.Sprintf("%02d_%02d_%02d_%02d", c.Day, c.Hour, c.Minute, c.Second)
}

func (c Calendar) YearString() string {
	return strconv.Itoa(c.Year)
}

func DayFolderFor(t time.Time) string {
	return FormatCalendar(t).DayFolder()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
