package schedule

import (
	"fmt"
	"sort"
	"time"

	"CoastCam/internal/config"
)

// Slot is one firing time. Weekday is -1 for every day; Hour is -1 for
// every hour.
type Slot struct {
	Weekday int
	Hour    int
	Minute  int
}

var (
	dayOffsets   = [][]int{{0}, {0, 12}, {0, 8, 16}, {0, 6, 12, 18}, {0, 4, 10, 16, 20}}
	weekWeekdays = [][]int{{1}, {1, 4}, {1, 3, 5}, {1, 2, 4, 5}, {1, 2, 3, 4, 5}}
	weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

func clampTimes(n int) int {
	if n < 1 {
		return 1
	}
	if n > config.MaxTimesPerPeriod {
		return config.MaxTimesPerPeriod
	}
	return n
}

// Slots expands s into its firing times. The anchor At (default 02:00) is
// the first slot; further daily runs are spread over the day from it.
func Slots(s *config.ScheduleConfig) ([]Slot, error) {
	if s == nil {
		return nil, nil
	}
	hour, minute, err := config.ParseAt(s.At)
	if err != nil {
		return nil, err
	}
	var out []Slot
	switch s.Period {
	case config.PeriodHour:
		out = append(out, Slot{Weekday: -1, Hour: -1, Minute: minute})
	case config.PeriodDay:
		for _, off := range dayOffsets[clampTimes(s.Times)-1] {
			out = append(out, Slot{Weekday: -1, Hour: (hour + off) % 24, Minute: minute})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	case config.PeriodWeek:
		for _, wd := range weekWeekdays[clampTimes(s.Times)-1] {
			out = append(out, Slot{Weekday: wd, Hour: hour, Minute: minute})
		}
	default:
		return nil, fmt.Errorf("%w: unknown period %q", config.ErrInvalidSchedule, s.Period)
	}
	return out, nil
}

// OnCalendar renders s as systemd OnCalendar expressions. A non-empty
// timezone is appended so the timer fires in station local time.
func OnCalendar(s *config.ScheduleConfig, timezone string) ([]string, error) {
	slots, err := Slots(s)
	if err != nil {
		return nil, err
	}
	suffix := ""
	if timezone != "" {
		suffix = " " + timezone
	}
	out := make([]string, 0, len(slots))
	for _, sl := range slots {
		var expr string
		switch {
		case sl.Hour < 0:
			expr = fmt.Sprintf("*-*-* *:%02d:00", sl.Minute)
		case sl.Weekday < 0:
			expr = fmt.Sprintf("*-*-* %02d:%02d:00", sl.Hour, sl.Minute)
		default:
			expr = fmt.Sprintf("%s *-*-* %02d:%02d:00", weekdayNames[sl.Weekday], sl.Hour, sl.Minute)
		}
		out = append(out, expr+suffix)
	}
	return out, nil
}

// NextRun returns the first slot strictly after now, evaluated in now's
// location, plus a short description of the schedule.
func NextRun(s *config.ScheduleConfig, now time.Time) (time.Time, string) {
	slots, err := Slots(s)
	if err != nil || len(slots) == 0 {
		return time.Time{}, "no schedule"
	}
	var next time.Time
	for _, sl := range slots {
		c := nextSlot(sl, now)
		if next.IsZero() || c.Before(next) {
			next = c
		}
	}
	if s.JitterMinutes > 0 {
		next = next.Add(time.Duration(s.JitterMinutes) * time.Minute)
	}
	return next, describe(s)
}

func nextSlot(sl Slot, now time.Time) time.Time {
	loc := now.Location()
	if sl.Hour < 0 {
		c := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), sl.Minute, 0, 0, loc)
		if !c.After(now) {
			c = c.Add(time.Hour)
		}
		return c
	}
	for i := 0; i <= 7; i++ {
		d := now.AddDate(0, 0, i)
		if sl.Weekday >= 0 && int(d.Weekday()) != sl.Weekday {
			continue
		}
		c := time.Date(d.Year(), d.Month(), d.Day(), sl.Hour, sl.Minute, 0, 0, loc)
		if c.After(now) {
			return c
		}
	}
	return time.Time{}
}

func describe(s *config.ScheduleConfig) string {
	switch s.Period {
	case config.PeriodHour:
		return "hourly"
	case config.PeriodWeek:
		return fmt.Sprintf("weekly %d×", clampTimes(s.Times))
	default:
		return fmt.Sprintf("daily %d×", clampTimes(s.Times))
	}
}
