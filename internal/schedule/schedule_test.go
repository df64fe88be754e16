package schedule

import (
	"reflect"
	"testing"
	"time"

	"CoastCam/internal/config"
)

func TestOnCalendar(t *testing.T) {
	tests := []struct {
		name string
		s    *config.ScheduleConfig
		tz   string
		want []string
	}{
		{"daily once", &config.ScheduleConfig{Period: "day", Times: 1, At: "18:00"}, "America/Los_Angeles", []string{"*-*-* 18:00:00 America/Los_Angeles"}},
		{"daily twice wraps", &config.ScheduleConfig{Period: "day", Times: 2, At: "20:00"}, "", []string{"*-*-* 08:00:00", "*-*-* 20:00:00"}},
		{"default anchor", &config.ScheduleConfig{Period: "day", Times: 3}, "", []string{"*-*-* 02:00:00", "*-*-* 10:00:00", "*-*-* 18:00:00"}},
		{"hourly", &config.ScheduleConfig{Period: "hour", At: "00:05"}, "", []string{"*-*-* *:05:00"}},
		{"weekly", &config.ScheduleConfig{Period: "week", Times: 2, At: "06:30"}, "", []string{"Mon *-*-* 06:30:00", "Thu *-*-* 06:30:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OnCalendar(tt.s, tt.tz)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("OnCalendar = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOnCalendar_UnknownPeriod(t *testing.T) {
	if _, err := OnCalendar(&config.ScheduleConfig{Period: "month", Times: 1}, ""); err == nil {
		t.Error("month period should be rejected")
	}
}

func TestNextRun(t *testing.T) {
	// Saturday.
	now := time.Date(2024, 6, 1, 17, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		s    *config.ScheduleConfig
		want time.Time
	}{
		{"later today", &config.ScheduleConfig{Period: "day", Times: 1, At: "18:00"}, time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)},
		{"tomorrow", &config.ScheduleConfig{Period: "day", Times: 1, At: "09:00"}, time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)},
		{"hourly", &config.ScheduleConfig{Period: "hour", At: "00:05"}, time.Date(2024, 6, 1, 18, 5, 0, 0, time.UTC)},
		{"weekly monday", &config.ScheduleConfig{Period: "week", Times: 1}, time.Date(2024, 6, 3, 2, 0, 0, 0, time.UTC)},
		{"jitter", &config.ScheduleConfig{Period: "day", Times: 1, At: "18:00", JitterMinutes: 10}, time.Date(2024, 6, 1, 18, 10, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := NextRun(tt.s, now)
			if !got.Equal(tt.want) {
				t.Errorf("NextRun = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextRun_NoSchedule(t *testing.T) {
	next, desc := NextRun(nil, time.Now())
	if !next.IsZero() || desc != "no schedule" {
		t.Errorf("NextRun(nil) = %v, %q", next, desc)
	}
}
