package systemd

import (
	"strings"
	"testing"

	"CoastCam/internal/config"
)

func TestStationUnits_AlertAndTally(t *testing.T) {
	st := &config.StationConfig{
		Name:     "caco-01",
		Timezone: "America/New_York",
		Alert: &config.AlertConfig{
			Enabled:  true,
			Schedule: &config.ScheduleConfig{Period: "day", Times: 1, At: "10:00", JitterMinutes: 5},
		},
		Tally: &config.TallyConfig{
			Enabled:  true,
			Schedule: &config.ScheduleConfig{Period: "day", Times: 1, At: "20:00"},
		},
	}
	units, err := StationUnits(st, GeneratorOptions{Binary: "/usr/bin/coastcam", ConfigPath: "/etc/coastcam/config.yaml", Hardening: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}

	alert := units[0]
	if alert.Name != "coastcam-alert-caco-01" || alert.TimerFile() != "coastcam-alert-caco-01.timer" {
		t.Errorf("alert unit name = %q", alert.Name)
	}
	if !strings.Contains(alert.Service, "ExecStart=/usr/bin/coastcam alert check --station caco-01") {
		t.Errorf("service ExecStart wrong:\n%s", alert.Service)
	}
	if !strings.Contains(alert.Service, "Environment=COASTCAM_CONFIG=/etc/coastcam/config.yaml") {
		t.Error("service missing config env")
	}
	if !strings.Contains(alert.Service, "ProtectSystem=full") {
		t.Error("service missing hardening")
	}
	if !strings.Contains(alert.Timer, "OnCalendar=*-*-* 10:00:00 America/New_York") {
		t.Errorf("timer OnCalendar wrong:\n%s", alert.Timer)
	}
	if !strings.Contains(alert.Timer, "RandomizedDelaySec=300") {
		t.Error("timer missing jitter (5*60=300)")
	}
	if !strings.Contains(alert.Timer, "Requires=coastcam-alert-caco-01.service") {
		t.Error("timer missing Requires")
	}

	tally := units[1]
	if !strings.Contains(tally.Service, "alert tally --station caco-01") {
		t.Errorf("tally ExecStart wrong:\n%s", tally.Service)
	}
	if strings.Contains(tally.Timer, "RandomizedDelaySec") {
		t.Error("tally timer should have no jitter")
	}
}

func TestStationUnits_DisabledOrUnscheduled(t *testing.T) {
	st := &config.StationConfig{
		Name:  "dreaminn",
		Alert: &config.AlertConfig{Enabled: false, Schedule: &config.ScheduleConfig{Period: "day", Times: 1}},
		Tally: &config.TallyConfig{Enabled: true},
	}
	units, err := StationUnits(st, GeneratorOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 0 {
		t.Errorf("got %d units, want 0", len(units))
	}
}

func TestGenerate_NilSchedule_Error(t *testing.T) {
	_, err := Generate(&config.StationConfig{Name: "x"}, "alert", "alert check", nil, GeneratorOptions{})
	if err == nil {
		t.Error("expected error for nil schedule")
	}
}

func TestSanitizeUnitName(t *testing.T) {
	if got := sanitizeUnitName("caco-01"); got != "caco-01" {
		t.Errorf("sanitize caco-01 = %q", got)
	}
	if got := sanitizeUnitName("madeira beach"); got != "madeira-beach" {
		t.Errorf("sanitize 'madeira beach' = %q", got)
	}
	if got := sanitizeUnitName("/"); got != "default" {
		t.Errorf("sanitize '/' = %q", got)
	}
}
