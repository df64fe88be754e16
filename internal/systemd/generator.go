package systemd

import (
	"fmt"
	"strings"

	"CoastCam/internal/config"
	"CoastCam/internal/schedule"
)

const (
	DefaultUnitDir = "/etc/systemd/system"
	DefaultBinary  = "/usr/bin/coastcam"
	UnitPrefix     = "coastcam-"
)

type GeneratorOptions struct {
	Binary     string
	ConfigPath string
	Hardening  bool
}

// Unit is a service/timer pair for one scheduled station job.
type Unit struct {
	Name    string
	Service string
	Timer   string
}

func (u Unit) ServiceFile() string { return u.Name + ".service" }
func (u Unit) TimerFile() string   { return u.Name + ".timer" }

// StationUnits returns the units for the station's enabled alert and tally
// jobs. Jobs without a schedule get no unit.
func StationUnits(st *config.StationConfig, opts GeneratorOptions) ([]Unit, error) {
	var out []Unit
	if a := st.Alert; a != nil && a.Enabled && a.Schedule != nil {
		u, err := Generate(st, "alert", "alert check", a.Schedule, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if t := st.Tally; t != nil && t.Enabled && t.Schedule != nil {
		u, err := Generate(st, "tally", "alert tally", t.Schedule, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func Generate(st *config.StationConfig, job, subcommand string, sched *config.ScheduleConfig, opts GeneratorOptions) (*Unit, error) {
	if sched == nil {
		return nil, fmt.Errorf("schedule is required")
	}
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultConfigPath()
	}
	calendars, err := schedule.OnCalendar(sched, st.Timezone)
	if err != nil {
		return nil, err
	}
	name := UnitName(job, st.Name)
	desc := fmt.Sprintf("CoastCam %s for station %s", job, st.Name)
	execStart := fmt.Sprintf("%s %s --station %s", opts.Binary, subcommand, st.Name)
	return &Unit{
		Name:    name,
		Service: buildService(desc, execStart, opts.ConfigPath, opts.Hardening),
		Timer:   buildTimer(desc, name, calendars, sched.JitterMinutes),
	}, nil
}

func UnitName(job, station string) string {
	return UnitPrefix + job + "-" + sanitizeUnitName(station)
}

func buildService(desc, execStart, configPath string, hardening bool) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=%s\n", desc)
	b.WriteString("After=network-online.target\n")
	b.WriteString("Wants=network-online.target\n\n")

	b.WriteString("[Service]\n")
	b.WriteString("Type=oneshot\n")
	fmt.Fprintf(&b, "ExecStart=%s\n", execStart)
	fmt.Fprintf(&b, "Environment=%s=%s\n", config.EnvConfigPath, configPath)
	if hardening {
		for _, l := range []string{
			"ProtectSystem=full",
			"ProtectHome=read-only",
			"PrivateTmp=yes",
			"NoNewPrivileges=yes",
			"ProtectKernelTunables=yes",
			"ProtectKernelModules=yes",
			"ProtectControlGroups=yes",
			"RestrictRealtime=yes",
			"RestrictSUIDSGID=yes",
			"LockPersonality=yes",
			"RestrictAddressFamilies=AF_UNIX AF_INET AF_INET6",
		} {
			b.WriteString(l + "\n")
		}
	}
	return b.String()
}

func buildTimer(desc, name string, calendars []string, jitterMinutes int) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=%s (timer)\n", desc)
	fmt.Fprintf(&b, "Requires=%s.service\n\n", name)

	b.WriteString("[Timer]\n")
	for _, c := range calendars {
		b.WriteString("OnCalendar=" + c + "\n")
	}
	if jitterMinutes > 0 {
		fmt.Fprintf(&b, "RandomizedDelaySec=%d\n", jitterMinutes*60)
	}
	b.WriteString("Persistent=yes\n\n")

	b.WriteString("[Install]\n")
	b.WriteString("WantedBy=timers.target\n")
	return b.String()
}

func sanitizeUnitName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}
