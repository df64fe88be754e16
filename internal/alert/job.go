package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"CoastCam/internal/config"
	"CoastCam/internal/naming"
	"CoastCam/internal/notifier"
)

type State string

const (
	StateQuiet  State = "quiet"
	StateActive State = "active"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Outcome describes one alert check.
type Outcome struct {
	Station   string
	State     State
	Marker    time.Time
	HadMarker bool
	Threshold time.Time
	Newest    time.Time
	Objects   int
	Notified  bool
	NotifyErr error
}

type Job struct {
	store      Store
	notify     notifier.Notifier
	station    string
	title      string
	prefix     string
	markerKey  string
	window     time.Duration
	recipients []string
	loc        *time.Location
	log        zerolog.Logger
}

// NewJob builds the marker alert for st. Prefix and marker key default to
// the station's latest/ folder and <station>_most_recent_time.csv.
func NewJob(store Store, n notifier.Notifier, st *config.StationConfig, log zerolog.Logger) (*Job, error) {
	loc, err := st.Location()
	if err != nil {
		return nil, err
	}
	j := &Job{
		store:     store,
		notify:    n,
		station:   st.Name,
		title:     st.DisplayTitle(),
		prefix:    naming.LatestPrefix(st.Name),
		markerKey: naming.MarkerKey(st.Name),
		loc:       loc,
		log:       log.With().Str("station", st.Name).Str("job", "alert").Logger(),
	}
	if a := st.Alert; a != nil {
		if a.Prefix != "" {
			j.prefix = a.Prefix
		}
		if a.MarkerKey != "" {
			j.markerKey = a.MarkerKey
		}
		j.window = time.Duration(a.WindowMinutes) * time.Minute
		j.recipients = a.Recipients
	}
	if j.notify == nil {
		j.notify = notifier.Nop()
	}
	return j, nil
}

func (j *Job) Prefix() string    { return j.prefix }
func (j *Job) MarkerKey() string { return j.markerKey }

func (j *Job) Run(ctx context.Context, now time.Time) (*Outcome, error) {
	out := &Outcome{Station: j.station}

	marker, ok, err := ReadMarker(ctx, j.store, j.markerKey)
	if err != nil {
		return nil, err
	}
	out.Marker, out.HadMarker = marker, ok

	objects, err := j.store.ListObjects(ctx, j.prefix, 0)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", j.prefix, err)
	}
	out.Objects = len(objects)
	// The marker keeps whole seconds, so object times are compared at
	// the same precision.
	for _, o := range objects {
		if mt := o.LastModified.Truncate(time.Second); mt.After(out.Newest) {
			out.Newest = mt
		}
	}

	out.Threshold = threshold(marker, ok, now, j.window)
	if !out.Newest.IsZero() && out.Newest.After(out.Threshold) {
		out.State = StateActive
		if err := WriteMarker(ctx, j.store, j.markerKey, out.Newest); err != nil {
			return nil, err
		}
		j.log.Info().Time("newest", out.Newest).Time("threshold", out.Threshold).Msg("new imagery, marker updated")
		return out, nil
	}

	out.State = StateQuiet
	out.Notified = true
	out.NotifyErr = j.notify.Send(ctx, j.message(now))
	if out.NotifyErr != nil {
		j.log.Error().Err(out.NotifyErr).Msg("send alert")
	} else {
		j.log.Warn().Time("threshold", out.Threshold).Int("objects", out.Objects).Msg("no new imagery, alert sent")
	}
	return out, nil
}

// threshold is the marker, moved forward to now-window when a window is
// set and the marker is older than that.
func threshold(marker time.Time, hasMarker bool, now time.Time, window time.Duration) time.Time {
	var t time.Time
	if hasMarker {
		t = marker
	}
	if window > 0 {
		if w := now.Add(-window); w.After(t) {
			t = w
		}
	}
	return t
}

func (j *Job) message(now time.Time) notifier.Message {
	local := now.In(j.loc)
	return notifier.Message{
		Subject:    j.title + " Email Alert",
		Body:       fmt.Sprintf("Camera did not turn on today: %s\nEmail timestamp: %s", local.Format(dateLayout), local.Format(timestampLayout)),
		Station:    j.station,
		Event:      notifier.EventAlert,
		Recipients: j.recipients,
	}
}
