package alert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"CoastCam/internal/config"
	"CoastCam/internal/naming"
	"CoastCam/internal/notifier"
	"CoastCam/internal/s3"
)

var DefaultTallyCameras = []string{"c1", "c2"}

const tallyHeader = "date,tally"

// CameraTally is one camera's image count for the day.
type CameraTally struct {
	Camera string
	Prefix string
	Count  int
	First  string
	Last   string
}

type TallyReport struct {
	Station   string
	Date      string
	Total     int
	Cameras   []CameraTally
	Body      string
	NotifyErr error
}

type Tally struct {
	store      Store
	notify     notifier.Notifier
	station    string
	title      string
	cameras    []string
	key        string
	recipients []string
	loc        *time.Location
	log        zerolog.Logger
}

func NewTally(store Store, n notifier.Notifier, st *config.StationConfig, log zerolog.Logger) (*Tally, error) {
	loc, err := st.Location()
	if err != nil {
		return nil, err
	}
	t := &Tally{
		store:   store,
		notify:  n,
		station: st.Name,
		title:   strings.ToUpper(st.DisplayTitle()),
		cameras: DefaultTallyCameras,
		key:     naming.TallyKey(st.Name),
		loc:     loc,
		log:     log.With().Str("station", st.Name).Str("job", "tally").Logger(),
	}
	if c := st.Tally; c != nil {
		if len(c.Cameras) > 0 {
			t.cameras = c.Cameras
		}
		if c.Key != "" {
			t.key = c.Key
		}
		t.recipients = c.Recipients
	}
	if t.notify == nil {
		t.notify = notifier.Nop()
	}
	return t, nil
}

// Run counts today's images per camera, sends the summary and appends
// the count to the tally CSV. A notification failure is reported but the
// tally is still recorded.
func (t *Tally) Run(ctx context.Context, now time.Time) (*TallyReport, error) {
	local := now.In(t.loc)
	day := localCalendar(local)
	rep := &TallyReport{Station: t.station, Date: local.Format(dateLayout)}

	for _, cam := range t.cameras {
		prefix := naming.DayPrefix(t.station, cam, day)
		objects, err := t.store.ListObjects(ctx, prefix, 0)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		ct := CameraTally{Camera: cam, Prefix: prefix, Count: len(objects)}
		if len(objects) > 0 {
			ct.First = objects[0].Key
			ct.Last = objects[len(objects)-1].Key
		}
		rep.Total += ct.Count
		rep.Cameras = append(rep.Cameras, ct)
	}

	rep.Body = t.body(rep, local)
	rep.NotifyErr = t.notify.Send(ctx, notifier.Message{
		Subject:    t.title + " Daily Email Alert",
		Body:       rep.Body,
		Station:    t.station,
		Event:      notifier.EventTally,
		Recipients: t.recipients,
	})
	if rep.NotifyErr != nil {
		t.log.Error().Err(rep.NotifyErr).Msg("send tally")
	}

	if err := t.appendRow(ctx, rep.Date, rep.Total); err != nil {
		return nil, err
	}
	t.log.Info().Str("date", rep.Date).Int("total", rep.Total).Msg("tally recorded")
	return rep, nil
}

// localCalendar is the calendar of the local date, so the day folder is
// "today" for the station rather than today in UTC.
func localCalendar(local time.Time) naming.Calendar {
	y, m, d := local.Date()
	return naming.FormatCalendar(time.Date(y, m, d, 12, 0, 0, 0, time.UTC))
}

func (t *Tally) body(rep *TallyReport, local time.Time) string {
	if rep.Total == 0 {
		return fmt.Sprintf("ALERT: no files uploaded for %s on %s!\nemail timestamp: %s", t.title, rep.Date, local.Format(timestampLayout))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Total number of images for %s on %s: %d\n", t.title, rep.Date, rep.Total)
	for _, c := range rep.Cameras {
		if c.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "Time(s) for %s first image: %s\n", c.Camera, t.times(c.First))
		fmt.Fprintf(&b, "Time(s) for %s last image: %s\n", c.Camera, t.times(c.Last))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// times renders the epoch token of key with its UTC and local times.
func (t *Tally) times(key string) string {
	_, filename := naming.SplitKey(key)
	token, _, _ := strings.Cut(filename, ".")
	ts, err := naming.DecodeEpoch(token)
	if err != nil {
		return token + " (epoch)"
	}
	zone := ts.In(t.loc).Format("MST")
	return fmt.Sprintf("%s (epoch), %s GMT, %s %s", token, ts.Format(timestampLayout), ts.In(t.loc).Format(timestampLayout), zone)
}

func (t *Tally) appendRow(ctx context.Context, date string, total int) error {
	existing, err := readObject(ctx, t.store, t.key)
	if err != nil && !errors.Is(err, s3.ErrNotFound) {
		return fmt.Errorf("read tally %s: %w", t.key, err)
	}
	var buf bytes.Buffer
	if len(existing) == 0 {
		buf.WriteString(tallyHeader + "\n")
	} else {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	fmt.Fprintf(&buf, "%s,%d\n", date, total)
	if err := t.store.PutObject(ctx, t.key, bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		return fmt.Errorf("write tally %s: %w", t.key, err)
	}
	return nil
}
