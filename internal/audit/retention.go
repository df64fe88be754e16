package audit

import (
	"context"
	"time"

	"CoastCam/internal/config"
	"CoastCam/internal/s3"
)

// ApplyRetention deletes expired audit artifacts and their manifests for a
// station and repoints or removes the latest pointer when its target went.
func ApplyRetention(ctx context.Context, store Storage, station string, retention *config.RetentionConfig, now time.Time) (deleted int, err error) {
	if retention == nil || config.RetainUntil(now, retention).IsZero() {
		return 0, nil
	}

	manifestKeys, err := ListManifests(ctx, store, station)
	if err != nil {
		return 0, err
	}

	deletedKeys := make(map[string]struct{})
	for _, manifestKey := range manifestKeys {
		ts, ok := parseManifestTime(manifestKey)
		if !ok || !config.IsExpired(ts, now, retention) {
			continue
		}
		m, err := ReadManifest(ctx, store, manifestKey)
		if err != nil {
			return deleted, err
		}
		if m.Key != "" {
			if err := store.DeleteObject(ctx, m.Key); err != nil {
				return deleted, err
			}
			deletedKeys[m.Key] = struct{}{}
		}
		if err := store.DeleteObject(ctx, manifestKey); err != nil {
			return deleted, err
		}
		deleted++
	}

	latest, err := ReadLatest(ctx, store, station)
	if err != nil || latest.Key == "" {
		return deleted, nil
	}
	if _, removed := deletedKeys[latest.Key]; !removed {
		return deleted, nil
	}

	manifestKeys, err = ListManifests(ctx, store, station)
	if err != nil {
		return deleted, err
	}
	if len(manifestKeys) == 0 {
		return deleted, store.DeleteObject(ctx, s3.AuditLatestKey(station))
	}
	m, err := ReadManifest(ctx, store, manifestKeys[len(manifestKeys)-1])
	if err != nil {
		return deleted, err
	}
	return deleted, WriteLatest(ctx, store, station, LatestPointer{Timestamp: m.Timestamp, Key: m.Key, RunID: m.RunID})
}

func parseManifestTime(manifestKey string) (time.Time, bool) {
	ts, ok := timestampFromManifestKey(manifestKey)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
