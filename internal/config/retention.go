package config

import "time"

// RetentionDays is the longest of the configured day, week and month
// windows, in days. Months count as 30 days.
func RetentionDays(r *RetentionConfig) int {
	if r == nil {
		return 0
	}
	return max(r.Days, r.Weeks*7, r.Months*30)
}

// RetainUntil is the cutoff before which audit runs expire. The zero time
// means keep everything.
func RetainUntil(now time.Time, r *RetentionConfig) time.Time {
	days := RetentionDays(r)
	if days <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

func IsExpired(runTime, now time.Time, r *RetentionConfig) bool {
	cutoff := RetainUntil(now, r)
	if cutoff.IsZero() {
		return false
	}
	return runTime.Before(cutoff)
}
