package social

import "time"

const (
	WeeklyAdmireLimit = 3
	QuotaWindow       = 7 * 24 * time.Hour
)

// MaybeResetWeeklyQuota rolls the admire counter over once a full window has
// elapsed since lastReset. It returns the counter and reset time to persist.
func MaybeResetWeeklyQuota(now, lastReset time.Time, counter int) (int, time.Time) {
	if now.Sub(lastReset) >= QuotaWindow {
		return 0, now
	}
	return counter, lastReset
}
