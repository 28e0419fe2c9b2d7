package dispatch

import "time"

// Eligible reports whether enough time has passed since ticket
// resolution for a review request to go out. Ineligible tickets are
// left unmarked so a later pass re-evaluates them.
func Eligible(resolvedAt, now time.Time, delayMinutes int) bool {
	if delayMinutes < 0 {
		delayMinutes = 0
	}
	return !now.Before(resolvedAt.Add(time.Duration(delayMinutes) * time.Minute))
}
