// Package timer holds the in-memory time-tracker model: an ordered log of
// timers plus a name map used for shorthand resolution. Only the last timer
// in the log may be active.
package timer

import (
	"fmt"
	"time"
)

// TimeLayout is the timestamp format used on disk and in messages.
const TimeLayout = "2006-01-02 15:04:05"

// Timer is a single tracked interval. End is nil while the timer is running.
type Timer struct {
	Name  string
	Start time.Time
	End   *time.Time
}

// Active reports whether the timer is still running.
func (t Timer) Active() bool {
	return t.End == nil
}

// Duration returns the tracked time, measuring an active timer against now.
func (t Timer) Duration(now time.Time) time.Duration {
	if t.Active() {
		return now.Sub(t.Start)
	}
	return t.End.Sub(t.Start)
}

// FormatDuration renders d as H:MM:SS, the format used in stop messages and
// report lines.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// formatEnd renders a possibly-nil end time for adjustment messages.
func formatEnd(t *time.Time) string {
	if t == nil {
		return "None"
	}
	return t.Format(TimeLayout)
}
