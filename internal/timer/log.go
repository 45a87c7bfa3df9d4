package timer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Log is the full tracker state loaded from the data file: every timer in
// chronological order plus the name map. Mutating methods set the dirty flag
// so callers know a save is needed.
type Log struct {
	Timers  []Timer
	NameMap map[string]string

	dirty  bool
	logger *zap.Logger
}

// NewLog returns an empty log. A nil logger is replaced with a no-op logger.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		NameMap: make(map[string]string),
		logger:  logger,
	}
}

// Dirty reports whether the log has unsaved changes.
func (l *Log) Dirty() bool {
	return l.dirty
}

// MarkDirty forces a save on the next persistence pass. Used when loading an
// old file version that should be rewritten in the current format.
func (l *Log) MarkDirty() {
	l.dirty = true
}

// ActiveTimer returns the running timer, or nil if nothing is being tracked.
func (l *Log) ActiveTimer() *Timer {
	if len(l.Timers) == 0 {
		return nil
	}
	last := &l.Timers[len(l.Timers)-1]
	if last.Active() {
		return last
	}
	return nil
}

// Start appends a new running timer and returns the message to show the user.
func (l *Log) Start(name string, now time.Time) string {
	l.Timers = append(l.Timers, Timer{Name: name, Start: now})
	l.dirty = true
	l.logger.Debug("started timer", zap.String("name", name), zap.Time("start", now))
	return fmt.Sprintf("Start %s %s", name, now.Format(TimeLayout))
}

// StopAt stops the running timer as of now and repairs timers that extend
// past now, which happens when now was shifted back with --leap. Walking
// newest to oldest: a timer starting after now collapses to [now, now], a
// finished timer ending after now is clipped to end at now, and the first
// untouched timer ends the walk. Returns the messages to show the user.
func (l *Log) StopAt(now time.Time) []string {
	var msgs []string
	for i := len(l.Timers) - 1; i >= 0; i-- {
		t := l.Timers[i]
		switch {
		case now.Before(t.Start):
			end := now
			l.Timers[i] = Timer{Name: t.Name, Start: now, End: &end}
			l.dirty = true
			msgs = append(msgs, adjustMessage(t, l.Timers[i]))
		case t.Active():
			end := now
			l.Timers[i] = Timer{Name: t.Name, Start: t.Start, End: &end}
			l.dirty = true
			msgs = append(msgs, fmt.Sprintf("Stop %s %s", t.Name, FormatDuration(l.Timers[i].Duration(now))))
		case now.Before(*t.End):
			end := now
			l.Timers[i] = Timer{Name: t.Name, Start: t.Start, End: &end}
			l.dirty = true
			msgs = append(msgs, adjustMessage(t, l.Timers[i]))
		default:
			return msgs
		}
	}
	return msgs
}

func adjustMessage(before, after Timer) string {
	return fmt.Sprintf("Adjust %s\n  before %s %s\n   after %s %s",
		before.Name,
		before.Start.Format(TimeLayout), formatEnd(before.End),
		after.Start.Format(TimeLayout), formatEnd(after.End))
}

// SetMap creates, replaces, or (with an empty target) deletes a name mapping.
// Returns false when nothing changed.
func (l *Log) SetMap(from, to string) bool {
	if to != "" {
		l.NameMap[from] = to
		l.dirty = true
		l.logger.Debug("map set", zap.String("from", from), zap.String("to", to))
		return true
	}
	if _, ok := l.NameMap[from]; ok {
		delete(l.NameMap, from)
		l.dirty = true
		l.logger.Debug("map deleted", zap.String("from", from))
		return true
	}
	return false
}
