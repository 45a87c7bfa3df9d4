package timer

import (
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func finished(name string, start, end time.Time) Timer {
	return Timer{Name: name, Start: start, End: &end}
}

func TestStartAppendsActiveTimer(t *testing.T) {
	l := NewLog(nil)
	now := mustTime(t, "2024-05-03 09:00:00")

	msg := l.Start("write docs", now)

	if !strings.Contains(msg, "Start write docs") {
		t.Errorf("unexpected start message: %q", msg)
	}
	if !l.Dirty() {
		t.Error("start should mark the log dirty")
	}
	active := l.ActiveTimer()
	if active == nil || active.Name != "write docs" {
		t.Fatalf("expected active timer %q, got %+v", "write docs", active)
	}
}

func TestStopAtStopsActiveTimer(t *testing.T) {
	l := NewLog(nil)
	start := mustTime(t, "2024-05-03 09:00:00")
	l.Start("write docs", start)

	now := start.Add(90 * time.Minute)
	msgs := l.StopAt(now)

	if len(msgs) != 1 || !strings.Contains(msgs[0], "Stop write docs 1:30:00") {
		t.Errorf("unexpected stop messages: %v", msgs)
	}
	if l.ActiveTimer() != nil {
		t.Error("timer should no longer be active")
	}
}

func TestStopAtNoTimersIsQuiet(t *testing.T) {
	l := NewLog(nil)
	if msgs := l.StopAt(mustTime(t, "2024-05-03 09:00:00")); len(msgs) != 0 {
		t.Errorf("expected no messages, got %v", msgs)
	}
	if l.Dirty() {
		t.Error("stopping an empty log should not dirty it")
	}
}

// TestStopAtRepairsAfterLeap covers stopping with a "now" earlier than
// recorded timers, as happens after --leap. The timer started after now
// collapses to a zero-length interval and the earlier timer ending after now
// is clipped.
func TestStopAtRepairsAfterLeap(t *testing.T) {
	l := NewLog(nil)
	l.Timers = []Timer{
		finished("earlier", mustTime(t, "2024-05-03 08:00:00"), mustTime(t, "2024-05-03 10:00:00")),
		{Name: "later", Start: mustTime(t, "2024-05-03 11:00:00")},
	}

	now := mustTime(t, "2024-05-03 09:00:00")
	msgs := l.StopAt(now)

	if len(msgs) != 2 {
		t.Fatalf("expected 2 adjustment messages, got %v", msgs)
	}

	later := l.Timers[1]
	if later.Start != now || later.End == nil || !later.End.Equal(now) {
		t.Errorf("timer started after now should collapse to [now, now], got %+v", later)
	}
	earlier := l.Timers[0]
	if earlier.End == nil || !earlier.End.Equal(now) {
		t.Errorf("timer ending after now should be clipped to now, got %+v", earlier)
	}
}

func TestStopAtStopsWalkingAtUntouchedTimer(t *testing.T) {
	l := NewLog(nil)
	old := finished("untouched", mustTime(t, "2024-05-01 08:00:00"), mustTime(t, "2024-05-01 09:00:00"))
	l.Timers = []Timer{old, {Name: "running", Start: mustTime(t, "2024-05-03 08:00:00")}}

	l.StopAt(mustTime(t, "2024-05-03 09:00:00"))

	if l.Timers[0] != old {
		t.Errorf("finished timer before now should be left alone, got %+v", l.Timers[0])
	}
}

func TestSetMapCreateAndDelete(t *testing.T) {
	l := NewLog(nil)

	if !l.SetMap("1", "big project") {
		t.Error("creating a mapping should report a change")
	}
	if l.NameMap["1"] != "big project" {
		t.Errorf("mapping not stored: %v", l.NameMap)
	}

	if !l.SetMap("1", "") {
		t.Error("deleting an existing mapping should report a change")
	}
	if _, ok := l.NameMap["1"]; ok {
		t.Error("mapping should be deleted")
	}

	if l.SetMap("missing", "") {
		t.Error("deleting a missing mapping should report no change")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00:00"},
		{90 * time.Minute, "1:30:00"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "3:04:05"},
		{-time.Minute, "0:00:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.d); got != c.want {
			t.Errorf("FormatDuration(%v): want %q, got %q", c.d, c.want, got)
		}
	}
}

// Property: an active timer's duration against any later now equals the gap.
func TestActiveDurationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := time.Unix(rapid.Int64Range(0, 1_700_000_000).Draw(rt, "start"), 0)
		gap := time.Duration(rapid.Int64Range(0, 1<<40).Draw(rt, "gap"))
		tm := Timer{Name: "x", Start: start}
		if got := tm.Duration(start.Add(gap)); got != gap {
			rt.Fatalf("duration: want %v, got %v", gap, got)
		}
	})
}
