package timer

import (
	"testing"

	"pgregory.net/rapid"
)

func logWithTimers(t *testing.T, names ...string) *Log {
	t.Helper()
	l := NewLog(nil)
	start := mustTime(t, "2024-05-03 08:00:00")
	for _, name := range names {
		end := start.Add(1)
		l.Timers = append(l.Timers, Timer{Name: name, Start: start, End: &end})
	}
	return l
}

func TestResolveMapWins(t *testing.T) {
	l := logWithTimers(t, "1 leftover timer name")
	l.NameMap["1"] = "big project"

	// The map entry beats the regex search, and the mapped name is final.
	if got := l.Resolve("1", false); got != "big project" {
		t.Errorf("want %q, got %q", "big project", got)
	}
}

func TestResolveSearchesMostRecentFirst(t *testing.T) {
	l := logWithTimers(t, "fix build", "write docs", "fix tests")

	if got := l.Resolve("fix", false); got != "fix tests" {
		t.Errorf("want most recent match %q, got %q", "fix tests", got)
	}
}

func TestResolveDotMatchesMostRecent(t *testing.T) {
	l := logWithTimers(t, "older", "newest")

	if got := l.Resolve(".", false); got != "newest" {
		t.Errorf("want %q, got %q", "newest", got)
	}
}

func TestResolveFallsBackToLiteral(t *testing.T) {
	l := logWithTimers(t, "write docs")

	if got := l.Resolve("brand new task", false); got != "brand new task" {
		t.Errorf("want literal name back, got %q", got)
	}
}

func TestResolveInvalidPatternUsedAsIs(t *testing.T) {
	l := logWithTimers(t, "write docs")

	if got := l.Resolve("broken[", false); got != "broken[" {
		t.Errorf("want invalid pattern back unchanged, got %q", got)
	}
}

func TestResolveExplicitSkipsEverything(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := NewLog(nil)
		l.NameMap["x"] = "mapped"
		l.Timers = append(l.Timers, Timer{Name: "anything", Start: mustTime(t, "2024-05-03 08:00:00")})

		name := rapid.StringN(1, 50, -1).Draw(rt, "name")
		if got := l.Resolve(name, true); got != name {
			rt.Fatalf("explicit resolve changed %q to %q", name, got)
		}
	})
}
