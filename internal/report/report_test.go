package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/tt/internal/timer"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(timer.TimeLayout, s, time.Local)
	require.NoError(t, err)
	return ts
}

func span(t *testing.T, name, start, end string) timer.Timer {
	t.Helper()
	e := at(t, end)
	return timer.Timer{Name: name, Start: at(t, start), End: &e}
}

func TestBuildEmptyLog(t *testing.T) {
	assert.Nil(t, Build(nil, time.Now()))
}

func TestBuildSingleDay(t *testing.T) {
	now := at(t, "2024-05-03 12:00:00")
	timers := []timer.Timer{
		span(t, "write docs", "2024-05-03 09:00:00", "2024-05-03 10:30:00"),
		span(t, "fix build", "2024-05-03 10:30:00", "2024-05-03 11:00:00"),
		span(t, "write docs", "2024-05-03 11:00:00", "2024-05-03 11:15:00"),
	}

	buckets := Build(timers, now)
	require.Len(t, buckets, 3) // trailing day, week, month

	day := buckets[0]
	assert.Equal(t, "day   2024-05-03", day.Label)
	// Same-name timers merge; first-seen order is kept.
	assert.Equal(t, []string{"write docs", "fix build"}, day.Names)
	assert.Equal(t, 105*time.Minute, day.Totals["write docs"])
	assert.Equal(t, 30*time.Minute, day.Totals["fix build"])

	// 2024-05-03 is a Friday; its week starts Monday 2024-04-29.
	assert.Equal(t, "week  2024-04-29", buckets[1].Label)
	assert.Equal(t, "month 2024-05", buckets[2].Label)
}

func TestBuildFlushesDayBoundary(t *testing.T) {
	now := at(t, "2024-05-03 12:00:00")
	timers := []timer.Timer{
		span(t, "one", "2024-05-02 09:00:00", "2024-05-02 10:00:00"),
		span(t, "two", "2024-05-03 09:00:00", "2024-05-03 10:00:00"),
	}

	buckets := Build(timers, now)
	require.Len(t, buckets, 4)
	assert.Equal(t, "day   2024-05-02", buckets[0].Label)
	assert.Equal(t, "day   2024-05-03", buckets[1].Label)
	// Both days fall in the same week and month.
	assert.Equal(t, "week  2024-04-29", buckets[2].Label)
	assert.Equal(t, 2*time.Hour, buckets[2].Totals["one"]+buckets[2].Totals["two"])
	assert.Equal(t, "month 2024-05", buckets[3].Label)
}

func TestBuildFlushesMonthBoundary(t *testing.T) {
	now := at(t, "2024-06-03 12:00:00")
	timers := []timer.Timer{
		span(t, "one", "2024-05-31 09:00:00", "2024-05-31 10:00:00"),
		span(t, "two", "2024-06-03 09:00:00", "2024-06-03 10:00:00"),
	}

	buckets := Build(timers, now)
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	assert.Contains(t, labels, "month 2024-05")
	assert.Contains(t, labels, "month 2024-06")
	// The week split happens at the month boundary even mid-week.
	assert.Contains(t, labels, "week  2024-05-27")
	assert.Contains(t, labels, "week  2024-06-03")
}

func TestBuildMeasuresActiveAgainstNow(t *testing.T) {
	now := at(t, "2024-05-03 10:00:00")
	timers := []timer.Timer{
		{Name: "running", Start: at(t, "2024-05-03 09:00:00")},
	}

	buckets := Build(timers, now)
	require.NotEmpty(t, buckets)
	assert.Equal(t, time.Hour, buckets[0].Totals["running"])
}

func TestRenderPlain(t *testing.T) {
	now := at(t, "2024-05-03 12:00:00")
	timers := []timer.Timer{
		span(t, "write docs", "2024-05-03 09:00:00", "2024-05-03 10:30:00"),
	}

	out := Render(Build(timers, now), PlainStyles())
	assert.Contains(t, out, "day   2024-05-03\n")
	assert.Contains(t, out, "  1:30:00 write docs\n")
	assert.Contains(t, out, "week  2024-04-29\n")
	assert.Contains(t, out, "month 2024-05\n")
}

func TestCalendarShowsDayTotals(t *testing.T) {
	now := at(t, "2024-05-20 12:00:00")
	timers := []timer.Timer{
		span(t, "write docs", "2024-05-03 09:00:00", "2024-05-03 10:30:00"),
		span(t, "other month", "2024-04-03 09:00:00", "2024-04-03 10:00:00"),
	}

	out := Calendar(timers, 2024, time.May, now, PlainStyles())
	assert.Contains(t, out, "May 2024")
	assert.Contains(t, out, "3 1:30")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "1:30:00")
	// April's timer stays out of May's grid and total.
	assert.NotContains(t, out, "2:30")
}

func TestCalendarWeekStartsMonday(t *testing.T) {
	out := Calendar(nil, 2024, time.May, at(t, "2024-05-20 12:00:00"), PlainStyles())
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[1], "Mo"), "weekday row should start with Monday: %q", lines[1])
	// 2024-05-01 is a Wednesday, so the first row leads with two blank cells.
	assert.True(t, strings.HasPrefix(lines[2], strings.Repeat(" ", 16)+" 1"), "first day row misaligned: %q", lines[2])
}
