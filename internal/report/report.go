// Package report aggregates the timer log into daily, weekly, and monthly
// per-name totals and renders them for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkarlsen/tt/internal/timer"
)

// Styles holds the lipgloss styles used by the renderers.
type Styles struct {
	Heading  lipgloss.Style
	Duration lipgloss.Style
	Name     lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultStyles returns the standard colored styles.
func DefaultStyles() Styles {
	return Styles{
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Duration: lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		Name:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// PlainStyles returns styles with no coloring, for --no-color and dumb
// terminals.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Heading: plain, Duration: plain, Name: plain, Dim: plain}
}

// Bucket is one aggregation window (a day, a week, or a month) with
// per-name totals. Names keeps first-seen order so rendering is stable.
type Bucket struct {
	Label  string
	Names  []string
	Totals map[string]time.Duration
}

func newBucket(label string) *Bucket {
	return &Bucket{Label: label, Totals: make(map[string]time.Duration)}
}

func (b *Bucket) add(name string, d time.Duration) {
	if _, ok := b.Totals[name]; !ok {
		b.Names = append(b.Names, name)
	}
	b.Totals[name] += d
}

func (b *Bucket) empty() bool {
	return len(b.Names) == 0
}

// Build walks the timers chronologically and emits a bucket each time a day,
// week, or month boundary is crossed, then flushes the trailing day, week,
// and month. Active timers are measured against now. An empty log yields no
// buckets.
func Build(timers []timer.Timer, now time.Time) []Bucket {
	if len(timers) == 0 {
		return nil
	}

	var out []Bucket
	prev := timers[0].Start
	day := newBucket(dayLabel(prev))
	week := newBucket(weekLabel(prev))
	month := newBucket(monthLabel(prev))

	flush := func(b **Bucket, label string) {
		if !(*b).empty() {
			out = append(out, **b)
		}
		*b = newBucket(label)
	}

	for _, t := range timers {
		date := t.Start
		if !sameDay(prev, date) {
			flush(&day, dayLabel(date))
		}
		if !sameWeek(prev, date) {
			flush(&week, weekLabel(date))
		}
		if !sameMonth(prev, date) {
			flush(&month, monthLabel(date))
		}
		d := t.Duration(now)
		day.add(t.Name, d)
		week.add(t.Name, d)
		month.add(t.Name, d)
		prev = date
	}
	flush(&day, "")
	flush(&week, "")
	flush(&month, "")
	return out
}

// Render writes the buckets as heading lines followed by indented
// duration/name pairs.
func Render(buckets []Bucket, st Styles) string {
	var sb strings.Builder
	for _, b := range buckets {
		sb.WriteString(st.Heading.Render(b.Label))
		sb.WriteString("\n")
		for _, name := range b.Names {
			fmt.Fprintf(&sb, "  %s %s\n",
				st.Duration.Render(timer.FormatDuration(b.Totals[name])),
				st.Name.Render(name))
		}
	}
	return sb.String()
}

func dayLabel(d time.Time) string {
	return "day   " + d.Format("2006-01-02")
}

// weekLabel uses the Monday of d's week.
func weekLabel(d time.Time) string {
	monday := d.AddDate(0, 0, -mondayOffset(d))
	return "week  " + monday.Format("2006-01-02")
}

func monthLabel(d time.Time) string {
	return "month " + d.Format("2006-01")
}

// mondayOffset returns how many days d is past Monday.
func mondayOffset(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// sameWeek compares ISO week numbers within the same month, so a week
// spanning a month boundary splits at the new month.
func sameWeek(a, b time.Time) bool {
	_, wa := a.ISOWeek()
	_, wb := b.ISOWeek()
	return a.Year() == b.Year() && a.Month() == b.Month() && wa == wb
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
