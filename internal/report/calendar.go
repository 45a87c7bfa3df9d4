package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkarlsen/tt/internal/timer"
)

// cellWidth is the rendered width of one calendar day cell.
const cellWidth = 8

// Calendar renders a Monday-first month grid where each day cell shows the
// day number and the total time tracked that day. A timer counts toward the
// day it started on; active timers are measured against now.
func Calendar(timers []timer.Timer, year int, month time.Month, now time.Time, st Styles) string {
	totals := make(map[int]time.Duration)
	for _, t := range timers {
		if t.Start.Year() == year && t.Start.Month() == month {
			totals[t.Start.Day()] += t.Duration(now)
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var sb strings.Builder
	sb.WriteString(st.Heading.Render(first.Format("January 2006")))
	sb.WriteString("\n")

	weekdays := []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	for _, wd := range weekdays {
		sb.WriteString(st.Dim.Render(pad(wd)))
	}
	sb.WriteString("\n")

	col := mondayOffset(first)
	sb.WriteString(strings.Repeat(strings.Repeat(" ", cellWidth), col))

	for day := 1; day <= daysInMonth; day++ {
		cell := fmt.Sprintf("%2d", day)
		style := st.Dim
		if d, ok := totals[day]; ok {
			cell = fmt.Sprintf("%2d %s", day, hoursMinutes(d))
			style = st.Duration
		}
		sb.WriteString(style.Render(pad(cell)))
		col++
		if col == 7 {
			sb.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		sb.WriteString("\n")
	}

	if total := sumTotals(totals); total > 0 {
		fmt.Fprintf(&sb, "%s %s\n",
			st.Dim.Render("total"),
			st.Duration.Render(timer.FormatDuration(total)))
	}
	return sb.String()
}

// hoursMinutes renders a duration as H:MM for calendar cells.
func hoursMinutes(d time.Duration) string {
	mins := int(d.Minutes())
	return fmt.Sprintf("%d:%02d", mins/60, mins%60)
}

// pad right-pads s to the calendar cell width.
func pad(s string) string {
	if len(s) >= cellWidth {
		return s
	}
	return s + strings.Repeat(" ", cellWidth-len(s))
}

func sumTotals(totals map[int]time.Duration) time.Duration {
	var total time.Duration
	for _, d := range totals {
		total += d
	}
	return total
}
