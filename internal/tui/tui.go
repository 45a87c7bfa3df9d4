// Package tui provides a Bubble Tea browser for tt reports. It shows the
// daily, weekly, monthly, and calendar views in tabs and reloads when the
// data file changes on disk.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"github.com/mkarlsen/tt/internal/report"
	"github.com/mkarlsen/tt/internal/store"
	"github.com/mkarlsen/tt/internal/timer"
)

// ── Styles ──

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	activeTimerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ── Tab definitions ──

type tabID int

const (
	tabDay tabID = iota
	tabWeek
	tabMonth
	tabCalendar
	tabCount
)

var tabNames = [tabCount]string{"Day", "Week", "Month", "Calendar"}

// bucketPrefix maps a tab to the label prefix of the buckets it shows.
var bucketPrefix = [tabCount]string{"day", "week", "month", ""}

// ── Messages ──

type fileChangedMsg struct{}

// ── Model ──

// Model is the root Bubble Tea model for the report browser.
type Model struct {
	st      *store.Store
	styles  report.Styles
	watcher *fsnotify.Watcher

	log       *timer.Log
	loadErr   error
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// New creates a report browser over the given store.
func New(st *store.Store, styles report.Styles, watcher *fsnotify.Watcher) Model {
	m := Model{st: st, styles: styles, watcher: watcher}
	m.reload()
	return m
}

// reload re-reads the data file. A missing file shows as an empty log.
func (m *Model) reload() {
	l, err := m.st.Load()
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			l, err = timer.NewLog(nil), nil
		} else {
			m.loadErr = err
			return
		}
	}
	m.log = l
	m.loadErr = nil
}

// ── Bubble Tea interface ──

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "r":
			m.reload()
			m.refreshViewports()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil

	case fileChangedMsg:
		m.reload()
		if m.ready {
			m.refreshViewports()
		}
		return m, m.waitForChange()
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  tt  " + m.st.Path())

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-4 jump  r reload  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ──

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) refreshViewports() {
	for i := tabID(0); i < tabCount; i++ {
		m.viewports[i].SetContent(m.renderTab(i))
	}
}

// ── Tab renderers ──

func (m *Model) renderTab(t tabID) string {
	if m.loadErr != nil {
		return "\n  " + m.loadErr.Error()
	}

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(m.renderActiveLine(now))
	sb.WriteString("\n")

	if t == tabCalendar {
		sb.WriteString(report.Calendar(m.log.Timers, now.Year(), now.Month(), now, m.styles))
		return sb.String()
	}

	buckets := report.Build(m.log.Timers, now)
	var filtered []report.Bucket
	for _, b := range buckets {
		if strings.HasPrefix(b.Label, bucketPrefix[t]) {
			filtered = append(filtered, b)
		}
	}
	if len(filtered) == 0 {
		sb.WriteString(dimStyle.Render("  No timers to report"))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(report.Render(filtered, m.styles))
	return sb.String()
}

func (m *Model) renderActiveLine(now time.Time) string {
	if t := m.log.ActiveTimer(); t != nil {
		return activeTimerStyle.Render(
			fmt.Sprintf("  ▶ %s %s", t.Name, timer.FormatDuration(t.Duration(now)))) +
			dimStyle.Render("  started "+humanize.Time(t.Start)) + "\n"
	}
	return dimStyle.Render("  No active timer") + "\n"
}

// ── File watching ──

// waitForChange blocks until the data file is written, created, or renamed,
// then delivers a fileChangedMsg. Saves go through a temp file and rename,
// so the watch is on the directory, filtered to the data file path.
func (m Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	path := m.st.Path()
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if ev.Name != path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					return fileChangedMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// Run opens the report browser in the alternate screen and blocks until the
// user quits. File watching is best-effort: if the watcher cannot be set up
// the browser still works, minus live reload.
func Run(st *store.Store, styles report.Styles) error {
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watcher.Add(filepath.Dir(st.Path())); err != nil {
			watcher.Close()
			watcher = nil
		}
	} else {
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
	}

	p := tea.NewProgram(New(st, styles, watcher), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
