// Package store persists the timer log in the tracker's tab-separated data
// file format. The format is versioned so files written by older releases
// keep loading:
//
//	VERSION\t1                      must be the first line
//	MAP\t<from>\t<to>
//	TIMER\t<start>\t<end>\t<name>   version 1 field order
//	TIMER\t<name>\t<start>\t<end>   version 0 field order, load only
//
// A literal "None" in a time field means the timer is still running.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mkarlsen/tt/internal/timer"
)

// Version is the current data file format version.
const Version = 1

// ErrNoData is returned by Load when the data file does not exist.
var ErrNoData = errors.New("no data file")

// Store reads and writes a timer log at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

// New returns a Store for the data file at path. A nil logger is replaced
// with a no-op logger.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the data file path the store operates on.
func (s *Store) Path() string {
	return s.path
}

// DefaultPath returns the default data file location, ~/.timetracker.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".timetracker"), nil
}

// Load reads and parses the data file. Returns ErrNoData if the file does
// not exist. Loading a file written in an older format version marks the log
// dirty so the next save rewrites it in the current format.
func (s *Store) Load() (*timer.Log, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	defer f.Close()

	l := timer.NewLog(s.logger)
	loadVersion := 0
	lineNo := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		field := strings.Split(line, "\t")
		switch field[0] {
		case "VERSION":
			if len(field) < 2 {
				return nil, parseError(s.path, lineNo, "VERSION record missing value")
			}
			v, err := strconv.Atoi(field[1])
			if err != nil {
				return nil, parseError(s.path, lineNo, "bad VERSION value %q", field[1])
			}
			loadVersion = v
		case "MAP":
			if len(field) < 3 {
				return nil, parseError(s.path, lineNo, "MAP record needs 2 fields")
			}
			l.NameMap[field[1]] = field[2]
		case "TIMER":
			if len(field) < 4 {
				return nil, parseError(s.path, lineNo, "TIMER record needs 3 fields")
			}
			t, err := parseTimer(field, loadVersion)
			if err != nil {
				return nil, parseError(s.path, lineNo, "%v", err)
			}
			l.Timers = append(l.Timers, t)
		default:
			return nil, parseError(s.path, lineNo, "unknown record type %q", field[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	s.logger.Debug("loaded data file",
		zap.String("path", s.path),
		zap.Int("maps", len(l.NameMap)),
		zap.Int("timers", len(l.Timers)),
		zap.Int("version", loadVersion))

	if loadVersion != Version {
		l.MarkDirty()
	}
	return l, nil
}

// parseTimer decodes a TIMER record. Version 0 files carried the name first,
// version 1 carries it last so names may contain anything but a tab.
func parseTimer(field []string, version int) (timer.Timer, error) {
	var name, startStr, endStr string
	if version > 0 {
		startStr, endStr, name = field[1], field[2], field[3]
	} else {
		name, startStr, endStr = field[1], field[2], field[3]
	}
	start, err := parseTime(startStr)
	if err != nil {
		return timer.Timer{}, err
	}
	if start == nil {
		return timer.Timer{}, fmt.Errorf("timer %q has no start time", name)
	}
	end, err := parseTime(endStr)
	if err != nil {
		return timer.Timer{}, err
	}
	return timer.Timer{Name: name, Start: *start, End: end}, nil
}

// parseTime decodes a time field, where the literal "None" means unset.
func parseTime(s string) (*time.Time, error) {
	if s == "None" {
		return nil, nil
	}
	t, err := time.ParseInLocation(timer.TimeLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("bad time %q: %w", s, err)
	}
	return &t, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "None"
	}
	return t.Format(timer.TimeLayout)
}

func parseError(path string, line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", path, line, fmt.Sprintf(format, args...))
}

// Save backs up the existing file and then writes the log atomically via a
// temp file and rename.
func (s *Store) Save(l *timer.Log) error {
	if err := s.backup(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".timetracker-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist data file: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(encode(l)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist data file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist data file: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to persist data file: %w", err)
	}

	s.logger.Debug("saved data file",
		zap.String("path", s.path),
		zap.Int("maps", len(l.NameMap)),
		zap.Int("timers", len(l.Timers)))
	return nil
}

// encode renders the log in the current format. VERSION must come first
// because loading depends on it.
func encode(l *timer.Log) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "VERSION\t%d\n", Version)
	for from, to := range l.NameMap {
		fmt.Fprintf(&sb, "MAP\t%s\t%s\n", from, to)
	}
	for _, t := range l.Timers {
		start := t.Start
		fmt.Fprintf(&sb, "TIMER\t%s\t%s\t%s\n", formatTime(&start), formatTime(t.End), t.Name)
	}
	return []byte(sb.String())
}

// backup copies the current data file to <path>.bak before a save. If the
// existing backup is larger than the file about to be replaced, something
// likely went wrong earlier and the backup is kept.
func (s *Store) backup() error {
	cur, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // first save, nothing to back up
		}
		return fmt.Errorf("failed to back up data file: %w", err)
	}

	backupName := s.path + ".bak"
	if old, err := os.Stat(backupName); err == nil && old.Size() > cur.Size() {
		s.logger.Warn("skipping backup: existing backup is larger than the data file",
			zap.String("backup", backupName),
			zap.Int64("backup_size", old.Size()),
			zap.Int64("file_size", cur.Size()))
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to back up data file: %w", err)
	}
	if err := os.WriteFile(backupName, data, 0o644); err != nil {
		return fmt.Errorf("failed to back up data file: %w", err)
	}
	s.logger.Debug("backed up data file", zap.String("backup", backupName))
	return nil
}
