package store

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkarlsen/tt/internal/timer"
)

// Archive moves finished timers that ended before cutoff into a new sibling
// archive file and saves the trimmed log. Archived timers no longer appear
// in reports or name resolution. The running timer, if any, is never
// archived. Returns the archive path and the number of timers moved; a zero
// count means nothing was written.
func (s *Store) Archive(l *timer.Log, cutoff time.Time) (string, int, error) {
	var old, keep []timer.Timer
	for _, t := range l.Timers {
		if !t.Active() && t.End.Before(cutoff) {
			old = append(old, t)
		} else {
			keep = append(keep, t)
		}
	}
	if len(old) == 0 {
		return "", 0, nil
	}

	archivePath := fmt.Sprintf("%s.archive-%s", s.path, uuid.New().String())
	archived := timer.NewLog(s.logger)
	archived.Timers = old
	if err := os.WriteFile(archivePath, encode(archived), 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write archive: %w", err)
	}

	l.Timers = keep
	l.MarkDirty()
	if err := s.Save(l); err != nil {
		return "", 0, err
	}

	s.logger.Debug("archived timers",
		zap.String("archive", archivePath),
		zap.Int("count", len(old)),
		zap.Time("cutoff", cutoff))
	return archivePath, len(old), nil
}
