// Package history turns the tail of the tracker's data file into shell
// completion candidates. A TIMER line splits on whitespace into five
// metadata fields (record tag, start date, start time, end date, end time)
// followed by the free-form task name; the scraper drops the metadata and
// offers the recent task names back to the shell.
package history

import (
	"bufio"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultWindow is how many lines of the file tail are scanned when no
// window is configured.
const DefaultWindow = 25

// metaFields is the number of leading whitespace-separated fields on a TIMER
// line that precede the task name.
const metaFields = 5

// Scraper extracts task-name completion candidates from the data file.
type Scraper struct {
	// Path is the data file to scan.
	Path string
	// Window bounds how many trailing lines are considered. Values below 1
	// fall back to DefaultWindow; windows larger than the file are clamped
	// to the lines available.
	Window int
}

// Candidates returns the task names found in the last Window lines of the
// file, in file order (oldest to newest), with immediately-adjacent
// duplicates collapsed. Lines without a task-name suffix (VERSION, MAP)
// contribute nothing. A missing or unreadable file yields an empty list,
// never an error: completion must degrade silently.
func (s *Scraper) Candidates() []string {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil
	}
	defer f.Close()

	window := s.Window
	if window < 1 {
		window = DefaultWindow
	}

	// Keep only the trailing window while scanning so an arbitrarily large
	// file stays cheap.
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > window {
			lines = lines[1:]
		}
	}
	if scanner.Err() != nil {
		return nil
	}

	var out []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) <= metaFields {
			continue
		}
		name := strings.Join(fields[metaFields:], " ")
		if len(out) > 0 && out[len(out)-1] == name {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Rank filters candidates against the partial word being completed, best
// fuzzy matches first. An empty partial returns the candidates unchanged.
func Rank(candidates []string, partial string) []string {
	if partial == "" {
		return candidates
	}
	matches := fuzzy.Find(partial, candidates)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = candidates[m.Index]
	}
	return out
}
