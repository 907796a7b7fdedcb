// Package runlog appends one CSV row per detection run, so a data
// directory carries its own audit trail of what was ingested and emitted.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Source     string // import file names, comma-joined
	Parsed     int    // raw transactions parsed
	Skipped    int    // malformed records skipped
	Candidates int    // candidates emitted by the engine
	Surfaced   int    // candidates above the confidence threshold
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,source,parsed,skipped,candidates,surfaced"

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "logs/run-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colSource     = 2
	colParsed     = 3
	colSkipped    = 4
	colCandidates = 5
	colSurfaced   = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colCandidates] = strconv.Itoa(e.Candidates)
	row[colSurfaced] = strconv.Itoa(e.Surfaced)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(row []string) (Entry, error) {
	if len(row) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	ts, err := time.Parse(time.RFC3339, row[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", row[colTimestamp], err)
	}

	counts := make([]int, 4)
	for i, col := range []int{colParsed, colSkipped, colCandidates, colSurfaced} {
		n, err := strconv.Atoi(row[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", row[col], err)
		}
		counts[i] = n
	}

	return Entry{
		Timestamp:  ts,
		RunID:      row[colRunID],
		Source:     row[colSource],
		Parsed:     counts[0],
		Skipped:    counts[1],
		Candidates: counts[2],
		Surfaced:   counts[3],
	}, nil
}

// Append writes entries to <repoRoot>/logs/run-log.csv, creating the file
// and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	if needsHeader {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	defer cw.Flush()
	for _, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing run log entry: %w", err)
		}
	}
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/run-log.csv, or nil if the
// log does not exist yet.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, row := range rows[1:] {
		if strings.Join(row, "") == "" {
			continue
		}
		e, err := UnmarshalEntry(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
