// Package importlog keeps a CSV audit trail of statement imports.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/saldoboek/saldoboek/internal/importer"
)

// Entry is one imported file.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	User       string
	File       string
	Format     string
	Status     string
	Inserted   int
	Duplicates int
	Dropped    int
	Detail     string
}

// Header is the CSV header for the import log.
const Header = "timestamp,run_id,user,file,format,status,inserted,duplicates,dropped,detail"

const (
	numFields     = 10
	colTimestamp  = 0
	colRunID      = 1
	colUser       = 2
	colFile       = 3
	colFormat     = 4
	colStatus     = 5
	colInserted   = 6
	colDuplicates = 7
	colDropped    = 8
	colDetail     = 9
)

// FromResult turns an import result into one entry per file.
func FromResult(res *importer.Result, user string, at time.Time) []Entry {
	entries := make([]Entry, 0, len(res.Files))
	for _, f := range res.Files {
		e := Entry{
			Timestamp:  at,
			RunID:      res.RunID,
			User:       user,
			File:       f.Path,
			Format:     f.Format,
			Status:     string(f.Status),
			Inserted:   f.Inserted,
			Duplicates: f.Duplicates,
			Dropped:    f.Dropped,
		}
		if f.Err != nil {
			e.Detail = f.Err.Error()
		}
		entries = append(entries, e)
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colUser] = e.User
	row[colFile] = e.File
	row[colFormat] = e.Format
	row[colStatus] = e.Status
	row[colInserted] = strconv.Itoa(e.Inserted)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colDropped] = strconv.Itoa(e.Dropped)
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 3)
	for i, col := range []int{colInserted, colDuplicates, colDropped} {
		if counts[i], err = strconv.Atoi(record[col]); err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		User:       record[colUser],
		File:       record[colFile],
		Format:     record[colFormat],
		Status:     record[colStatus],
		Inserted:   counts[0],
		Duplicates: counts[1],
		Dropped:    counts[2],
		Detail:     record[colDetail],
	}, nil
}

// Append writes entries to the log at path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
