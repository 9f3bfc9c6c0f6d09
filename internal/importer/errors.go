package importer

import (
	"fmt"
	"strings"
)

// ReadFailure is returned when no encoding in a dialect's preference order
// could decode and parse the file.
type ReadFailure struct {
	Path  string
	Tried []string
	Err   error // last decode or CSV error
}

func (e *ReadFailure) Error() string {
	return fmt.Sprintf("reading %s: no encoding succeeded (tried %s): %v", e.Path, strings.Join(e.Tried, ", "), e.Err)
}

func (e *ReadFailure) Unwrap() error { return e.Err }

// SchemaMismatch is returned when required columns are absent.
type SchemaMismatch struct {
	Path    string
	Missing []string
}

func (e *SchemaMismatch) Error() string {
	return fmt.Sprintf("%s: missing columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// UnknownFormat is returned when no registered bank token matches a file name.
type UnknownFormat struct {
	FileName string
}

func (e *UnknownFormat) Error() string {
	return fmt.Sprintf("unknown bank format in file name: %s", e.FileName)
}
