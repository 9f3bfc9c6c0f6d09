package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding decodes raw statement bytes to UTF-8 text.
type Encoding struct {
	Name   string
	decode func([]byte) (string, error)
}

var (
	// UTF8 rejects invalid byte sequences so the next encoding gets a turn.
	UTF8 = Encoding{Name: "utf-8", decode: decodeUTF8}
	// Latin1 is ISO-8859-1.
	Latin1 = Encoding{Name: "latin1", decode: charmapDecoder(charmap.ISO8859_1)}
	// Windows1252 is the Windows western European code page.
	Windows1252 = Encoding{Name: "windows-1252", decode: charmapDecoder(charmap.Windows1252)}
)

var errInvalidUTF8 = errors.New("invalid utf-8 byte sequence")

func decodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}

func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(b []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// decodedFile is the outcome of reading a statement with one encoding.
type decodedFile struct {
	Records  [][]string
	Encoding string
}

// readRecords reads path and returns its CSV records using the first encoding
// in order under which both decoding and CSV parsing succeed.
func readRecords(path string, encodings []Encoding, comma rune) (*decodedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	tried := make([]string, 0, len(encodings))
	var lastErr error
	for _, enc := range encodings {
		tried = append(tried, enc.Name)

		text, err := enc.decode(raw)
		if err != nil {
			lastErr = err
			continue
		}

		records, err := parseCSV(stripBOM(text), comma)
		if err != nil {
			lastErr = err
			continue
		}
		return &decodedFile{Records: records, Encoding: enc.Name}, nil
	}
	return nil, &ReadFailure{Path: path, Tried: tried, Err: lastErr}
}

// stripBOM removes a UTF-8 byte order mark, including one decoded as Latin-1.
func stripBOM(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimPrefix(s, "\u00ef\u00bb\u00bf")
}

func parseCSV(text string, comma rune) ([][]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return records, nil
}

// field returns rec[i] trimmed, or "" when the row is too short.
func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
