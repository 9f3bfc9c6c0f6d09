package importlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saldoboek/saldoboek/internal/importer"
)

var testTime = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		RunID:      "3f1c2a9e-0d1b-4a63-9d55-7c5f0b1e2d34",
		User:       "anna",
		File:       "imports/sns_maart.csv",
		Format:     "sns",
		Status:     "imported",
		Inserted:   12,
		Duplicates: 3,
		Dropped:    1,
	}
}

func TestAppend_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "import-log.csv")
	require.NoError(t, Append(path, []Entry{testEntry()}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "anna", entries[0].User)
	assert.Equal(t, 12, entries[0].Inserted)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import-log.csv")
	require.NoError(t, Append(path, []Entry{testEntry()}))

	e2 := testEntry()
	e2.File = "imports/rabo.csv"
	e2.Format = "rabo"
	require.NoError(t, Append(path, []Entry{e2}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "sns", entries[0].Format)
	assert.Equal(t, "rabo", entries[1].Format)
}

func TestRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import-log.csv")
	original := testEntry()
	original.Detail = "missing columns: Bedrag, IBAN/BBAN"
	require.NoError(t, Append(path, []Entry{original}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "import-log.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import-log.csv")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 10 fields")
}

func TestUnmarshalEntry_BadCount(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colDuplicates] = "many"
	_, err := UnmarshalEntry(row)
	assert.ErrorContains(t, err, "many")
}

func TestFromResult(t *testing.T) {
	res := &importer.Result{
		RunID: "run-1",
		Files: []importer.FileResult{
			{Path: "sns.csv", Format: "sns", Status: importer.FileImported, Inserted: 2, Duplicates: 1},
			{Path: "ing.csv", Status: importer.FileUnknownFormat, Err: errors.New("unknown bank format in file name: ing.csv")},
		},
	}

	entries := FromResult(res, "anna", testTime)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "imported", entries[0].Status)
	assert.Equal(t, 2, entries[0].Inserted)
	assert.Empty(t, entries[0].Detail)
	assert.Equal(t, "unknown_format", entries[1].Status)
	assert.Contains(t, entries[1].Detail, "ing.csv")
}
