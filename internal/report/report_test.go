package report

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
)

func TestWriteJSONAndCSV(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "audit", "report.json")
	csvPath := filepath.Join(dir, "audit", "report.csv")

	files := []FileItem{
		{
			File:             "b.js",
			Status:           StatusParseError,
			Diagnostics:      []DiagnosticItem{{Code: "ERR", Message: "boom"}},
			FeaturesDetected: nil,
		},
		{
			File:             "a.js",
			Status:           StatusFormatted,
			Regions:          2,
			FeaturesDetected: []string{"command:if"},
			Verified:         true,
		},
	}
	summary := Summary{
		Discovered:  2,
		Formatted:   1,
		ParseFailed: 1,
	}

	rep := NewJSONReport(summary, files)
	require.NoError(t, WriteJSON(jsonPath, rep))
	require.NoError(t, WriteCSV(csvPath, files))

	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded JSONReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, 2, decoded.Summary.Discovered)
	require.Len(t, decoded.Files, 2)
	require.Equal(t, StatusParseError, decoded.Files[0].Status)

	fh, err := os.Open(csvPath)
	require.NoError(t, err)
	defer fh.Close()
	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"a.js", "formatted", "2", "0", "1", "true", ""}, rows[1])
}

func TestWriteSkipsEmptyPath(t *testing.T) {
	require.NoError(t, WriteJSON("", JSONReport{}))
	require.NoError(t, WriteCSV("", nil))
}

func TestToDiagnosticItem(t *testing.T) {
	d := diagnostics.New(diagnostics.CodeUnclosed, "v.js", 4, 2, "tag <a> is never closed")
	item := ToDiagnosticItem("other.js", d)
	require.Equal(t, DiagnosticItem{Code: diagnostics.CodeUnclosed, Message: "tag <a> is never closed", File: "v.js", Line: 4, Column: 2}, item)

	item = ToDiagnosticItem("v.js", errors.New("disk full"))
	require.Equal(t, "ERROR", item.Code)
	require.Equal(t, "v.js", item.File)
}
