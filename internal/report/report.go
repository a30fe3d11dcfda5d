package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
)

// FileStatus is the per-file processing status used in reports.
type FileStatus string

const (
	StatusFormatted   FileStatus = "formatted"
	StatusUnchanged   FileStatus = "unchanged"
	StatusParseError  FileStatus = "failed_parse"
	StatusVerifyError FileStatus = "failed_verify"
)

// DiagnosticItem is the report-friendly representation of one error/diagnostic.
type DiagnosticItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// FileItem describes formatting and verification for one file.
type FileItem struct {
	File             string           `json:"file"`
	Status           FileStatus       `json:"status"`
	Regions          int              `json:"regions"`
	Diagnostics      []DiagnosticItem `json:"diagnostics,omitempty"`
	FeaturesDetected []string         `json:"features_detected,omitempty"`
	Verified         bool             `json:"verified"`
	OutputPath       string           `json:"output_path,omitempty"`
}

// Summary contains aggregate counters for a run.
type Summary struct {
	Discovered   int      `json:"discovered"`
	Formatted    int      `json:"formatted"`
	Unchanged    int      `json:"unchanged"`
	ParseFailed  int      `json:"parse_failed"`
	VerifyFailed int      `json:"verify_failed"`
	Features     []string `json:"features,omitempty"`
}

// JSONReport is the structured report persisted by --report-json.
type JSONReport struct {
	GeneratedAt string     `json:"generated_at"`
	Summary     Summary    `json:"summary"`
	Files       []FileItem `json:"files"`
}

// NewJSONReport builds a report payload with RFC3339 generation timestamp.
func NewJSONReport(summary Summary, files []FileItem) JSONReport {
	return JSONReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:     summary,
		Files:       files,
	}
}

// ToDiagnosticItem converts an error to a typed report diagnostic.
func ToDiagnosticItem(file string, err error) DiagnosticItem {
	if d, ok := diagnostics.As(err); ok {
		return DiagnosticItem{
			Code:    d.Code,
			Message: d.Message,
			File:    d.File,
			Line:    d.Start.Line,
			Column:  d.Start.Column,
		}
	}
	return DiagnosticItem{
		Code:    "ERROR",
		Message: err.Error(),
		File:    file,
	}
}

// WriteJSON writes the full JSON report if path is non-empty.
func WriteJSON(path string, report JSONReport) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	return os.WriteFile(path, raw, 0o644)
}

func intToString(v int) string {
	return strconv.Itoa(v)
}

func boolToString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// WriteCSV writes the flattened CSV report if path is non-empty.
func WriteCSV(path string, files []FileItem) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	defer w.Flush()

	header := []string{
		"file",
		"status",
		"regions",
		"diagnostics_count",
		"features_count",
		"verified",
		"output_path",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	copied := append([]FileItem(nil), files...)
	sort.Slice(copied, func(i, j int) bool { return copied[i].File < copied[j].File })

	for _, item := range copied {
		row := []string{
			item.File,
			string(item.Status),
			intToString(item.Regions),
			intToString(len(item.Diagnostics)),
			intToString(len(item.FeaturesDetected)),
			boolToString(item.Verified),
			item.OutputPath,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
