package diagnostics

import (
	"errors"
	"fmt"
)

const (
	CodeUnexpectedChar       = "LEX_UNEXPECTED_CHAR"
	CodeBadEscape            = "LEX_BAD_ESCAPE"
	CodeBadNumber            = "LEX_BAD_NUMBER"
	CodeUnterminatedString   = "LEX_UNTERMINATED_STRING"
	CodeUnexpectedToken      = "PARSE_UNEXPECTED_TOKEN"
	CodeUnexpectedEOS        = "PARSE_UNEXPECTED_EOS"
	CodeImbalancedTag        = "PARSE_IMBALANCED_TAG"
	CodeUnclosed             = "PARSE_UNCLOSED"
	CodeForbiddenInterpolate = "PARSE_FORBIDDEN_INTERPOLATION"
	CodeAdjacentAttrs        = "PARSE_ADJACENT_ATTRS"
	CodePosUnderflow         = "SOURCE_POS_UNDERFLOW"
	CodeStructureChanged     = "VERIFY_STRUCTURE_CHANGED"
	CodeNotIdempotent        = "VERIFY_NOT_IDEMPOTENT"
)

// Point is a 1-based line and 0-based column inside a source.
type Point struct {
	Line   int
	Column int
}

// Diagnostic is a structured lexer or parser error with source metadata.
type Diagnostic struct {
	Code    string
	Message string
	File    string
	Start   Point
	End     Point
}

// Error implements the error interface with location and error code formatting.
func (d Diagnostic) Error() string {
	location := d.File
	if d.Start.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", d.File, d.Start.Line, d.Start.Column)
	}
	if d.Code == "" {
		return fmt.Sprintf("%s: %s", location, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", location, d.Code, d.Message)
}

// Shift maps a diagnostic raised in an embedded region (parsed from line 1)
// into its host file. The region starts at host line 1+lines, and its first
// line starts at host column column.
func (d Diagnostic) Shift(lines int, column int) Diagnostic {
	d.Start = d.Start.shift(lines, column)
	d.End = d.End.shift(lines, column)
	return d
}

func (p Point) shift(lines int, column int) Point {
	if p.Line <= 0 {
		return p
	}
	if p.Line == 1 {
		p.Column += column
	}
	p.Line += lines
	return p
}

// New constructs a Diagnostic value located at a single point.
func New(code string, file string, line int, column int, msg string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: msg,
		File:    file,
		Start:   Point{Line: line, Column: column},
		End:     Point{Line: line, Column: column},
	}
}

// As extracts a Diagnostic from an error chain.
func As(err error) (Diagnostic, bool) {
	var d Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return Diagnostic{}, false
}

// IsIncomplete reports whether err was caused by input ending too early.
func IsIncomplete(err error) bool {
	d, ok := As(err)
	if !ok {
		return false
	}
	switch d.Code {
	case CodeUnexpectedEOS, CodeUnterminatedString, CodeUnclosed:
		return true
	}
	return false
}
