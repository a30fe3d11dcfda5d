package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticError(t *testing.T) {
	d := New(CodeUnexpectedToken, "tpl.js", 3, 7, "unexpected token }")
	require.Equal(t, "tpl.js:3:7 [PARSE_UNEXPECTED_TOKEN]: unexpected token }", d.Error())

	d.Code = ""
	require.Equal(t, "tpl.js:3:7: unexpected token }", d.Error())
}

func TestShiftAndAs(t *testing.T) {
	base := New(CodeUnclosed, "a.js", 2, 3, "unclosed tag <div>")
	wrapped := fmt.Errorf("format a.js: %w", base.Shift(10, 14))

	d, ok := As(wrapped)
	require.True(t, ok)
	require.Equal(t, Point{Line: 12, Column: 3}, d.Start)
	require.Equal(t, Point{Line: 12, Column: 3}, d.End)
	require.True(t, IsIncomplete(wrapped))

	first := New(CodeForbiddenInterpolate, "a.js", 1, 4, "interpolation").Shift(10, 14)
	require.Equal(t, Point{Line: 11, Column: 18}, first.Start)

	unlocated := Diagnostic{Code: CodeUnclosed}.Shift(10, 14)
	require.Zero(t, unlocated.Start)

	_, ok = As(errors.New("plain"))
	require.False(t, ok)
	require.False(t, IsIncomplete(errors.New("plain")))
}
