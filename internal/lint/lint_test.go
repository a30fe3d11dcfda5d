package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/format"
	"github.com/cruffinoni/regularfmt/internal/host"
)

const messy = "const a = `<!-- @regular --><p>{ name }</p>`;\n" +
	"const b = `<!-- @regularjs --><a>`;\n" +
	"const c = `\n  <!-- @regular -->\n  <br />`;\n"

func TestCheck(t *testing.T) {
	findings, err := Check(context.Background(), "view.js", []byte(messy), format.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, findings, 2)

	style := findings[0]
	assert.True(t, style.Fixable)
	assert.Equal(t, MessageStyle, style.Message)
	assert.Equal(t, 1, style.Line)
	assert.Equal(t, "\n  <!-- @regular -->\n  <p>\n    {name}\n  </p>", style.Replacement)

	broken := findings[1]
	assert.False(t, broken.Fixable)
	assert.Equal(t, diagnostics.CodeUnclosed, broken.Code)
	assert.Equal(t, 2, broken.Line)
	assert.Equal(t, 31, broken.Column)
	assert.Equal(t, "view.js", broken.File)
}

func TestApplyMatchesHostFormat(t *testing.T) {
	src := []byte("const a = `<!-- @regular --><p>{ name }</p>`;\nconst c = `<!-- @regular --><i>x</i>`;\n")
	findings, err := Check(context.Background(), "view.js", src, format.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, findings, 2)

	res, err := host.Format(context.Background(), "view.js", src, format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, res.Content, Apply(src, findings))

	again, err := Check(context.Background(), "view.js", []byte(res.Content), format.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestApplySkipsOverlaps(t *testing.T) {
	src := []byte("abcdef")
	got := Apply(src, []Finding{
		{Start: 3, End: 5, Replacement: "X", Fixable: true},
		{Start: 1, End: 4, Replacement: "Y", Fixable: true},
		{Start: 0, End: 1, Replacement: "Z"},
	})
	assert.Equal(t, "aYef", got)
}

func TestCheckTemplate(t *testing.T) {
	assert.Empty(t, CheckTemplate("t.rgl", "<p>hi</p>\n", format.DefaultOptions()))

	findings := CheckTemplate("t.rgl", "<p>{ a }</p>\n", format.DefaultOptions())
	require.Len(t, findings, 1)
	assert.Equal(t, "<p>\n  {a}\n</p>\n", Apply([]byte("<p>{ a }</p>\n"), findings))

	findings = CheckTemplate("t.rgl", "{#if a}", format.DefaultOptions())
	require.Len(t, findings, 1)
	assert.False(t, findings[0].Fixable)
	assert.Equal(t, diagnostics.CodeUnclosed, findings[0].Code)
}
