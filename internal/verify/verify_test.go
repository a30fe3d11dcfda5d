package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/format"
	"github.com/cruffinoni/regularfmt/internal/host"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	d, ok := diagnostics.As(err)
	require.True(t, ok, "expected a diagnostic, got %v", err)
	require.Equal(t, code, d.Code)
}

func TestTemplateAcceptsFormatterOutput(t *testing.T) {
	in := "<div class='a'>{#if x}<p>  hi  </p>{#else}{y | f: 1}{/if}</div>"
	out, err := format.Format(in, "t.rgl", 1, format.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, Template("t.rgl", in, out, format.DefaultOptions()))
}

func TestTemplateRejectsChangedStructure(t *testing.T) {
	err := Template("t.rgl", "<p>{a}</p>", "<p>{b}</p>", format.DefaultOptions())
	requireCode(t, err, diagnostics.CodeStructureChanged)

	err = Template("t.rgl", "<p>{a}</p>", "<p>{a}", format.DefaultOptions())
	requireCode(t, err, diagnostics.CodeStructureChanged)
}

func TestTemplateRejectsUnstableOutput(t *testing.T) {
	err := Template("t.rgl", "<p>{a}</p>", "<p>\n{a}\n</p>", format.DefaultOptions())
	requireCode(t, err, diagnostics.CodeNotIdempotent)
}

func TestHost(t *testing.T) {
	src := []byte("const v = `<!-- @regular --><ul>{#list xs as x}<li>{x}</li>{/list}</ul>`;\n")
	res, err := host.Format(context.Background(), "v.js", src, format.DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.NoError(t, Host(context.Background(), "v.js", src, []byte(res.Content), format.DefaultOptions()))

	dropped := []byte("const v = ``;\n")
	requireCode(t, Host(context.Background(), "v.js", src, dropped, format.DefaultOptions()), diagnostics.CodeStructureChanged)

	requireCode(t, Host(context.Background(), "v.js", src, src, format.DefaultOptions()), diagnostics.CodeNotIdempotent)
}
