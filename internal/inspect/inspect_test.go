package inspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/regularfmt/internal/parser"
)

func TestRanges(t *testing.T) {
	code := "<div\n  class=\"a\"\n  id=\"b\">\n{#if x}\n  {y}\n{/if}\n<!-- c\n-->\n</div>"
	prog, err := parser.Parse(code, "t.rgl", 1)
	require.NoError(t, err)

	assert.Equal(t, []Range{{1, 9}, {2, 3}, {4, 6}, {7, 8}}, Ranges(prog))
}

func TestRangesSkipSingleLines(t *testing.T) {
	prog, err := parser.Parse("<p>{a}</p>{#if b}c{/if}", "t.rgl", 1)
	require.NoError(t, err)
	assert.Empty(t, Ranges(prog))
}

func TestScanRangesSuppressesBrokenTemplates(t *testing.T) {
	src := "const v = `<!-- @regular -->\n{#if a}\n  <b></b>\n{/if}`;\n" +
		"const w = `<!-- @regular --><a>`;\n" +
		"const plain = `\n<div>\n</div>`;\n"
	ranges, err := ScanRanges(context.Background(), "view.js", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []Range{{2, 4}}, ranges)
}

func TestFeatures(t *testing.T) {
	code := `{#list items as item by item.id}<li class={active ? "on" : ""}>{item.name | upper}</li>{#else}<!-- none -->{/list}` +
		`{#if a}{@(b)}{#elseif c}x{/if}`
	prog, err := parser.Parse(code, "t.rgl", 1)
	require.NoError(t, err)

	want := []string{
		"command:else",
		"command:elseif",
		"command:if",
		"command:list",
		"command:list-by",
		"expr:once",
		"expr:ternary",
		"filter:upper",
		"node:comment",
		"node:interpolation",
		"node:tag",
		"node:text",
	}
	assert.Equal(t, want, Features(prog))
}

func TestFeaturesOperators(t *testing.T) {
	prog, err := parser.Parse("{-a + b[c] * f(d)}", "t.rgl", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"expr:call", "expr:index", "node:interpolation", "op:*", "op:+", "op:unary-"}, Features(prog))
}

func TestScanFeatures(t *testing.T) {
	src := "const a = `<!-- @regular -->{x | json}`;\nconst b = `<!-- @regular -->{#list xs as x}{/list}`;\nconst c = `{y | skipped}`;\n"
	got, err := ScanFeatures(context.Background(), "v.js", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"command:list", "filter:json", "node:comment", "node:interpolation"}, got)
}
