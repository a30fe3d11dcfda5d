package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/regularfmt/internal/ast"
	"github.com/cruffinoni/regularfmt/internal/diagnostics"
)

func mustParse(t *testing.T, code string) *ast.Program {
	t.Helper()
	prog, err := Parse(code, "test.rgl", 1)
	require.NoError(t, err)
	return prog
}

func requireCode(t *testing.T, err error, code string) diagnostics.Diagnostic {
	t.Helper()
	require.Error(t, err)
	d, ok := diagnostics.As(err)
	require.True(t, ok, "expected a diagnostic, got %v", err)
	require.Equal(t, code, d.Code, d.Error())
	return d
}

func TestParseExpressions(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"multiplicative binds tighter":  {in: "{a + b * c}", want: "(+ a (* b c))"},
		"and binds tighter than or":     {in: "{a || b && c}", want: "(|| a (&& b c))"},
		"left associative":              {in: "{a - b - c}", want: "(- (- a b) c)"},
		"tighter left operand":          {in: "{a * b + c}", want: "(+ (* a b) c)"},
		"comparison over equality":      {in: "{a == b < c}", want: "(== a (< b c))"},
		"unary binds to atom":           {in: "{-a + b}", want: "(+ (unary- a) b)"},
		"not with member chain":         {in: "{!a.b()}", want: "(unary! (call (. a b)))"},
		"ternary nests right":           {in: "{a ? b : c ? d : e}", want: "(? a b (? c d e))"},
		"ternary over binary":           {in: "{a > 1 ? 'x' : y}", want: `(? (> a 1) "x" y)`},
		"pipes chain":                   {in: "{a | f: x, y | g}", want: "(pipe (pipe a f x y) g)"},
		"pipe without args":             {in: "{items | json}", want: "(pipe items json)"},
		"once marker":                   {in: "{@(a.b)}", want: "(once (. a b))"},
		"call with literals":            {in: "{f(a, [1, 2], {k: 'v'})}", want: `(call f a (array 1 2) (object (prop k "v")))`},
		"postfix chain":                 {in: "{a[b].c(d)}", want: "(call (. ([] a b) c) d)"},
		"paren is a sequence":           {in: "{(a, b)}", want: "(paren a b)"},
		"single paren keeps one item":   {in: "{(a + b) * c}", want: "(* (paren (+ a b)) c)"},
		"keyword as property":           {in: "{item.list}", want: "(. item list)"},
		"duplicate keys kept":           {in: "{{a: 1, 'a': 2}}", want: `(object (prop a 1) (prop "a" 2))`},
		"trailing comma":                {in: "{[1, 2,]}", want: "(array 1 2)"},
		"literals":                      {in: "{[true, null, undefined, 0x1F, 1.5e3]}", want: "(array true null undefined 0x1F 1.5e3)"},
		"empty object and empty call":   {in: "{f({})}", want: "(call f (object))"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			prog := mustParse(t, tc.in)
			require.Len(t, prog.Body, 1)
			stmt, ok := prog.Body[0].(*ast.ExprStmt)
			require.True(t, ok)
			assert.Equal(t, tc.want, ast.SexprExpr(stmt.Expr))
		})
	}
}

func TestParseStatements(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"if elseif else": {
			in:   "{#if a}x{#elseif b}y{#else}z{/if}",
			want: `(program (if a (then (text "x")) (else (elseif b (then (text "y")) (else (text "z"))))))`,
		},
		"list with tracker and else": {
			in:   "{#list xs as x by x.id}<li>{x}</li>{#else}none{/list}",
			want: `(program (list xs x (. x id) (body (tag li (expr x))) (else (text "none"))))`,
		},
		"attributes": {
			in:   `<div class="a" hidden on-click={go(1)}>hi</div>`,
			want: `(program (tag div (attr class "a") (attr hidden) (attr on-click (call go 1)) (text "hi")))`,
		},
		"self closing": {
			in:   "<br/><img src='x' />",
			want: `(program (tag/ br) (tag/ img (attr src "x")))`,
		},
		"nested tags": {
			in:   "<a><b></b></a>",
			want: "(program (tag a (tag b)))",
		},
		"comment": {
			in:   "<!--  note -- here -->",
			want: `(program (comment "note -- here"))`,
		},
		"escaped brace stays text": {
			in:   `a \{b} c`,
			want: `(program (text "a \{b} c"))`,
		},
		"blank text is insignificant": {
			in:   "\n  <p>\n    {x}\n  </p>\n",
			want: "(program (tag p (expr x)))",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ast.Sexpr(mustParse(t, tc.in)))
		})
	}
}

func TestParseIfChainShape(t *testing.T) {
	prog := mustParse(t, "{#if a}1{#elseif b}2{/if}")
	require.Len(t, prog.Body, 1)
	outer := prog.Body[0].(*ast.IfStmt)
	require.False(t, outer.ElseIf)
	require.Len(t, outer.Alt, 1)
	inner, ok := outer.Alt[0].(*ast.IfStmt)
	require.True(t, ok)
	require.True(t, inner.ElseIf)
	require.Empty(t, inner.Alt)
	require.Equal(t, "elseif", inner.Keyword())
}

func TestParseLocations(t *testing.T) {
	prog := mustParse(t, "<a>{x}</a>\n{y}")
	tag := prog.Body[0].(*ast.TagStmt)
	assert.Equal(t, 0, tag.Loc().Start.Offset)
	assert.Equal(t, 10, tag.Loc().End.Offset)

	expr := prog.Body[2].(*ast.ExprStmt)
	assert.Equal(t, 2, expr.Loc().Start.Line)
	assert.Equal(t, 0, expr.Loc().Start.Column)
	assert.Equal(t, 3, expr.Loc().End.Column)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		in   string
		code string
	}{
		"unclosed tag":             {in: "<a>", code: diagnostics.CodeUnclosed},
		"unclosed if":              {in: "{#if a}x", code: diagnostics.CodeUnclosed},
		"unclosed list":            {in: "{#list xs as x}", code: diagnostics.CodeUnclosed},
		"unclosed comment":         {in: "<!-- x", code: diagnostics.CodeUnclosed},
		"stray close tag":          {in: "</a>", code: diagnostics.CodeUnexpectedToken},
		"stray else":               {in: "{#else}", code: diagnostics.CodeUnexpectedToken},
		"else inside tag":          {in: "{#if a}<b>{#else}</b>{/if}", code: diagnostics.CodeUnexpectedToken},
		"wrong command close":      {in: "{#if a}{/list}", code: diagnostics.CodeUnexpectedToken},
		"missing operand":          {in: "{a +}", code: diagnostics.CodeUnexpectedToken},
		"missing brace":            {in: "{a", code: diagnostics.CodeUnexpectedEOS},
		"unknown command":          {in: "{#each xs}", code: diagnostics.CodeUnexpectedToken},
		"list without as":          {in: "{#list xs x}{/list}", code: diagnostics.CodeUnexpectedToken},
		"adjacent attributes":      {in: `<a b="1"c="2"></a>`, code: diagnostics.CodeAdjacentAttrs},
		"bare attribute value":     {in: "<a b=c></a>", code: diagnostics.CodeUnexpectedToken},
		"unterminated string":      {in: `{"abc}`, code: diagnostics.CodeUnterminatedString},
		"interpolation in string":  {in: "{'a${b}'}", code: diagnostics.CodeForbiddenInterpolate},
		"interpolation in text":    {in: "abc ${x}", code: diagnostics.CodeForbiddenInterpolate},
		"interpolation after tag":  {in: "<p>${x}</p>", code: diagnostics.CodeForbiddenInterpolate},
		"escaped backslash":        {in: `<p>a \\${b}</p>`, code: diagnostics.CodeForbiddenInterpolate},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tc.in, "test.rgl", 1)
			requireCode(t, err, tc.code)
		})
	}
}

func TestImbalancedTagNamesBothTags(t *testing.T) {
	_, err := Parse("<a><b></a>", "test.rgl", 1)
	d := requireCode(t, err, diagnostics.CodeImbalancedTag)
	require.Contains(t, d.Message, "</a>")
	require.Contains(t, d.Message, "</b>")
	require.Equal(t, 1, d.Start.Line)
	require.Equal(t, 6, d.Start.Column)
}

func TestInterpolationColumn(t *testing.T) {
	_, err := Parse("abc ${x}", "test.rgl", 1)
	d := requireCode(t, err, diagnostics.CodeForbiddenInterpolate)
	require.Equal(t, 4, d.Start.Column)

	_, err = Parse("{'a${b}'}", "test.rgl", 1)
	d = requireCode(t, err, diagnostics.CodeForbiddenInterpolate)
	require.Equal(t, 3, d.Start.Column)
}

func TestEscapedDollarIsNotInterpolation(t *testing.T) {
	prog := mustParse(t, `cost: \${x}`)
	require.Equal(t, `(program (text "cost: \$") (expr x))`, ast.Sexpr(prog))

	prog = mustParse(t, `{'a$b{c}'}`)
	require.Equal(t, `(program (expr "a$b{c}"))`, ast.Sexpr(prog))

	_, err := Parse(`{'a\\${b}'}`, "test.rgl", 1)
	requireCode(t, err, diagnostics.CodeForbiddenInterpolate)
}

func TestControlCharacterIsText(t *testing.T) {
	prog := mustParse(t, "<p>\x03</p>")
	require.Len(t, prog.Body, 1)
	tag := prog.Body[0].(*ast.TagStmt)
	require.Len(t, tag.Body, 1)
	require.Equal(t, "\x03", tag.Body[0].(*ast.TextStmt).Value)
}

func TestErrorLinesFollowStartLine(t *testing.T) {
	_, err := Parse("\n\n<a>", "host.js", 10)
	d := requireCode(t, err, diagnostics.CodeUnclosed)
	require.Equal(t, 12, d.Start.Line)
	require.Equal(t, "host.js", d.File)
}

func TestParseExpr(t *testing.T) {
	expr, err := ParseExpr("a.b(c) | f", "expr")
	require.NoError(t, err)
	require.Equal(t, "(pipe (call (. a b) c) f)", ast.SexprExpr(expr))

	_, err = ParseExpr("a b", "expr")
	requireCode(t, err, diagnostics.CodeUnexpectedToken)
}
