// Package host finds templates embedded as template literals in JavaScript
// and TypeScript sources and rewrites the marked ones with formatted text.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/format"
)

var markerRe = regexp.MustCompile(`^\s*<!--\s*@regular(?:js)?\s*-->`)

// Marker describes the comment that opts a template literal into formatting.
type Marker struct {
	// Indent is the base indent for the formatted template.
	Indent int
	// Line is the host line the marker comment sits on.
	Line int
}

// Detect reports whether text starts with a marker comment. startLine is the
// host line of the first character of text.
func Detect(text string, startLine int) (Marker, bool) {
	if !markerRe.MatchString(text) {
		return Marker{}, false
	}
	lead := text[:strings.Index(text, "<!--")]
	m := Marker{Line: startLine + strings.Count(lead, "\n"), Indent: 2}
	if lead != "" {
		blanks := lead[strings.LastIndex(lead, "\n")+1:]
		m.Indent = len(blanks) &^ 1
	}
	return m, true
}

// Region is the content of one template literal, back-ticks excluded.
type Region struct {
	// Start and End are byte offsets into the host source.
	Start int
	End   int
	// Line and Column locate Start; Line is 1-based and Column 0-based.
	Line   int
	Column int
	Code   string

	Marker Marker
	Marked bool
}

// languageFor picks the grammar from the file extension.
func languageFor(file string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Scan parses src and returns every non-empty template literal in source
// order. Templates nested in substitutions of another template are not
// reported.
func Scan(ctx context.Context, file string, src []byte) ([]Region, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(languageFor(file))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse host source %q: %w", file, err)
	}
	defer tree.Close()

	var regions []Region
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "template_string" {
			start, end := int(n.StartByte())+1, int(n.EndByte())-1
			if start >= end {
				return
			}
			pt := n.StartPoint()
			r := Region{
				Start:  start,
				End:    end,
				Line:   int(pt.Row) + 1,
				Column: int(pt.Column) + 1,
				Code:   string(src[start:end]),
			}
			r.Marker, r.Marked = Detect(r.Code, r.Line)
			slog.Debug("template literal", "file", file, "line", r.Line, "marked", r.Marked)
			regions = append(regions, r)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return regions, nil
}

// FormatRegion formats a marked region and returns its replacement text.
// Errors are located in host coordinates.
func FormatRegion(file string, r Region, opts format.Options) (string, error) {
	opts.BaseIndent = r.Marker.Indent
	out, err := format.Format(r.Code, file, 1, opts)
	if err != nil {
		if d, ok := diagnostics.As(err); ok {
			return "", d.Shift(r.Line-1, r.Column)
		}
		return "", err
	}
	return "\n" + out, nil
}

// Result is the outcome of formatting one host file.
type Result struct {
	Content string
	Changed bool
	// Regions counts the marked templates that were formatted.
	Regions int
}

// Format rewrites every marked template in src. The first template that
// fails to parse aborts the rewrite.
func Format(ctx context.Context, file string, src []byte, opts format.Options) (Result, error) {
	regions, err := Scan(ctx, file, src)
	if err != nil {
		return Result{}, err
	}

	var b strings.Builder
	prev := 0
	res := Result{}
	for _, r := range regions {
		if !r.Marked {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		cooked, err := FormatRegion(file, r, opts)
		if err != nil {
			return Result{}, err
		}
		res.Regions++
		b.Write(src[prev:r.Start])
		b.WriteString(cooked)
		prev = r.End
	}
	b.Write(src[prev:])
	res.Content = b.String()
	res.Changed = res.Content != string(src)
	return res, nil
}
