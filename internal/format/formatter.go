// Package format renders a template AST as canonically indented text that
// fits a print width. Each statement first becomes one or more ideal lines,
// over-wide lines are then shrunk per node type until every line fits or
// cannot break further, and a final reflow merges short neighbours back.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cruffinoni/regularfmt/internal/ast"
	"github.com/cruffinoni/regularfmt/internal/parser"
)

// Options configures one formatting run.
type Options struct {
	PrintWidth  int
	BaseIndent  int
	IndentWidth int
}

// DefaultOptions returns the 80 column, two space layout.
func DefaultOptions() Options {
	return Options{PrintWidth: 80, IndentWidth: 2}
}

// Validate checks option bounds.
func (o Options) Validate() error {
	var errs []error
	if o.PrintWidth <= 0 {
		errs = append(errs, fmt.Errorf("print width must be > 0, got %d", o.PrintWidth))
	}
	if o.BaseIndent < 0 {
		errs = append(errs, fmt.Errorf("base indent must be >= 0, got %d", o.BaseIndent))
	}
	if o.IndentWidth <= 0 {
		errs = append(errs, fmt.Errorf("indent width must be > 0, got %d", o.IndentWidth))
	}
	return errors.Join(errs...)
}

// Formatter holds the state of one run. It is not reusable across inputs.
type Formatter struct {
	code      string
	file      string
	startLine int
	opts      Options
	ctx       []context
}

type context struct {
	indent int
}

var _ ast.Visitor[[]*Line, string] = (*Formatter)(nil)

// New builds a formatter for code. startLine is the line the code begins on
// in its host file and is used for error locations.
func New(code string, file string, startLine int, opts Options) *Formatter {
	if opts.IndentWidth == 0 {
		opts.IndentWidth = 2
	}
	return &Formatter{code: code, file: file, startLine: startLine, opts: opts}
}

// Format parses and formats code in one call.
func Format(code string, file string, startLine int, opts Options) (string, error) {
	return New(code, file, startLine, opts).Run()
}

// Run parses the code and returns the formatted text.
func (f *Formatter) Run() (string, error) {
	if err := f.opts.Validate(); err != nil {
		return "", err
	}
	prog, err := parser.Parse(f.code, f.file, f.startLine)
	if err != nil {
		return "", err
	}
	lines := f.layout(prog)
	f.shrinkAll(lines)
	return f.print(lines), nil
}

// layout renders the program into ideal, unshrunk lines.
func (f *Formatter) layout(prog *ast.Program) *lineList {
	f.enter(f.opts.BaseIndent)
	defer f.leave()
	return newLineList(ast.VisitStmt[[]*Line](f, prog))
}

func (f *Formatter) enter(indent int) {
	f.ctx = append(f.ctx, context{indent: indent})
}

func (f *Formatter) leave() {
	f.ctx = f.ctx[:len(f.ctx)-1]
}

func (f *Formatter) indent() int {
	return f.ctx[len(f.ctx)-1].indent
}

// line builds a line whose text is the concatenation of nodes.
func (f *Formatter) line(indent int, nodes ...ast.Node) *Line {
	return &Line{Text: f.combine(nodes), Nodes: nodes, Indent: indent}
}

func (f *Formatter) nested(indent int, stmts []ast.Stmt) []*Line {
	f.enter(indent + f.opts.IndentWidth)
	defer f.leave()
	return f.VisitStmts(stmts)
}

func (f *Formatter) VisitProgram(n *ast.Program) []*Line {
	return f.VisitStmts(n.Body)
}

// VisitStmts lays out a block. Blank text between statements is dropped;
// the printer decides the spacing.
func (f *Formatter) VisitStmts(stmts []ast.Stmt) []*Line {
	var out []*Line
	for _, s := range stmts {
		for _, ln := range ast.VisitStmt[[]*Line](f, s) {
			if strings.TrimSpace(ln.Text) == "" {
				continue
			}
			out = append(out, ln)
		}
	}
	return out
}

func (f *Formatter) VisitTag(n *ast.TagStmt) []*Line {
	indent := f.indent()
	open := f.line(indent, n)
	open.Force, open.Steel = true, true
	if n.SelfClose {
		return []*Line{open}
	}

	closing := sign{text: "</" + n.Name + ">"}
	body := f.nested(indent, n.Body)
	if len(body) == 0 {
		open = f.line(indent, n, closing)
		open.Force, open.Steel = true, true
		return []*Line{open}
	}

	closeLine := f.line(indent, closing)
	closeLine.Force, closeLine.Steel, closeLine.Fine = true, true, true
	if len(n.Body) == 1 {
		if _, ok := n.Body[0].(*ast.TextStmt); ok {
			open.Steel = false
			closeLine.Force = false
		}
	}
	lines := append([]*Line{open}, body...)
	return append(lines, closeLine)
}

func (f *Formatter) VisitIf(n *ast.IfStmt) []*Line {
	indent := f.indent()
	begin := f.line(indent, sign{text: "{#" + n.Keyword() + " "}, n.Test, sign{text: "}"})
	begin.Force, begin.Steel = true, true
	lines := append([]*Line{begin}, f.nested(indent, n.Cons)...)

	if len(n.Alt) == 1 {
		if elseif, ok := n.Alt[0].(*ast.IfStmt); ok && elseif.ElseIf {
			return append(lines, f.VisitIf(elseif)...)
		}
	}
	if len(n.Alt) > 0 {
		lines = append(lines, f.fixed(indent, "{#else}"))
		lines = append(lines, f.nested(indent, n.Alt)...)
	}
	return append(lines, f.fixed(indent, "{/if}"))
}

func (f *Formatter) VisitList(n *ast.ListStmt) []*Line {
	indent := f.indent()
	nodes := []ast.Node{sign{text: "{#list "}, n.Iterable, sign{text: " as "}, n.Item}
	if n.Tracker != nil {
		nodes = append(nodes, sign{text: " by "}, n.Tracker)
	}
	nodes = append(nodes, sign{text: "}"})
	begin := f.line(indent, nodes...)
	begin.Force, begin.Steel = true, true

	lines := append([]*Line{begin}, f.nested(indent, n.Body)...)
	if len(n.Alt) > 0 {
		lines = append(lines, f.fixed(indent, "{#else}"))
		lines = append(lines, f.nested(indent, n.Alt)...)
	}
	return append(lines, f.fixed(indent, "{/list}"))
}

// fixed is a command keyword line that always stands alone.
func (f *Formatter) fixed(indent int, text string) *Line {
	return &Line{Text: text, Nodes: []ast.Node{sign{text: text}}, Indent: indent, Force: true, Steel: true, Fine: true}
}

func (f *Formatter) VisitText(n *ast.TextStmt) []*Line {
	text := collapse(n.Value)
	return []*Line{{Text: text, Nodes: []ast.Node{sign{text: text}}, Indent: f.indent()}}
}

func (f *Formatter) VisitComment(n *ast.CommentStmt) []*Line {
	ln := f.line(f.indent(), n)
	ln.Force, ln.Steel, ln.Fine = true, true, true
	return []*Line{ln}
}

func (f *Formatter) VisitExprStmt(n *ast.ExprStmt) []*Line {
	return []*Line{f.line(f.indent(), n)}
}

// collapse squeezes runs of whitespace to one blank. A blank is kept at
// either edge that had whitespace so text stays apart from its neighbours.
func collapse(text string) string {
	inner := strings.Join(strings.Fields(text), " ")
	if inner == "" {
		return ""
	}
	if strings.TrimLeft(text, " \t\n\r") != text {
		inner = " " + inner
	}
	if strings.TrimRight(text, " \t\n\r") != text {
		inner += " "
	}
	return inner
}
