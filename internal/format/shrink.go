package format

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/cruffinoni/regularfmt/internal/ast"
)

// shrinker expands one node into lines at the given indent.
type shrinker func(f *Formatter, n ast.Node, indent int) []*Line

func rule[T ast.Node](fn func(f *Formatter, n T, indent int) []*Line) shrinker {
	return func(f *Formatter, n ast.Node, indent int) []*Line {
		return fn(f, n.(T), indent)
	}
}

// shrinkers maps node types to their expansion. Supporting a new construct
// only needs a new entry.
var shrinkers map[reflect.Type]shrinker

func init() {
	shrinkers = map[reflect.Type]shrinker{
		reflect.TypeOf((*ast.BinaryExpr)(nil)):  rule(shrinkBinary),
		reflect.TypeOf((*ast.CallExpr)(nil)):    rule(shrinkCall),
		reflect.TypeOf((*ast.TernaryExpr)(nil)): rule(shrinkTernary),
		reflect.TypeOf((*ast.ObjectExpr)(nil)):  rule(shrinkObject),
		reflect.TypeOf((*ast.Property)(nil)):    rule(shrinkProperty),
		reflect.TypeOf((*ast.ArrayExpr)(nil)):   rule(shrinkArray),
		reflect.TypeOf((*ast.ParenExpr)(nil)):   rule(shrinkParen),
		reflect.TypeOf((*ast.MemberExpr)(nil)):  rule(shrinkMember),
		reflect.TypeOf((*ast.PipeExpr)(nil)):    rule(shrinkPipe),
		reflect.TypeOf((*ast.OnceExpr)(nil)):    rule(shrinkOnce),
		reflect.TypeOf((*ast.UnaryExpr)(nil)):   rule(shrinkUnary),
		reflect.TypeOf((*ast.ExprStmt)(nil)):    rule(shrinkExprStmt),
		reflect.TypeOf((*ast.TagAttr)(nil)):     rule(shrinkAttr),
		reflect.TypeOf((*ast.TagStmt)(nil)):     rule(shrinkTag),
	}
}

// shrinkable reports whether n can be broken over several lines. Signs,
// identifiers and literals never break, nor do empty compounds.
func (f *Formatter) shrinkable(n ast.Node) bool {
	switch n := n.(type) {
	case sign, *ast.Identifier, ast.Literal:
		return false
	case *ast.UnaryExpr:
		return f.shrinkable(n.Arg)
	case *ast.Property:
		return f.shrinkable(n.Value)
	case *ast.TagStmt:
		return len(n.Attrs) > 0
	case *ast.CallExpr:
		return len(n.Args) > 0
	case *ast.ArrayExpr:
		return len(n.Elements) > 0
	case *ast.ObjectExpr:
		return len(n.Properties) > 0
	case *ast.ParenExpr:
		return len(n.Exprs) > 0
	}
	_, ok := shrinkers[reflect.TypeOf(n)]
	return ok
}

func (f *Formatter) expand(n ast.Node, indent int) []*Line {
	return shrinkers[reflect.TypeOf(n)](f, n, indent)
}

func (f *Formatter) fits(ln *Line) bool {
	return ln.Width() <= f.opts.PrintWidth
}

// shrinkAll breaks over-wide lines until every line fits or has nothing
// left to break.
func (f *Formatter) shrinkAll(l *lineList) {
	work := l.ids()
	for len(work) > 0 {
		var next []int
		for _, i := range work {
			ln := l.at(i)
			if ln.Fine {
				continue
			}
			if f.fits(ln) {
				ln.Fine = true
				continue
			}
			repl := f.shrink(l, ln)
			if repl == nil {
				ln.Fine = true
				slog.Debug("line overflows and cannot break", "text", ln.Text, "width", ln.Width())
				continue
			}
			next = append(next, l.splice(i, repl)...)
		}
		work = next
	}
}

// shrink splits ln around its first shrinkable node: the nodes before it,
// the node's own expansion, and the nodes after it.
func (f *Formatter) shrink(l *lineList, ln *Line) []*Line {
	j := slices.IndexFunc(ln.Nodes, f.shrinkable)
	if j < 0 {
		return nil
	}
	node := ln.Nodes[j]
	before, after := ln.Nodes[:j], ln.Nodes[j+1:]
	expanded := f.expand(node, ln.Indent)
	slog.Debug("shrink line", "node", fmt.Sprintf("%T", node), "text", ln.Text, "lines", len(expanded))

	var out []*Line
	if len(before) > 0 {
		b := f.line(ln.Indent, slices.Clone(before)...)
		b.Force, b.Inline = ln.Force, ln.Inline
		out = append(out, b)
	} else if first := expanded[0]; ln.Force {
		first.Force, first.Inline = true, false
	} else if ln.Inline {
		first.Inline = true
	}
	out = append(out, expanded...)
	if len(after) > 0 {
		a := f.line(ln.Indent, slices.Clone(after)...)
		a.Steel = ln.Steel
		a.Inline = glued(after[0])
		out = append(out, a)
	} else if ln.Steel {
		out[len(out)-1].Steel = true
	}

	// A broken open tag pushes a lone text child onto its own line so the
	// close tag cannot fold back into the text.
	if tag, ok := node.(*ast.TagStmt); ok && !tag.SelfClose && ln.next != none {
		nx := l.at(ln.next)
		if len(nx.Nodes) == 1 {
			if _, ok := nx.Nodes[0].(sign); ok {
				nx.Force, nx.Steel = true, true
			}
		}
	}
	return out
}

// glued reports separators that stay on the line they follow.
func glued(n ast.Node) bool {
	s, ok := n.(sign)
	return ok && (s.text == "," || s.text == "(")
}

// seq lays out one item per line, each but the last followed by a comma.
func (f *Formatter) seq(items []ast.Node, indent int) []*Line {
	out := make([]*Line, len(items))
	for i, it := range items {
		nodes := []ast.Node{it}
		if i < len(items)-1 {
			nodes = append(nodes, sign{text: ","})
		}
		out[i] = f.line(indent, nodes...)
		out[i].Force = true
	}
	return out
}

func nodesOf[T ast.Node](xs []T) []ast.Node {
	out := make([]ast.Node, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func shrinkBinary(f *Formatter, n *ast.BinaryExpr, indent int) []*Line {
	left := &Line{
		Text:   f.expr(n.Left) + " " + n.Op.Value,
		Nodes:  []ast.Node{n.Left, sign{text: n.Op.Value, op: true}},
		Indent: indent,
	}
	return []*Line{left, f.line(indent+f.opts.IndentWidth, n.Right)}
}

func shrinkCall(f *Formatter, n *ast.CallExpr, indent int) []*Line {
	open := f.line(indent, n.Callee, sign{text: "("})
	open.Inline = true
	closing := f.line(indent, sign{text: ")"})
	closing.Force = true
	lines := append([]*Line{open}, f.seq(nodesOf(n.Args), indent+f.opts.IndentWidth)...)
	return append(lines, closing)
}

func shrinkTernary(f *Formatter, n *ast.TernaryExpr, indent int) []*Line {
	inner := indent + f.opts.IndentWidth
	cons := f.line(inner, sign{text: "?", op: true}, sign{text: " "}, n.Cons)
	alt := f.line(inner, sign{text: ":", op: true}, sign{text: " "}, n.Alt)
	cons.Force, alt.Force = true, true
	return []*Line{f.line(indent, n.Test), cons, alt}
}

func shrinkObject(f *Formatter, n *ast.ObjectExpr, indent int) []*Line {
	open := f.line(indent, sign{text: "{"})
	open.Force = true
	closing := f.line(indent, sign{text: "}"})
	closing.Force = true
	lines := append([]*Line{open}, f.seq(nodesOf(n.Properties), indent+f.opts.IndentWidth)...)
	return append(lines, closing)
}

// shrinkProperty keeps key: value together when it fits with room for a
// separator; otherwise the key line takes the first line of the value's
// expansion.
func shrinkProperty(f *Formatter, n *ast.Property, indent int) []*Line {
	compact := f.line(indent, n.Key, sign{text: ": "}, n.Value)
	if compact.Width() < f.opts.PrintWidth || !f.shrinkable(n.Value) {
		compact.Fine = true
		return []*Line{compact}
	}
	values := f.expand(n.Value, indent)
	first := values[0]
	key := &Line{
		Text:   f.expr(n.Key) + ": " + first.Text,
		Nodes:  append([]ast.Node{n.Key, sign{text: ": "}}, first.Nodes...),
		Indent: indent,
		Steel:  first.Steel,
		Fine:   true,
	}
	return append([]*Line{key}, values[1:]...)
}

func shrinkArray(f *Formatter, n *ast.ArrayExpr, indent int) []*Line {
	open := f.line(indent, sign{text: "["})
	open.Steel = true
	closing := f.line(indent, sign{text: "]"})
	closing.Force = true
	lines := append([]*Line{open}, f.seq(nodesOf(n.Elements), indent+f.opts.IndentWidth)...)
	return append(lines, closing)
}

func shrinkParen(f *Formatter, n *ast.ParenExpr, indent int) []*Line {
	open := f.line(indent, sign{text: "("})
	open.Force = true
	items := f.seq(nodesOf(n.Exprs), indent+f.opts.IndentWidth)
	items[0].Force = false
	lines := append([]*Line{open}, items...)
	return append(lines, f.line(indent, sign{text: ")"}))
}

func shrinkMember(f *Formatter, n *ast.MemberExpr, indent int) []*Line {
	inner := indent + f.opts.IndentWidth
	if !n.Computed {
		return []*Line{f.line(indent, n.Object), f.line(inner, sign{text: "."}, n.Property)}
	}
	prop := f.line(inner, n.Property)
	prop.Force = true
	closing := f.line(indent, sign{text: "]"})
	closing.Force = true
	return []*Line{f.line(indent, n.Object, sign{text: "["}), prop, closing}
}

func shrinkPipe(f *Formatter, n *ast.PipeExpr, indent int) []*Line {
	nodes := []ast.Node{sign{text: "|", op: true}, sign{text: " " + n.Name}}
	for i, arg := range n.Args {
		sep := ", "
		if i == 0 {
			sep = ": "
		}
		nodes = append(nodes, sign{text: sep}, arg)
	}
	return []*Line{f.line(indent, n.Expr), f.line(indent+f.opts.IndentWidth, nodes...)}
}

func shrinkOnce(f *Formatter, n *ast.OnceExpr, indent int) []*Line {
	open := f.line(indent, sign{text: "@("})
	open.Force = true
	return []*Line{open, f.line(indent+f.opts.IndentWidth, n.Expr), f.line(indent, sign{text: ")"})}
}

// shrinkUnary breaks the operand and keeps the operator in front of its
// first line.
func shrinkUnary(f *Formatter, n *ast.UnaryExpr, indent int) []*Line {
	lines := f.expand(n.Arg, indent)
	first := lines[0]
	first.Nodes = append([]ast.Node{sign{text: n.Op.Value}}, first.Nodes...)
	first.Text = n.Op.Value + first.Text
	return lines
}

func shrinkExprStmt(f *Formatter, n *ast.ExprStmt, indent int) []*Line {
	open := f.line(indent, sign{text: "{"})
	open.Force, open.Steel = true, true
	closing := f.line(indent, sign{text: "}"})
	closing.Force = true
	return []*Line{open, f.line(indent+f.opts.IndentWidth, n.Expr), closing}
}

func shrinkAttr(f *Formatter, n *ast.TagAttr, indent int) []*Line {
	if n.Value == nil {
		ln := f.line(indent, n)
		ln.Force, ln.Steel, ln.Fine = true, true, true
		return []*Line{ln}
	}
	nodes := []ast.Node{sign{text: n.Name + "="}, n.Value}
	if _, ok := n.Value.(*ast.StringLiteral); !ok {
		nodes = []ast.Node{sign{text: n.Name + "={"}, n.Value, sign{text: "}"}}
	}
	ln := f.line(indent, nodes...)
	ln.Force, ln.Steel = true, true
	return []*Line{ln}
}

func shrinkTag(f *Formatter, n *ast.TagStmt, indent int) []*Line {
	open := f.line(indent, sign{text: "<" + n.Name})
	open.Force, open.Steel, open.Fine = true, true, true
	lines := []*Line{open}
	for _, a := range n.Attrs {
		lines = append(lines, shrinkAttr(f, a, indent+f.opts.IndentWidth)...)
	}
	end := ">"
	if n.SelfClose {
		end = "/>"
	}
	closing := f.line(indent, sign{text: end})
	closing.Force, closing.Steel, closing.Fine = true, true, true
	return append(lines, closing)
}
