package format

import (
	"strings"

	"github.com/cruffinoni/regularfmt/internal/ast"
)

// combine renders nodes back to back on one line.
func (f *Formatter) combine(nodes []ast.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(f.render(n))
	}
	return b.String()
}

func (f *Formatter) render(n ast.Node) string {
	switch n := n.(type) {
	case sign:
		return n.text
	case ast.Expr:
		return f.expr(n)
	case *ast.Property:
		return f.property(n)
	case *ast.TagAttr:
		return f.attr(n)
	case *ast.TagStmt:
		return f.openTag(n)
	case *ast.ExprStmt:
		return "{" + f.expr(n.Expr) + "}"
	case *ast.CommentStmt:
		return "<!-- " + strings.TrimSpace(n.Value) + " -->"
	}
	return ""
}

func (f *Formatter) expr(e ast.Expr) string {
	return ast.VisitExpr[string](f, e)
}

func (f *Formatter) exprs(es []ast.Expr) string {
	return strings.Join(ast.VisitExprs[string](f, es), ", ")
}

func (f *Formatter) openTag(n *ast.TagStmt) string {
	var b strings.Builder
	b.WriteString("<" + n.Name)
	for _, a := range n.Attrs {
		b.WriteString(" " + f.attr(a))
	}
	if n.SelfClose {
		b.WriteString(" /")
	}
	b.WriteString(">")
	return b.String()
}

func (f *Formatter) attr(a *ast.TagAttr) string {
	if a.Value == nil {
		return a.Name
	}
	if _, ok := a.Value.(*ast.StringLiteral); ok {
		return a.Name + "=" + f.expr(a.Value)
	}
	return a.Name + "={" + f.expr(a.Value) + "}"
}

func (f *Formatter) property(p *ast.Property) string {
	return f.expr(p.Key) + ": " + f.expr(p.Value)
}

func (f *Formatter) VisitIdentifier(n *ast.Identifier) string { return n.Name }

// VisitString prefers double quotes. A body holding an unescaped double
// quote keeps its single quotes.
func (f *Formatter) VisitString(n *ast.StringLiteral) string {
	q := "\""
	if hasBareQuote(n.Value, '"') {
		q = "'"
	}
	return q + n.Value + q
}

func hasBareQuote(body string, q byte) bool {
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case q:
			return true
		}
	}
	return false
}

func (f *Formatter) VisitNumber(n *ast.NumberLiteral) string { return n.Value }

func (f *Formatter) VisitBoolean(n *ast.BooleanLiteral) string { return n.Value }

func (f *Formatter) VisitNull(*ast.NullLiteral) string { return "null" }

func (f *Formatter) VisitUndefined(*ast.UndefinedLiteral) string { return "undefined" }

func (f *Formatter) VisitArray(n *ast.ArrayExpr) string {
	return "[" + f.exprs(n.Elements) + "]"
}

func (f *Formatter) VisitObject(n *ast.ObjectExpr) string {
	if len(n.Properties) == 0 {
		return "{}"
	}
	props := make([]string, len(n.Properties))
	for i, p := range n.Properties {
		props[i] = f.property(p)
	}
	return "{ " + strings.Join(props, ", ") + " }"
}

func (f *Formatter) VisitBinary(n *ast.BinaryExpr) string {
	return f.expr(n.Left) + " " + n.Op.Value + " " + f.expr(n.Right)
}

func (f *Formatter) VisitUnary(n *ast.UnaryExpr) string {
	return n.Op.Value + f.expr(n.Arg)
}

func (f *Formatter) VisitMember(n *ast.MemberExpr) string {
	if n.Computed {
		return f.expr(n.Object) + "[" + f.expr(n.Property) + "]"
	}
	return f.expr(n.Object) + "." + f.expr(n.Property)
}

func (f *Formatter) VisitCall(n *ast.CallExpr) string {
	return f.expr(n.Callee) + "(" + f.exprs(n.Args) + ")"
}

func (f *Formatter) VisitParen(n *ast.ParenExpr) string {
	return "(" + f.exprs(n.Exprs) + ")"
}

func (f *Formatter) VisitTernary(n *ast.TernaryExpr) string {
	return f.expr(n.Test) + " ? " + f.expr(n.Cons) + " : " + f.expr(n.Alt)
}

func (f *Formatter) VisitPipe(n *ast.PipeExpr) string {
	out := f.expr(n.Expr) + " | " + n.Name
	if len(n.Args) > 0 {
		out += ": " + f.exprs(n.Args)
	}
	return out
}

func (f *Formatter) VisitOnce(n *ast.OnceExpr) string {
	return "@(" + f.expr(n.Expr) + ")"
}
