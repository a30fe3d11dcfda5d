package ast

import (
	"strings"
)

// Sexpr renders a statement as a canonical S-expression. Text is trimmed
// and its inner whitespace collapsed, and blank text is dropped, so two
// trees that differ only in layout render identically.
func Sexpr(s Stmt) string {
	return VisitStmt[string](sexpr{}, s)
}

// SexprExpr renders an expression the same way.
func SexprExpr(e Expr) string {
	return VisitExpr[string](sexpr{}, e)
}

type sexpr struct{}

var _ Visitor[string, string] = sexpr{}

func list(head string, items ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(head)
	for _, it := range items {
		if it == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(it)
	}
	b.WriteByte(')')
	return b.String()
}

func (v sexpr) VisitProgram(n *Program) string {
	return list("program", v.VisitStmts(n.Body))
}

func (v sexpr) VisitTag(n *TagStmt) string {
	head := "tag"
	if n.SelfClose {
		head = "tag/"
	}
	items := []string{n.Name}
	for _, a := range n.Attrs {
		if a.Value == nil {
			items = append(items, list("attr", a.Name))
			continue
		}
		items = append(items, list("attr", a.Name, VisitExpr[string](v, a.Value)))
	}
	items = append(items, v.VisitStmts(n.Body))
	return list(head, items...)
}

func (v sexpr) VisitIf(n *IfStmt) string {
	items := []string{VisitExpr[string](v, n.Test), list("then", v.VisitStmts(n.Cons))}
	if len(n.Alt) > 0 {
		items = append(items, list("else", v.VisitStmts(n.Alt)))
	}
	return list(n.Keyword(), items...)
}

func (v sexpr) VisitList(n *ListStmt) string {
	items := VisitExprs[string](v, n.Arguments())
	items = append(items, list("body", v.VisitStmts(n.Body)))
	if len(n.Alt) > 0 {
		items = append(items, list("else", v.VisitStmts(n.Alt)))
	}
	return list("list", items...)
}

func (v sexpr) VisitText(n *TextStmt) string {
	text := strings.Join(strings.Fields(n.Value), " ")
	if text == "" {
		return ""
	}
	return list("text", quote(text))
}

func (v sexpr) VisitComment(n *CommentStmt) string {
	return list("comment", quote(strings.TrimSpace(n.Value)))
}

func (v sexpr) VisitExprStmt(n *ExprStmt) string {
	return list("expr", VisitExpr[string](v, n.Expr))
}

func (v sexpr) VisitStmts(stmts []Stmt) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		if out := VisitStmt[string](v, s); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, " ")
}

func (v sexpr) VisitIdentifier(n *Identifier) string { return n.Name }

func (v sexpr) VisitString(n *StringLiteral) string { return quote(n.Value) }

func (v sexpr) VisitNumber(n *NumberLiteral) string { return n.Value }

func (v sexpr) VisitBoolean(n *BooleanLiteral) string { return n.Value }

func (v sexpr) VisitNull(*NullLiteral) string { return "null" }

func (v sexpr) VisitUndefined(*UndefinedLiteral) string { return "undefined" }

func (v sexpr) VisitArray(n *ArrayExpr) string {
	return list("array", VisitExprs[string](v, n.Elements)...)
}

func (v sexpr) VisitObject(n *ObjectExpr) string {
	props := make([]string, 0, len(n.Properties))
	for _, p := range n.Properties {
		props = append(props, list("prop", VisitExpr[string](v, p.Key), VisitExpr[string](v, p.Value)))
	}
	return list("object", props...)
}

func (v sexpr) VisitBinary(n *BinaryExpr) string {
	return list(n.Op.Value, VisitExpr[string](v, n.Left), VisitExpr[string](v, n.Right))
}

func (v sexpr) VisitUnary(n *UnaryExpr) string {
	return list("unary"+n.Op.Value, VisitExpr[string](v, n.Arg))
}

func (v sexpr) VisitMember(n *MemberExpr) string {
	head := "."
	if n.Computed {
		head = "[]"
	}
	return list(head, VisitExpr[string](v, n.Object), VisitExpr[string](v, n.Property))
}

func (v sexpr) VisitCall(n *CallExpr) string {
	return list("call", append([]string{VisitExpr[string](v, n.Callee)}, VisitExprs[string](v, n.Args)...)...)
}

func (v sexpr) VisitParen(n *ParenExpr) string {
	return list("paren", VisitExprs[string](v, n.Exprs)...)
}

func (v sexpr) VisitTernary(n *TernaryExpr) string {
	return list("?", VisitExpr[string](v, n.Test), VisitExpr[string](v, n.Cons), VisitExpr[string](v, n.Alt))
}

func (v sexpr) VisitPipe(n *PipeExpr) string {
	return list("pipe", append([]string{VisitExpr[string](v, n.Expr), n.Name}, VisitExprs[string](v, n.Args)...)...)
}

func (v sexpr) VisitOnce(n *OnceExpr) string {
	return list("once", VisitExpr[string](v, n.Expr))
}

func quote(s string) string {
	return `"` + s + `"`
}
