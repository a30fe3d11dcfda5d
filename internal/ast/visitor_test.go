package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/regularfmt/internal/lexer"
)

// counter counts visited identifiers through every expression variant.
type counter struct {
	names []string
}

func (c *counter) VisitIdentifier(n *Identifier) int {
	c.names = append(c.names, n.Name)
	return 1
}
func (c *counter) VisitString(*StringLiteral) int       { return 0 }
func (c *counter) VisitNumber(*NumberLiteral) int       { return 0 }
func (c *counter) VisitBoolean(*BooleanLiteral) int     { return 0 }
func (c *counter) VisitNull(*NullLiteral) int           { return 0 }
func (c *counter) VisitUndefined(*UndefinedLiteral) int { return 0 }
func (c *counter) VisitArray(n *ArrayExpr) int          { return c.sum(n.Elements) }
func (c *counter) VisitObject(n *ObjectExpr) int {
	total := 0
	for _, p := range n.Properties {
		total += VisitExpr[int](c, p.Value)
	}
	return total
}
func (c *counter) VisitBinary(n *BinaryExpr) int {
	return VisitExpr[int](c, n.Left) + VisitExpr[int](c, n.Right)
}
func (c *counter) VisitUnary(n *UnaryExpr) int { return VisitExpr[int](c, n.Arg) }
func (c *counter) VisitMember(n *MemberExpr) int {
	if n.Computed {
		return VisitExpr[int](c, n.Object) + VisitExpr[int](c, n.Property)
	}
	return VisitExpr[int](c, n.Object)
}
func (c *counter) VisitCall(n *CallExpr) int {
	return VisitExpr[int](c, n.Callee) + c.sum(n.Args)
}
func (c *counter) VisitParen(n *ParenExpr) int { return c.sum(n.Exprs) }
func (c *counter) VisitTernary(n *TernaryExpr) int {
	return VisitExpr[int](c, n.Test) + VisitExpr[int](c, n.Cons) + VisitExpr[int](c, n.Alt)
}
func (c *counter) VisitPipe(n *PipeExpr) int { return VisitExpr[int](c, n.Expr) + c.sum(n.Args) }
func (c *counter) VisitOnce(n *OnceExpr) int { return VisitExpr[int](c, n.Expr) }

func (c *counter) sum(exprs []Expr) int {
	total := 0
	for _, n := range VisitExprs[int](c, exprs) {
		total += n
	}
	return total
}

func id(name string) *Identifier { return &Identifier{Name: name} }

func sign(v string) lexer.Token { return lexer.Token{Kind: lexer.TokenSign, Value: v} }

func TestVisitExprDispatchesEveryVariant(t *testing.T) {
	expr := &PipeExpr{
		Expr: &TernaryExpr{
			Test: &BinaryExpr{Op: sign("&&"), Left: id("a"), Right: &UnaryExpr{Op: sign("!"), Arg: id("b")}},
			Cons: &CallExpr{Callee: &MemberExpr{Object: id("c"), Property: id("skip")}, Args: []Expr{&NumberLiteral{Value: "1"}}},
			Alt:  &OnceExpr{Expr: &ParenExpr{Exprs: []Expr{&ArrayExpr{Elements: []Expr{id("d"), &NullLiteral{}}}}}},
		},
		Name: "f",
		Args: []Expr{&ObjectExpr{Properties: []*Property{{Key: id("k"), Value: id("e")}}}},
	}
	c := &counter{}
	require.Equal(t, 5, VisitExpr[int](c, expr))
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, c.names)
}

func TestSexprStatements(t *testing.T) {
	prog := &Program{Body: []Stmt{
		&TextStmt{Value: "  \n "},
		&TagStmt{Name: "p", Attrs: []*TagAttr{{Name: "hidden"}, {Name: "title", Value: &StringLiteral{Value: "t", Quote: '\''}}}, Body: []Stmt{
			&TextStmt{Value: " hello \n  world "},
		}},
		&IfStmt{Test: id("x"), Cons: []Stmt{&ExprStmt{Expr: id("y")}}, Alt: []Stmt{&CommentStmt{Value: " c "}}},
		&ListStmt{Iterable: id("xs"), Item: id("x"), Body: []Stmt{&TagStmt{Name: "br", SelfClose: true}}},
	}}
	want := `(program (tag p (attr hidden) (attr title "t") (text "hello world")) ` +
		`(if x (then (expr y)) (else (comment "c"))) (list xs x (body (tag/ br))))`
	require.Equal(t, want, Sexpr(prog))
}

func TestListArgumentsAndKeywords(t *testing.T) {
	list := &ListStmt{Iterable: id("xs"), Item: id("x")}
	require.Len(t, list.Arguments(), 2)
	list.Tracker = id("k")
	require.Len(t, list.Arguments(), 3)
	require.Equal(t, "list", list.Keyword())

	var cmd Command = &IfStmt{ElseIf: true}
	require.Equal(t, "elseif", cmd.Keyword())
}
