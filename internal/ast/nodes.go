package ast

import (
	"github.com/cruffinoni/regularfmt/internal/lexer"
	"github.com/cruffinoni/regularfmt/internal/source"
)

// Node is the common interface implemented by every AST node.
type Node interface {
	Loc() source.Loc
}

// Stmt is a statement-level node. The set of implementations is closed.
type Stmt interface {
	Node
	acceptStmt(stmtDispatcher)
}

// Expr is an expression node. The set of implementations is closed.
type Expr interface {
	Node
	acceptExpr(exprDispatcher)
}

// Literal marks atoms that render as a single token.
type Literal interface {
	Expr
	literal()
}

// Command is a control-flow statement ({#if}, {#list}).
type Command interface {
	Stmt
	Keyword() string
}

// Span carries the source range of a node.
type Span struct {
	Location source.Loc
}

// Loc returns the source range of the node.
func (s *Span) Loc() source.Loc { return s.Location }

// Finish records where parsing of the node completed.
func (s *Span) Finish(end source.Position) { s.Location.End = end }

// At builds a span starting at loc.
func At(loc source.Loc) Span { return Span{Location: loc} }

// Program is the parser output root node.
type Program struct {
	Span
	Body []Stmt
}

// TagStmt is an element such as <div a="1">...</div>.
type TagStmt struct {
	Span
	Name      string
	Attrs     []*TagAttr
	Body      []Stmt
	SelfClose bool
}

// TagAttr is one attribute; a nil Value is a boolean flag attribute.
type TagAttr struct {
	Span
	Name  string
	Value Expr
}

// IfStmt is {#if test}cons{#else}alt{/if}. An {#elseif} is stored as the
// single element of Alt with ElseIf set.
type IfStmt struct {
	Span
	Test   Expr
	Cons   []Stmt
	Alt    []Stmt
	ElseIf bool
}

// Keyword returns "if" or "elseif".
func (n *IfStmt) Keyword() string {
	if n.ElseIf {
		return lexer.KeywordElseIf
	}
	return lexer.KeywordIf
}

// ListStmt is {#list iterable as item [by tracker]}body{#else}alt{/list}.
type ListStmt struct {
	Span
	Iterable Expr
	Item     *Identifier
	Tracker  Expr
	Body     []Stmt
	Alt      []Stmt
}

// Keyword returns "list".
func (n *ListStmt) Keyword() string { return lexer.KeywordList }

// Arguments returns the header expressions in source order.
func (n *ListStmt) Arguments() []Expr {
	args := []Expr{n.Iterable, n.Item}
	if n.Tracker != nil {
		args = append(args, n.Tracker)
	}
	return args
}

// TextStmt stores raw template text.
type TextStmt struct {
	Span
	Value string
}

// CommentStmt stores the body of <!-- ... -->.
type CommentStmt struct {
	Span
	Value string
}

// ExprStmt is an interpolation {expr}.
type ExprStmt struct {
	Span
	Expr Expr
}

// Identifier is a bare name.
type Identifier struct {
	Span
	Name string
}

// StringLiteral keeps the raw body (escapes verbatim) and its quote.
type StringLiteral struct {
	Span
	Value string
	Quote rune
}

// NumberLiteral keeps the literal spelling.
type NumberLiteral struct {
	Span
	Value string
}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Span
	Value string
}

// NullLiteral is null.
type NullLiteral struct {
	Span
}

// UndefinedLiteral is undefined.
type UndefinedLiteral struct {
	Span
}

// ArrayExpr is [a, b].
type ArrayExpr struct {
	Span
	Elements []Expr
}

// Property is one key: value pair of an object literal. Key is an
// *Identifier or a *StringLiteral; duplicate keys are kept as written.
type Property struct {
	Span
	Key   Expr
	Value Expr
}

// ObjectExpr is { k: v, ... }.
type ObjectExpr struct {
	Span
	Properties []*Property
}

// BinaryExpr is left op right.
type BinaryExpr struct {
	Span
	Op    lexer.Token
	Left  Expr
	Right Expr
}

// UnaryExpr is -arg or !arg.
type UnaryExpr struct {
	Span
	Op  lexer.Token
	Arg Expr
}

// MemberExpr is object.property or object[property].
type MemberExpr struct {
	Span
	Object   Expr
	Property Expr
	Computed bool
}

// CallExpr is callee(args...).
type CallExpr struct {
	Span
	Callee Expr
	Args   []Expr
}

// ParenExpr is a parenthesized, comma separated sequence. A single grouped
// expression is a one-element sequence.
type ParenExpr struct {
	Span
	Exprs []Expr
}

// TernaryExpr is test ? cons : alt.
type TernaryExpr struct {
	Span
	Test Expr
	Cons Expr
	Alt  Expr
}

// PipeExpr is expr | name: args.
type PipeExpr struct {
	Span
	Expr Expr
	Name string
	Args []Expr
}

// OnceExpr is @(expr).
type OnceExpr struct {
	Span
	Expr Expr
}

func (*NumberLiteral) literal() {}
func (*StringLiteral) literal() {}
func (*BooleanLiteral) literal() {}
func (*NullLiteral) literal() {}
func (*UndefinedLiteral) literal() {}
