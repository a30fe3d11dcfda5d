package ast

// StmtVisitor handles every statement variant. Adding a statement type
// means adding a method here, so every implementation breaks at compile time
// until it handles the new variant.
type StmtVisitor[R any] interface {
	VisitProgram(n *Program) R
	VisitTag(n *TagStmt) R
	VisitIf(n *IfStmt) R
	VisitList(n *ListStmt) R
	VisitText(n *TextStmt) R
	VisitComment(n *CommentStmt) R
	VisitExprStmt(n *ExprStmt) R
	VisitStmts(stmts []Stmt) R
}

// ExprVisitor handles every expression variant.
type ExprVisitor[R any] interface {
	VisitIdentifier(n *Identifier) R
	VisitString(n *StringLiteral) R
	VisitNumber(n *NumberLiteral) R
	VisitBoolean(n *BooleanLiteral) R
	VisitNull(n *NullLiteral) R
	VisitUndefined(n *UndefinedLiteral) R
	VisitArray(n *ArrayExpr) R
	VisitObject(n *ObjectExpr) R
	VisitBinary(n *BinaryExpr) R
	VisitUnary(n *UnaryExpr) R
	VisitMember(n *MemberExpr) R
	VisitCall(n *CallExpr) R
	VisitParen(n *ParenExpr) R
	VisitTernary(n *TernaryExpr) R
	VisitPipe(n *PipeExpr) R
	VisitOnce(n *OnceExpr) R
}

// Visitor is a full traversal over statements (result S) and expressions
// (result E).
type Visitor[S, E any] interface {
	StmtVisitor[S]
	ExprVisitor[E]
}

// VisitStmt dispatches s to the matching method of v.
func VisitStmt[R any](v StmtVisitor[R], s Stmt) R {
	d := &stmtDispatch[R]{v: v}
	s.acceptStmt(d)
	return d.out
}

// VisitExpr dispatches e to the matching method of v.
func VisitExpr[R any](v ExprVisitor[R], e Expr) R {
	d := &exprDispatch[R]{v: v}
	e.acceptExpr(d)
	return d.out
}

// VisitExprs visits each expression in order.
func VisitExprs[R any](v ExprVisitor[R], exprs []Expr) []R {
	out := make([]R, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, VisitExpr(v, e))
	}
	return out
}

type stmtDispatcher interface {
	program(n *Program)
	tag(n *TagStmt)
	ifStmt(n *IfStmt)
	list(n *ListStmt)
	text(n *TextStmt)
	comment(n *CommentStmt)
	exprStmt(n *ExprStmt)
}

type exprDispatcher interface {
	identifier(n *Identifier)
	str(n *StringLiteral)
	number(n *NumberLiteral)
	boolean(n *BooleanLiteral)
	null(n *NullLiteral)
	undefined(n *UndefinedLiteral)
	array(n *ArrayExpr)
	object(n *ObjectExpr)
	binary(n *BinaryExpr)
	unary(n *UnaryExpr)
	member(n *MemberExpr)
	call(n *CallExpr)
	paren(n *ParenExpr)
	ternary(n *TernaryExpr)
	pipe(n *PipeExpr)
	once(n *OnceExpr)
}

type stmtDispatch[R any] struct {
	v   StmtVisitor[R]
	out R
}

func (d *stmtDispatch[R]) program(n *Program) { d.out = d.v.VisitProgram(n) }
func (d *stmtDispatch[R]) tag(n *TagStmt) { d.out = d.v.VisitTag(n) }
func (d *stmtDispatch[R]) ifStmt(n *IfStmt) { d.out = d.v.VisitIf(n) }
func (d *stmtDispatch[R]) list(n *ListStmt) { d.out = d.v.VisitList(n) }
func (d *stmtDispatch[R]) text(n *TextStmt) { d.out = d.v.VisitText(n) }
func (d *stmtDispatch[R]) comment(n *CommentStmt) { d.out = d.v.VisitComment(n) }
func (d *stmtDispatch[R]) exprStmt(n *ExprStmt) { d.out = d.v.VisitExprStmt(n) }

type exprDispatch[R any] struct {
	v   ExprVisitor[R]
	out R
}

func (d *exprDispatch[R]) identifier(n *Identifier) { d.out = d.v.VisitIdentifier(n) }
func (d *exprDispatch[R]) str(n *StringLiteral) { d.out = d.v.VisitString(n) }
func (d *exprDispatch[R]) number(n *NumberLiteral) { d.out = d.v.VisitNumber(n) }
func (d *exprDispatch[R]) boolean(n *BooleanLiteral) { d.out = d.v.VisitBoolean(n) }
func (d *exprDispatch[R]) null(n *NullLiteral) { d.out = d.v.VisitNull(n) }
func (d *exprDispatch[R]) undefined(n *UndefinedLiteral) { d.out = d.v.VisitUndefined(n) }
func (d *exprDispatch[R]) array(n *ArrayExpr) { d.out = d.v.VisitArray(n) }
func (d *exprDispatch[R]) object(n *ObjectExpr) { d.out = d.v.VisitObject(n) }
func (d *exprDispatch[R]) binary(n *BinaryExpr) { d.out = d.v.VisitBinary(n) }
func (d *exprDispatch[R]) unary(n *UnaryExpr) { d.out = d.v.VisitUnary(n) }
func (d *exprDispatch[R]) member(n *MemberExpr) { d.out = d.v.VisitMember(n) }
func (d *exprDispatch[R]) call(n *CallExpr) { d.out = d.v.VisitCall(n) }
func (d *exprDispatch[R]) paren(n *ParenExpr) { d.out = d.v.VisitParen(n) }
func (d *exprDispatch[R]) ternary(n *TernaryExpr) { d.out = d.v.VisitTernary(n) }
func (d *exprDispatch[R]) pipe(n *PipeExpr) { d.out = d.v.VisitPipe(n) }
func (d *exprDispatch[R]) once(n *OnceExpr) { d.out = d.v.VisitOnce(n) }

func (n *Program) acceptStmt(d stmtDispatcher) { d.program(n) }
func (n *TagStmt) acceptStmt(d stmtDispatcher) { d.tag(n) }
func (n *IfStmt) acceptStmt(d stmtDispatcher) { d.ifStmt(n) }
func (n *ListStmt) acceptStmt(d stmtDispatcher) { d.list(n) }
func (n *TextStmt) acceptStmt(d stmtDispatcher) { d.text(n) }
func (n *CommentStmt) acceptStmt(d stmtDispatcher) { d.comment(n) }
func (n *ExprStmt) acceptStmt(d stmtDispatcher) { d.exprStmt(n) }

func (n *Identifier) acceptExpr(d exprDispatcher) { d.identifier(n) }
func (n *StringLiteral) acceptExpr(d exprDispatcher) { d.str(n) }
func (n *NumberLiteral) acceptExpr(d exprDispatcher) { d.number(n) }
func (n *BooleanLiteral) acceptExpr(d exprDispatcher) { d.boolean(n) }
func (n *NullLiteral) acceptExpr(d exprDispatcher) { d.null(n) }
func (n *UndefinedLiteral) acceptExpr(d exprDispatcher) { d.undefined(n) }
func (n *ArrayExpr) acceptExpr(d exprDispatcher) { d.array(n) }
func (n *ObjectExpr) acceptExpr(d exprDispatcher) { d.object(n) }
func (n *BinaryExpr) acceptExpr(d exprDispatcher) { d.binary(n) }
func (n *UnaryExpr) acceptExpr(d exprDispatcher) { d.unary(n) }
func (n *MemberExpr) acceptExpr(d exprDispatcher) { d.member(n) }
func (n *CallExpr) acceptExpr(d exprDispatcher) { d.call(n) }
func (n *ParenExpr) acceptExpr(d exprDispatcher) { d.paren(n) }
func (n *TernaryExpr) acceptExpr(d exprDispatcher) { d.ternary(n) }
func (n *PipeExpr) acceptExpr(d exprDispatcher) { d.pipe(n) }
func (n *OnceExpr) acceptExpr(d exprDispatcher) { d.once(n) }
