package inspect

import (
	"sort"

	"github.com/cruffinoni/regularfmt/internal/ast"
)

// Features lists the constructs used by progs as sorted "kind:name" keys,
// for example "command:if", "filter:json" or "expr:once".
func Features(progs ...*ast.Program) []string {
	set := map[string]struct{}{}
	add := func(key string) { set[key] = struct{}{} }

	var walkExpr func(e ast.Expr)
	walkExprs := func(es []ast.Expr) {
		for _, e := range es {
			walkExpr(e)
		}
	}
	walkExpr = func(e ast.Expr) {
		switch t := e.(type) {
		case *ast.ArrayExpr:
			add("expr:array")
			walkExprs(t.Elements)
		case *ast.ObjectExpr:
			add("expr:object")
			for _, p := range t.Properties {
				walkExpr(p.Value)
			}
		case *ast.BinaryExpr:
			add("op:" + t.Op.Value)
			walkExpr(t.Left)
			walkExpr(t.Right)
		case *ast.UnaryExpr:
			add("op:unary" + t.Op.Value)
			walkExpr(t.Arg)
		case *ast.MemberExpr:
			if t.Computed {
				add("expr:index")
				walkExpr(t.Property)
			}
			walkExpr(t.Object)
		case *ast.CallExpr:
			add("expr:call")
			walkExpr(t.Callee)
			walkExprs(t.Args)
		case *ast.ParenExpr:
			walkExprs(t.Exprs)
		case *ast.TernaryExpr:
			add("expr:ternary")
			walkExpr(t.Test)
			walkExpr(t.Cons)
			walkExpr(t.Alt)
		case *ast.PipeExpr:
			add("filter:" + t.Name)
			walkExpr(t.Expr)
			walkExprs(t.Args)
		case *ast.OnceExpr:
			add("expr:once")
			walkExpr(t.Expr)
		}
	}

	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch t := s.(type) {
			case *ast.TagStmt:
				add("node:tag")
				for _, a := range t.Attrs {
					if a.Value != nil {
						walkExpr(a.Value)
					}
				}
				walk(t.Body)
			case *ast.TextStmt:
				add("node:text")
			case *ast.CommentStmt:
				add("node:comment")
			case *ast.ExprStmt:
				add("node:interpolation")
				walkExpr(t.Expr)
			case *ast.IfStmt:
				add("command:" + t.Keyword())
				walkExpr(t.Test)
				walk(t.Cons)
				if len(t.Alt) > 0 && !isElseIfChain(t.Alt) {
					add("command:else")
				}
				walk(t.Alt)
			case *ast.ListStmt:
				add("command:list")
				if t.Tracker != nil {
					add("command:list-by")
				}
				if len(t.Alt) > 0 {
					add("command:else")
				}
				walkExprs(t.Arguments())
				walk(t.Body)
				walk(t.Alt)
			}
		}
	}

	for _, prog := range progs {
		walk(prog.Body)
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isElseIfChain(alt []ast.Stmt) bool {
	if len(alt) != 1 {
		return false
	}
	n, ok := alt[0].(*ast.IfStmt)
	return ok && n.ElseIf
}
