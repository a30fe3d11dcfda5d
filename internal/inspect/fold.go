// Package inspect reads template structure for editors and reports: fold
// ranges and the set of language features a template uses.
package inspect

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cruffinoni/regularfmt/internal/ast"
	"github.com/cruffinoni/regularfmt/internal/host"
	"github.com/cruffinoni/regularfmt/internal/parser"
	"github.com/cruffinoni/regularfmt/internal/source"
)

// Range is a foldable span of lines, start and end inclusive.
type Range [2]int

// ScanRanges returns the fold ranges of every marked template in a host
// source, in host lines. Templates that fail to parse are skipped.
func ScanRanges(ctx context.Context, file string, src []byte) ([]Range, error) {
	regions, err := host.Scan(ctx, file, src)
	if err != nil {
		return nil, err
	}
	var out []Range
	for _, r := range regions {
		if !r.Marked {
			continue
		}
		prog, err := parser.Parse(r.Code, file, r.Line)
		if err != nil {
			slog.Debug("skip template in fold scan", "file", file, "line", r.Line, "error", err)
			continue
		}
		out = append(out, Ranges(prog)...)
	}
	return out, nil
}

// ScanFeatures returns the features used by the marked templates of a host
// source. Templates that fail to parse are skipped.
func ScanFeatures(ctx context.Context, file string, src []byte) ([]string, error) {
	regions, err := host.Scan(ctx, file, src)
	if err != nil {
		return nil, err
	}
	var progs []*ast.Program
	for _, r := range regions {
		if !r.Marked {
			continue
		}
		prog, err := parser.Parse(r.Code, file, r.Line)
		if err != nil {
			continue
		}
		progs = append(progs, prog)
	}
	return Features(progs...), nil
}

// Ranges lists the multi-line constructs of prog ordered by start line.
func Ranges(prog *ast.Program) []Range {
	f := &folder{}
	ast.VisitStmt[struct{}](f, prog)
	sort.SliceStable(f.ranges, func(i, j int) bool { return f.ranges[i][0] < f.ranges[j][0] })
	return f.ranges
}

type folder struct {
	ranges []Range
}

var _ ast.StmtVisitor[struct{}] = (*folder)(nil)

func (f *folder) add(start source.Position, end source.Position) {
	if end.Line > start.Line {
		f.ranges = append(f.ranges, Range{start.Line, end.Line})
	}
}

func (f *folder) node(n ast.Node) {
	loc := n.Loc()
	f.add(loc.Start, loc.End)
}

func (f *folder) VisitProgram(n *ast.Program) struct{} {
	return f.VisitStmts(n.Body)
}

func (f *folder) VisitStmts(stmts []ast.Stmt) struct{} {
	for _, s := range stmts {
		ast.VisitStmt[struct{}](f, s)
	}
	return struct{}{}
}

// VisitTag folds the attribute list and, for a tag with a body, the whole
// element.
func (f *folder) VisitTag(n *ast.TagStmt) struct{} {
	if len(n.Attrs) > 0 {
		f.add(n.Attrs[0].Loc().Start, n.Attrs[len(n.Attrs)-1].Loc().End)
	}
	if !n.SelfClose {
		f.node(n)
	}
	return f.VisitStmts(n.Body)
}

func (f *folder) VisitIf(n *ast.IfStmt) struct{} {
	f.node(n)
	f.VisitStmts(n.Cons)
	return f.VisitStmts(n.Alt)
}

func (f *folder) VisitList(n *ast.ListStmt) struct{} {
	f.node(n)
	f.VisitStmts(n.Body)
	return f.VisitStmts(n.Alt)
}

func (f *folder) VisitText(*ast.TextStmt) struct{} { return struct{}{} }

func (f *folder) VisitComment(n *ast.CommentStmt) struct{} {
	f.node(n)
	return struct{}{}
}

func (f *folder) VisitExprStmt(n *ast.ExprStmt) struct{} {
	f.node(n)
	return struct{}{}
}
