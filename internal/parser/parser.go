package parser

import (
	"fmt"
	"strings"

	"github.com/cruffinoni/regularfmt/internal/ast"
	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/lexer"
	"github.com/cruffinoni/regularfmt/internal/source"
)

// markerKind identifies a closing or branch marker met while parsing a
// block. Markers never end up in the tree.
type markerKind int

const (
	markCloseTag markerKind = iota + 1
	markElse
	markElseIf
	markCloseIf
	markCloseList
)

type marker struct {
	kind   markerKind
	name   string
	loc    source.Loc
	elseif *ast.IfStmt
}

func (m *marker) String() string {
	switch m.kind {
	case markCloseTag:
		return "</" + m.name + ">"
	case markElse:
		return "{#else}"
	case markElseIf:
		return "{#elseif}"
	case markCloseIf:
		return "{/if}"
	case markCloseList:
		return "{/list}"
	}
	return "marker"
}

// state stores parser progress while consuming lexer tokens.
type state struct {
	lex  *lexer.Lexer
	file string
}

// Parse turns template text into a Program. startLine is the line number
// reported for the first line of code, so locations match the host file.
func Parse(code string, file string, startLine int) (*ast.Program, error) {
	src := source.New(code, file, startLine)
	s := &state{lex: lexer.New(src), file: file}
	return s.parseProgram()
}

func (s *state) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{Span: ast.At(s.lex.Source().Loc())}
	body, mark, err := s.parseBlock()
	if err != nil {
		return nil, err
	}
	if mark != nil {
		return nil, s.errAt(diagnostics.CodeUnexpectedToken, mark.loc, fmt.Sprintf("unexpected %s", mark))
	}
	prog.Body = body
	prog.Finish(s.lex.Pos())
	return prog, nil
}

// parseBlock parses statements until input ends or a marker is met. The
// marker is returned for the owner to consume.
func (s *state) parseBlock() ([]ast.Stmt, *marker, error) {
	var stmts []ast.Stmt
	for !s.lex.AheadIsEOS() {
		stmt, mark, err := s.parseStmt()
		if err != nil {
			return nil, nil, err
		}
		if mark != nil {
			return stmts, mark, nil
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil, nil
}

func (s *state) parseStmt() (ast.Stmt, *marker, error) {
	src := s.lex.Source()
	switch src.PeekChar() {
	case '<':
		tok, err := s.lex.Next(false)
		if err != nil {
			return nil, nil, err
		}
		if src.Peek(3) == "!--" {
			stmt, err := s.parseComment(tok)
			return stmt, nil, err
		}
		if s.lex.AheadIsChar('/') {
			mark, err := s.parseTagClose(tok)
			return nil, mark, err
		}
		stmt, err := s.parseTag(tok)
		return stmt, nil, err
	case '{':
		tok, err := s.lex.Next(false)
		if err != nil {
			return nil, nil, err
		}
		if s.lex.AheadIsChar('#') {
			return s.parseCommand(tok)
		}
		if s.lex.AheadIsChar('/') {
			mark, err := s.parseCommandClose(tok)
			return nil, mark, err
		}
		stmt, err := s.parseExprStmt(tok)
		return stmt, nil, err
	}
	stmt, err := s.parseText()
	return stmt, nil, err
}

func (s *state) parseText() (ast.Stmt, error) {
	tok, dollar := s.lex.NextText()
	v := tok.Value
	if dollar && s.lex.AheadIsChar('{') {
		p := tok.Loc.End
		return nil, diagnostics.New(diagnostics.CodeForbiddenInterpolate, s.file, p.Line, p.Column-1, "interpolation ${...} is forbidden in templates")
	}
	node := &ast.TextStmt{Span: ast.At(tok.Loc), Value: v}
	node.Finish(tok.Loc.End)
	return node, nil
}

func (s *state) parseComment(open lexer.Token) (ast.Stmt, error) {
	src := s.lex.Source()
	src.Read(3)
	var b strings.Builder
	for {
		if src.Peek(3) == "-->" {
			src.Read(3)
			break
		}
		c := src.ReadChar()
		if c == source.EOS {
			return nil, s.errAt(diagnostics.CodeUnclosed, open.Loc, "comment is never closed")
		}
		b.WriteRune(c)
	}
	node := &ast.CommentStmt{Span: ast.At(open.Loc), Value: b.String()}
	node.Finish(s.lex.Pos())
	return node, nil
}

func (s *state) parseName() (lexer.Token, error) {
	tok, err := s.lex.Next(true)
	if err != nil {
		return lexer.Token{}, err
	}
	switch tok.Kind {
	case lexer.TokenIdentifier, lexer.TokenName, lexer.TokenKeyword:
		return tok, nil
	}
	return lexer.Token{}, s.unexpected(tok, "a name")
}

func (s *state) parseTag(open lexer.Token) (ast.Stmt, error) {
	name, err := s.parseName()
	if err != nil {
		return nil, err
	}
	tag := &ast.TagStmt{Span: ast.At(open.Loc), Name: name.Value}
	if tag.Attrs, err = s.parseAttrs(); err != nil {
		return nil, err
	}
	if s.lex.AheadIsChar('/') {
		if _, err := s.lex.Next(false); err != nil {
			return nil, err
		}
		if _, err := s.mustSign(">"); err != nil {
			return nil, err
		}
		tag.SelfClose = true
		tag.Finish(s.lex.Pos())
		return tag, nil
	}
	if _, err := s.mustSign(">"); err != nil {
		return nil, err
	}

	body, mark, err := s.parseBlock()
	if err != nil {
		return nil, err
	}
	switch {
	case mark == nil:
		return nil, s.errAt(diagnostics.CodeUnclosed, open.Loc, fmt.Sprintf("tag <%s> is never closed", tag.Name))
	case mark.kind != markCloseTag:
		return nil, s.errAt(diagnostics.CodeUnexpectedToken, mark.loc, fmt.Sprintf("unexpected %s, expect </%s>", mark, tag.Name))
	case mark.name != tag.Name:
		return nil, s.errAt(diagnostics.CodeImbalancedTag, mark.loc, fmt.Sprintf("unexpected closing tag </%s>, expect </%s>", mark.name, tag.Name))
	}
	tag.Body = body
	tag.Finish(s.lex.Pos())
	return tag, nil
}

func (s *state) parseAttrs() ([]*ast.TagAttr, error) {
	var attrs []*ast.TagAttr
	for {
		spaces := s.lex.SkipWhitespace()
		if s.lex.AheadIsChar('>') || s.lex.AheadIsChar('/') || s.lex.AheadIsEOS() {
			return attrs, nil
		}
		if spaces == "" {
			p := s.lex.Pos()
			return nil, diagnostics.New(diagnostics.CodeAdjacentAttrs, s.file, p.Line, p.Column, "attributes must be separated by whitespace")
		}
		attr, err := s.parseAttr()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
}

func (s *state) parseAttr() (*ast.TagAttr, error) {
	name, err := s.parseName()
	if err != nil {
		return nil, err
	}
	attr := &ast.TagAttr{Span: ast.At(name.Loc), Name: name.Value}
	if !s.lex.AheadIsChar('=') {
		attr.Finish(s.lex.Pos())
		return attr, nil
	}
	if _, err := s.lex.Next(false); err != nil {
		return nil, err
	}
	s.lex.SkipWhitespace()
	switch {
	case s.lex.AheadIsChar('"') || s.lex.AheadIsChar('\''):
		attr.Value, err = s.parseAtom()
	case s.lex.AheadIsChar('{'):
		if _, err = s.lex.Next(false); err != nil {
			return nil, err
		}
		if attr.Value, err = s.parseExpr(); err != nil {
			return nil, err
		}
		_, err = s.mustSign("}")
	default:
		tok, lerr := s.lex.Next(false)
		if lerr != nil {
			return nil, lerr
		}
		err = s.unexpected(tok, "a quoted string or {expression}")
	}
	if err != nil {
		return nil, err
	}
	attr.Finish(s.lex.Pos())
	return attr, nil
}

func (s *state) parseTagClose(open lexer.Token) (*marker, error) {
	if _, err := s.lex.Next(false); err != nil {
		return nil, err
	}
	name, err := s.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := s.mustSign(">"); err != nil {
		return nil, err
	}
	return &marker{kind: markCloseTag, name: name.Value, loc: open.Loc}, nil
}

func (s *state) parseExprStmt(open lexer.Token) (ast.Stmt, error) {
	expr, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := s.mustSign("}"); err != nil {
		return nil, err
	}
	node := &ast.ExprStmt{Span: ast.At(open.Loc), Expr: expr}
	node.Finish(s.lex.Pos())
	return node, nil
}

func (s *state) parseCommand(open lexer.Token) (ast.Stmt, *marker, error) {
	if _, err := s.lex.Next(false); err != nil {
		return nil, nil, err
	}
	name, err := s.lex.Next(true)
	if err != nil {
		return nil, nil, err
	}
	if name.Kind != lexer.TokenKeyword {
		return nil, nil, s.unexpected(name, "if, elseif, else or list")
	}
	switch name.Value {
	case lexer.KeywordIf:
		node, err := s.parseIf(open, false)
		return node, nil, err
	case lexer.KeywordElseIf:
		node, err := s.parseIf(open, true)
		if err != nil {
			return nil, nil, err
		}
		return nil, &marker{kind: markElseIf, loc: open.Loc, elseif: node}, nil
	case lexer.KeywordElse:
		if _, err := s.mustSign("}"); err != nil {
			return nil, nil, err
		}
		return nil, &marker{kind: markElse, loc: open.Loc}, nil
	case lexer.KeywordList:
		node, err := s.parseList(open)
		return node, nil, err
	}
	return nil, nil, s.unexpected(name, "if, elseif, else or list")
}

func (s *state) parseCommandClose(open lexer.Token) (*marker, error) {
	if _, err := s.lex.Next(false); err != nil {
		return nil, err
	}
	name, err := s.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := s.mustSign("}"); err != nil {
		return nil, err
	}
	switch name.Value {
	case lexer.KeywordIf:
		return &marker{kind: markCloseIf, loc: open.Loc}, nil
	case lexer.KeywordList:
		return &marker{kind: markCloseList, loc: open.Loc}, nil
	}
	return nil, s.unexpected(name, "if or list")
}

// parseIf parses the chain after {#if test} or {#elseif test}. An elseif
// consumes the rest of the chain, including the final {/if}.
func (s *state) parseIf(open lexer.Token, elseif bool) (*ast.IfStmt, error) {
	test, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := s.mustSign("}"); err != nil {
		return nil, err
	}
	node := &ast.IfStmt{Span: ast.At(open.Loc), Test: test, ElseIf: elseif}
	inAlt := false
	for {
		block, mark, err := s.parseBlock()
		if err != nil {
			return nil, err
		}
		if inAlt {
			node.Alt = append(node.Alt, block...)
		} else {
			node.Cons = append(node.Cons, block...)
		}
		if mark == nil {
			return nil, s.errAt(diagnostics.CodeUnclosed, open.Loc, "{#"+node.Keyword()+"} is never closed by {/if}")
		}
		switch {
		case mark.kind == markElse && !inAlt:
			inAlt = true
			continue
		case mark.kind == markElseIf && !inAlt:
			node.Alt = []ast.Stmt{mark.elseif}
		case mark.kind == markCloseIf:
		default:
			return nil, s.errAt(diagnostics.CodeUnexpectedToken, mark.loc, fmt.Sprintf("unexpected %s inside {#%s}", mark, node.Keyword()))
		}
		node.Finish(s.lex.Pos())
		return node, nil
	}
}

func (s *state) parseList(open lexer.Token) (*ast.ListStmt, error) {
	iter, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := s.mustKeyword(lexer.KeywordAs); err != nil {
		return nil, err
	}
	item, err := s.parseIdentifier()
	if err != nil {
		return nil, err
	}
	node := &ast.ListStmt{Span: ast.At(open.Loc), Iterable: iter, Item: item}
	ahead, err := s.lex.Peek()
	if err != nil {
		return nil, err
	}
	if ahead.IsKeyword(lexer.KeywordBy) {
		if _, err := s.lex.Next(true); err != nil {
			return nil, err
		}
		if node.Tracker, err = s.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := s.mustSign("}"); err != nil {
		return nil, err
	}

	inAlt := false
	for {
		block, mark, err := s.parseBlock()
		if err != nil {
			return nil, err
		}
		if inAlt {
			node.Alt = append(node.Alt, block...)
		} else {
			node.Body = append(node.Body, block...)
		}
		if mark == nil {
			return nil, s.errAt(diagnostics.CodeUnclosed, open.Loc, "{#list} is never closed by {/list}")
		}
		switch {
		case mark.kind == markElse && !inAlt:
			inAlt = true
			continue
		case mark.kind == markCloseList:
		default:
			return nil, s.errAt(diagnostics.CodeUnexpectedToken, mark.loc, fmt.Sprintf("unexpected %s inside {#list}", mark))
		}
		node.Finish(s.lex.Pos())
		return node, nil
	}
}

// errAt builds a diagnostic spanning loc.
func (s *state) errAt(code string, loc source.Loc, msg string) error {
	return diagnostics.Diagnostic{
		Code:    code,
		Message: msg,
		File:    s.file,
		Start:   diagnostics.Point{Line: loc.Start.Line, Column: loc.Start.Column},
		End:     diagnostics.Point{Line: loc.End.Line, Column: loc.End.Column},
	}
}

// unexpected reports tok as the wrong token; want describes what the
// grammar expected at that point.
func (s *state) unexpected(tok lexer.Token, want string) error {
	if tok.IsEOS() {
		return s.errAt(diagnostics.CodeUnexpectedEOS, tok.Loc, "unexpected end of input, expecting "+want)
	}
	return s.errAt(diagnostics.CodeUnexpectedToken, tok.Loc, fmt.Sprintf("unexpected token %q, expecting %s", tok.Value, want))
}

func (s *state) mustSign(v string) (lexer.Token, error) {
	tok, err := s.lex.Next(true)
	if err != nil {
		return lexer.Token{}, err
	}
	if !tok.IsSign(v) {
		return lexer.Token{}, s.unexpected(tok, fmt.Sprintf("%q", v))
	}
	return tok, nil
}

func (s *state) mustKeyword(v string) (lexer.Token, error) {
	tok, err := s.lex.Next(true)
	if err != nil {
		return lexer.Token{}, err
	}
	if !tok.IsKeyword(v) {
		return lexer.Token{}, s.unexpected(tok, fmt.Sprintf("%q", v))
	}
	return tok, nil
}

// aheadIsSign peeks one token and reports whether it is the sign v.
func (s *state) aheadIsSign(v string) (bool, error) {
	tok, err := s.lex.Peek()
	if err != nil {
		return false, err
	}
	return tok.IsSign(v), nil
}
