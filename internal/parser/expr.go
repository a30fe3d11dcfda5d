package parser

import (
	"github.com/cruffinoni/regularfmt/internal/ast"
	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/lexer"
	"github.com/cruffinoni/regularfmt/internal/source"
)

// ParseExpr parses a standalone expression such as the body of {...}.
func ParseExpr(code string, file string) (ast.Expr, error) {
	s := &state{lex: lexer.New(source.New(code, file, 1)), file: file}
	expr, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	tok, err := s.lex.Next(true)
	if err != nil {
		return nil, err
	}
	if !tok.IsEOS() {
		return nil, s.unexpected(tok, "end of expression")
	}
	return expr, nil
}

// parseExpr is the lowest precedence level: pipes.
func (s *state) parseExpr() (ast.Expr, error) {
	expr, err := s.parseTernary()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := s.aheadIsSign("|")
		if err != nil {
			return nil, err
		}
		if !ok {
			return expr, nil
		}
		if _, err := s.lex.Next(true); err != nil {
			return nil, err
		}
		name, err := s.lex.Next(true)
		if err != nil {
			return nil, err
		}
		if name.Kind != lexer.TokenIdentifier {
			return nil, s.unexpected(name, "a filter name")
		}
		pipe := &ast.PipeExpr{Span: ast.At(expr.Loc()), Expr: expr, Name: name.Value}
		hasArgs, err := s.aheadIsSign(":")
		if err != nil {
			return nil, err
		}
		if hasArgs {
			if _, err := s.lex.Next(true); err != nil {
				return nil, err
			}
			for {
				arg, err := s.parseTernary()
				if err != nil {
					return nil, err
				}
				pipe.Args = append(pipe.Args, arg)
				more, err := s.aheadIsSign(",")
				if err != nil {
					return nil, err
				}
				if !more {
					break
				}
				if _, err := s.lex.Next(true); err != nil {
					return nil, err
				}
			}
		}
		pipe.Finish(s.lex.Pos())
		expr = pipe
	}
}

func (s *state) parseTernary() (ast.Expr, error) {
	test, err := s.parseBinary(nil, 0)
	if err != nil {
		return nil, err
	}
	ok, err := s.aheadIsSign("?")
	if err != nil || !ok {
		return test, err
	}
	if _, err := s.lex.Next(true); err != nil {
		return nil, err
	}
	cons, err := s.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := s.mustSign(":"); err != nil {
		return nil, err
	}
	alt, err := s.parseTernary()
	if err != nil {
		return nil, err
	}
	node := &ast.TernaryExpr{Span: ast.At(test.Loc()), Test: test, Cons: cons, Alt: alt}
	node.Finish(s.lex.Pos())
	return node, nil
}

// parseBinary is precedence climbing: operators of at least minPrec are
// folded left, and a strictly tighter operator on the right recurses with
// its own precedence as the new threshold.
func (s *state) parseBinary(left ast.Expr, minPrec int) (ast.Expr, error) {
	var err error
	if left == nil {
		if left, err = s.parseAtom(); err != nil {
			return nil, err
		}
	}
	ahead, err := s.lex.Peek()
	if err != nil {
		return nil, err
	}
	for ahead.IsBinary() && ahead.Precedence() >= minPrec {
		op, err := s.lex.Next(true)
		if err != nil {
			return nil, err
		}
		rhs, err := s.parseAtom()
		if err != nil {
			return nil, err
		}
		if ahead, err = s.lex.Peek(); err != nil {
			return nil, err
		}
		for (ahead.IsBinary() && ahead.Precedence() > op.Precedence()) || ahead.RightAssoc() {
			if rhs, err = s.parseBinary(rhs, ahead.Precedence()); err != nil {
				return nil, err
			}
			if ahead, err = s.lex.Peek(); err != nil {
				return nil, err
			}
		}
		bin := &ast.BinaryExpr{Span: ast.At(left.Loc()), Op: op, Left: left, Right: rhs}
		bin.Finish(s.lex.Pos())
		left = bin
	}
	return left, nil
}

func (s *state) parseAtom() (ast.Expr, error) {
	tok, err := s.lex.Next(true)
	if err != nil {
		return nil, err
	}
	span := ast.At(tok.Loc)
	span.Finish(tok.Loc.End)
	switch tok.Kind {
	case lexer.TokenString:
		if err := s.forbidInterpolation(tok); err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Span: span, Value: tok.Value, Quote: tok.Quote}, nil
	case lexer.TokenNumber:
		return &ast.NumberLiteral{Span: span, Value: tok.Value}, nil
	case lexer.TokenBool:
		return &ast.BooleanLiteral{Span: span, Value: tok.Value}, nil
	case lexer.TokenNull:
		return &ast.NullLiteral{Span: span}, nil
	case lexer.TokenUndefined:
		return &ast.UndefinedLiteral{Span: span}, nil
	case lexer.TokenIdentifier:
		return s.parsePostfix(&ast.Identifier{Span: span, Name: tok.Value})
	case lexer.TokenSign:
		switch tok.Value {
		case "(":
			return s.parseParen(tok)
		case "-", "!":
			return s.parseUnary(tok)
		case "@":
			return s.parseOnce(tok)
		case "{":
			return s.parseObject(tok)
		case "[":
			return s.parseArray(tok)
		}
	}
	return nil, s.unexpected(tok, "an expression")
}

// parsePostfix applies the call, member and computed member chain that may
// follow an identifier.
func (s *state) parsePostfix(node ast.Expr) (ast.Expr, error) {
	for {
		ahead, err := s.lex.Peek()
		if err != nil {
			return nil, err
		}
		switch {
		case ahead.IsSign("("):
			if _, err := s.lex.Next(true); err != nil {
				return nil, err
			}
			call := &ast.CallExpr{Span: ast.At(node.Loc()), Callee: node}
			if call.Args, err = s.parseSeq(")"); err != nil {
				return nil, err
			}
			call.Finish(s.lex.Pos())
			node = call
		case ahead.IsSign("."):
			if _, err := s.lex.Next(true); err != nil {
				return nil, err
			}
			prop, err := s.parseProperty()
			if err != nil {
				return nil, err
			}
			member := &ast.MemberExpr{Span: ast.At(node.Loc()), Object: node, Property: prop}
			member.Finish(s.lex.Pos())
			node = member
		case ahead.IsSign("["):
			if _, err := s.lex.Next(true); err != nil {
				return nil, err
			}
			prop, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := s.mustSign("]"); err != nil {
				return nil, err
			}
			member := &ast.MemberExpr{Span: ast.At(node.Loc()), Object: node, Property: prop, Computed: true}
			member.Finish(s.lex.Pos())
			node = member
		default:
			return node, nil
		}
	}
}

// parseProperty reads the name after a dot. Keywords are valid property
// names there (item.list, opts.if).
func (s *state) parseProperty() (*ast.Identifier, error) {
	tok, err := s.lex.Next(true)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.TokenIdentifier, lexer.TokenKeyword:
	default:
		return nil, s.unexpected(tok, "a property name")
	}
	id := &ast.Identifier{Span: ast.At(tok.Loc), Name: tok.Value}
	id.Finish(tok.Loc.End)
	return id, nil
}

func (s *state) parseIdentifier() (*ast.Identifier, error) {
	tok, err := s.lex.Next(true)
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.TokenIdentifier {
		return nil, s.unexpected(tok, "an identifier")
	}
	id := &ast.Identifier{Span: ast.At(tok.Loc), Name: tok.Value}
	id.Finish(tok.Loc.End)
	return id, nil
}

// parseSeq parses comma separated expressions up to and including the
// closing sign. A trailing comma is accepted.
func (s *state) parseSeq(closing string) ([]ast.Expr, error) {
	var items []ast.Expr
	err := s.eachItem(closing, func() error {
		item, err := s.parseExpr()
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (s *state) eachItem(closing string, item func() error) error {
	for {
		done, err := s.aheadIsSign(closing)
		if err != nil {
			return err
		}
		if done {
			_, err := s.lex.Next(true)
			return err
		}
		if err := item(); err != nil {
			return err
		}
		more, err := s.aheadIsSign(",")
		if err != nil {
			return err
		}
		if !more {
			_, err := s.mustSign(closing)
			return err
		}
		if _, err := s.lex.Next(true); err != nil {
			return err
		}
	}
}

func (s *state) parseParen(open lexer.Token) (ast.Expr, error) {
	exprs, err := s.parseSeq(")")
	if err != nil {
		return nil, err
	}
	node := &ast.ParenExpr{Span: ast.At(open.Loc), Exprs: exprs}
	node.Finish(s.lex.Pos())
	return node, nil
}

func (s *state) parseArray(open lexer.Token) (ast.Expr, error) {
	elems, err := s.parseSeq("]")
	if err != nil {
		return nil, err
	}
	node := &ast.ArrayExpr{Span: ast.At(open.Loc), Elements: elems}
	node.Finish(s.lex.Pos())
	return node, nil
}

func (s *state) parseObject(open lexer.Token) (ast.Expr, error) {
	node := &ast.ObjectExpr{Span: ast.At(open.Loc)}
	err := s.eachItem("}", func() error {
		prop, err := s.parseObjectProperty()
		if err != nil {
			return err
		}
		node.Properties = append(node.Properties, prop)
		return nil
	})
	if err != nil {
		return nil, err
	}
	node.Finish(s.lex.Pos())
	return node, nil
}

func (s *state) parseObjectProperty() (*ast.Property, error) {
	tok, err := s.lex.Next(true)
	if err != nil {
		return nil, err
	}
	keySpan := ast.At(tok.Loc)
	keySpan.Finish(tok.Loc.End)
	var key ast.Expr
	switch tok.Kind {
	case lexer.TokenIdentifier:
		key = &ast.Identifier{Span: keySpan, Name: tok.Value}
	case lexer.TokenString:
		if err := s.forbidInterpolation(tok); err != nil {
			return nil, err
		}
		key = &ast.StringLiteral{Span: keySpan, Value: tok.Value, Quote: tok.Quote}
	default:
		return nil, s.unexpected(tok, "a property key")
	}
	if _, err := s.mustSign(":"); err != nil {
		return nil, err
	}
	value, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	prop := &ast.Property{Span: ast.At(tok.Loc), Key: key, Value: value}
	prop.Finish(s.lex.Pos())
	return prop, nil
}

// parseUnary binds the operator to the following atom only, so -a + b is
// (-a) + b.
func (s *state) parseUnary(op lexer.Token) (ast.Expr, error) {
	arg, err := s.parseAtom()
	if err != nil {
		return nil, err
	}
	node := &ast.UnaryExpr{Span: ast.At(op.Loc), Op: op, Arg: arg}
	node.Finish(s.lex.Pos())
	return node, nil
}

func (s *state) parseOnce(at lexer.Token) (ast.Expr, error) {
	if _, err := s.mustSign("("); err != nil {
		return nil, err
	}
	expr, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := s.mustSign(")"); err != nil {
		return nil, err
	}
	node := &ast.OnceExpr{Span: ast.At(at.Loc), Expr: expr}
	node.Finish(s.lex.Pos())
	return node, nil
}

// forbidInterpolation rejects ${ inside a string literal unless the dollar
// is escaped. The error points at the dollar sign.
func (s *state) forbidInterpolation(tok lexer.Token) error {
	v := tok.Value
	for i := 0; i+1 < len(v); i++ {
		if v[i] == '\\' {
			i++
			continue
		}
		if v[i] == '$' && v[i+1] == '{' {
			start := source.Advance(tok.Loc.Start, string(tok.Quote)+v[:i])
			return diagnostics.New(diagnostics.CodeForbiddenInterpolate, s.file, start.Line, start.Column, "interpolation ${...} is forbidden in templates")
		}
	}
	return nil
}
