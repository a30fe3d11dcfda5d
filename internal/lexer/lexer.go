package lexer

import (
	"fmt"
	"strings"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/source"
)

// Lexer turns source characters into tokens. The parser picks the mode per
// call: Next for tags and expressions, NextText for free text.
type Lexer struct {
	src *source.Source
}

// New builds a lexer over src.
func New(src *source.Source) *Lexer {
	return &Lexer{src: src}
}

// Source exposes the underlying cursor.
func (l *Lexer) Source() *source.Source {
	return l.src
}

// Pos returns the current cursor position.
func (l *Lexer) Pos() source.Position {
	return l.src.Pos()
}

// Next reads one token in tag/expression mode.
func (l *Lexer) Next(skipWhitespace bool) (Token, error) {
	if skipWhitespace {
		l.SkipWhitespace()
	}
	c := l.src.PeekChar()
	switch {
	case c == source.EOS:
		return l.fin(Token{Kind: TokenEOS, Loc: l.src.Loc()}), nil
	case isIDStart(c):
		return l.readID(), nil
	case isDigit(c):
		return l.readNumber()
	case c == '"' || c == '\'':
		return l.readString()
	}
	return l.readSign()
}

// Peek returns the next skip-whitespace token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	l.src.PushPos()
	tok, err := l.Next(true)
	if rerr := l.src.RestorePos(); rerr != nil {
		return Token{}, rerr
	}
	return tok, err
}

// AheadIsChar reports whether the next raw character is c.
func (l *Lexer) AheadIsChar(c rune) bool {
	return l.src.PeekChar() == c
}

// AheadIsEOS reports whether input is exhausted.
func (l *Lexer) AheadIsEOS() bool {
	return l.src.PeekChar() == source.EOS
}

// SkipWhitespace consumes blanks, tabs and newlines and returns them.
func (l *Lexer) SkipWhitespace() string {
	var b strings.Builder
	for isWhitespace(l.src.PeekChar()) {
		b.WriteRune(l.src.ReadChar())
	}
	return b.String()
}

// NextText reads free text up to the next '<' or unescaped '{'. A backslash
// keeps the following character verbatim. dollar reports whether the last
// unit read is an unescaped '$'.
func (l *Lexer) NextText() (tok Token, dollar bool) {
	tok = Token{Kind: TokenText, Loc: l.src.Loc()}
	var b strings.Builder
	for {
		c := l.src.PeekChar()
		if c == source.EOS || c == '<' || c == '{' {
			break
		}
		if c == '\\' {
			b.WriteString(l.src.Read(2))
			dollar = false
			continue
		}
		b.WriteRune(l.src.ReadChar())
		dollar = c == '$'
	}
	tok.Value = b.String()
	return l.fin(tok), dollar
}

func (l *Lexer) fin(tok Token) Token {
	tok.Loc.End = l.src.Pos()
	return tok
}

func (l *Lexer) readID() Token {
	tok := Token{Loc: l.src.Loc()}
	var b strings.Builder
	isName := false
	for {
		c := l.src.PeekChar()
		if isIDPart(c) {
			b.WriteRune(l.src.ReadChar())
			continue
		}
		if c == '-' {
			b.WriteRune(l.src.ReadChar())
			isName = true
			continue
		}
		break
	}
	tok.Value = b.String()
	switch {
	case isName:
		tok.Kind = TokenName
	case IsKeyword(tok.Value):
		tok.Kind = TokenKeyword
	case tok.Value == "true" || tok.Value == "false":
		tok.Kind = TokenBool
	case tok.Value == "null":
		tok.Kind = TokenNull
	case tok.Value == "undefined":
		tok.Kind = TokenUndefined
	default:
		tok.Kind = TokenIdentifier
	}
	return l.fin(tok)
}

func (l *Lexer) readDigits(pred func(rune) bool) string {
	var b strings.Builder
	for pred(l.src.PeekChar()) {
		b.WriteRune(l.src.ReadChar())
	}
	return b.String()
}

func (l *Lexer) readNumber() (Token, error) {
	tok := Token{Kind: TokenNumber, Loc: l.src.Loc()}
	if p := l.src.Peek(2); p == "0x" || p == "0X" {
		prefix := l.src.Read(2)
		ds := l.readDigits(isHexDigit)
		if ds == "" {
			return Token{}, l.errHere(diagnostics.CodeBadNumber, "hexadecimal literal requires at least one digit")
		}
		tok.Value = prefix + ds
		return l.fin(tok), nil
	}

	var b strings.Builder
	first := l.src.ReadChar()
	b.WriteRune(first)
	if first != '0' {
		b.WriteString(l.readDigits(isDigit))
	}
	if l.AheadIsChar('.') {
		b.WriteRune(l.src.ReadChar())
		b.WriteString(l.readDigits(isDigit))
	}
	if c := l.src.PeekChar(); c == 'e' || c == 'E' {
		b.WriteRune(l.src.ReadChar())
		if s := l.src.PeekChar(); s == '+' || s == '-' {
			b.WriteRune(l.src.ReadChar())
		}
		ds := l.readDigits(isDigit)
		if ds == "" {
			return Token{}, l.errHere(diagnostics.CodeBadNumber, "incomplete exponent")
		}
		b.WriteString(ds)
	}
	tok.Value = b.String()
	return l.fin(tok), nil
}

func (l *Lexer) readString() (Token, error) {
	tok := Token{Kind: TokenString, Loc: l.src.Loc()}
	term := l.src.ReadChar()
	tok.Quote = term
	var b strings.Builder
	for {
		c := l.src.PeekChar()
		switch c {
		case source.EOS:
			return Token{}, diagnostics.New(diagnostics.CodeUnterminatedString, l.src.File(), tok.Loc.Start.Line, tok.Loc.Start.Column, "unterminated string literal")
		case term:
			l.src.ReadChar()
			tok.Value = b.String()
			return l.fin(tok), nil
		case '\\':
			seq, err := l.readEscape()
			if err != nil {
				return Token{}, err
			}
			b.WriteString(seq)
		default:
			b.WriteRune(l.src.ReadChar())
		}
	}
}

// readEscape validates one escape sequence and returns it verbatim.
func (l *Lexer) readEscape() (string, error) {
	var b strings.Builder
	b.WriteRune(l.src.ReadChar())
	c := l.src.ReadChar()
	b.WriteRune(c)
	digits := 0
	switch {
	case c == 'x':
		digits = 2
	case c == 'u':
		digits = 4
	default:
		if _, ok := singleEscapes[c]; !ok {
			return "", l.errHere(diagnostics.CodeBadEscape, fmt.Sprintf("invalid escape sequence \\%s", printable(c)))
		}
	}
	for i := 0; i < digits; i++ {
		h := l.src.ReadChar()
		if !isHexDigit(h) {
			return "", l.errHere(diagnostics.CodeBadEscape, fmt.Sprintf("invalid hexadecimal digit %s in escape", printable(h)))
		}
		b.WriteRune(h)
	}
	return b.String(), nil
}

func (l *Lexer) readSign() (Token, error) {
	tok := Token{Kind: TokenSign, Loc: l.src.Loc()}
	c := l.src.PeekChar()
	switch c {
	case '<', '>', '!':
		l.src.ReadChar()
		tok.Value = string(c)
		if l.AheadIsChar('=') {
			tok.Value += string(l.src.ReadChar())
		}
	case '=':
		l.src.ReadChar()
		tok.Value = "="
		if l.AheadIsChar('=') {
			tok.Value += string(l.src.ReadChar())
			if l.AheadIsChar('=') {
				tok.Value += string(l.src.ReadChar())
			}
		}
	case '|':
		l.src.ReadChar()
		tok.Value = "|"
		if l.AheadIsChar('|') {
			tok.Value += string(l.src.ReadChar())
		}
	case '&':
		l.src.ReadChar()
		if !l.AheadIsChar('&') {
			return Token{}, l.errHere(diagnostics.CodeUnexpectedChar, "unexpected char &, expecting &&")
		}
		l.src.ReadChar()
		tok.Value = "&&"
	case '+', '-', '*', '%', '/', '(', ')', '{', '}', '[', ']', '?', ':', ',', '.', '#', '@':
		l.src.ReadChar()
		tok.Value = string(c)
	default:
		return Token{}, l.errHere(diagnostics.CodeUnexpectedChar, fmt.Sprintf("unexpected char %s", printable(c)))
	}
	return l.fin(tok), nil
}

func (l *Lexer) errHere(code string, msg string) error {
	p := l.src.Pos()
	return diagnostics.New(code, l.src.File(), p.Line, p.Column, msg)
}

func printable(c rune) string {
	if c == source.EOS {
		return "<end of input>"
	}
	return fmt.Sprintf("%q", c)
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\n' || c == '\t'
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIDStart(c rune) bool {
	return isLetter(c) || c == '_' || c == '$'
}

func isIDPart(c rune) bool {
	return isIDStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
