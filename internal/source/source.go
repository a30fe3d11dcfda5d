// Package source provides a cursor over template text with newline
// normalization and a position stack for lookahead.
package source

import (
	"strings"
	"unicode/utf8"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
)

// EOS is returned by PeekChar and ReadChar once the cursor has consumed all
// input. It is not a valid rune, so no input character can be mistaken for it.
const EOS rune = -1

// Position is an immutable snapshot of the cursor: byte offset of the next
// unread character, 1-based line and 0-based column.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Loc is the source range covered by a token or node.
type Loc struct {
	Source string
	Start  Position
	End    Position
}

// Source reads logical characters out of a template string. CR, CRLF and LF
// all read as a single '\n'.
type Source struct {
	code  string
	file  string
	off   int
	line  int
	col   int
	stack []Position
}

// New creates a cursor positioned before the first character of code.
// startLine is the line number reported for the first line.
func New(code string, file string, startLine int) *Source {
	if startLine < 1 {
		startLine = 1
	}
	return &Source{
		code: code,
		file: file,
		line: startLine,
	}
}

// File returns the source name used in locations.
func (s *Source) File() string {
	return s.file
}

// Pos returns the current cursor position.
func (s *Source) Pos() Position {
	return Position{Offset: s.off, Line: s.line, Column: s.col}
}

// Loc returns a location starting (and ending) at the current position.
func (s *Source) Loc() Loc {
	p := s.Pos()
	return Loc{Source: s.file, Start: p, End: p}
}

// Read consumes up to n logical characters. The result is shorter than n
// when the input runs out.
func (s *Source) Read(n int) string {
	return s.scan(n, true)
}

// Peek returns what Read(n) would return without moving the cursor.
func (s *Source) Peek(n int) string {
	return s.scan(n, false)
}

// PeekChar returns the next logical character, or EOS at the end.
func (s *Source) PeekChar() rune {
	return s.char(false)
}

// ReadChar consumes and returns the next logical character, or EOS at the end.
func (s *Source) ReadChar() rune {
	return s.char(true)
}

func (s *Source) char(commit bool) rune {
	if s.off >= len(s.code) {
		return EOS
	}
	r, _ := utf8.DecodeRuneInString(s.scan(1, commit))
	return r
}

func (s *Source) scan(n int, commit bool) string {
	var b strings.Builder
	off, line, col := s.off, s.line, s.col
	for ; n > 0; n-- {
		if off >= len(s.code) {
			break
		}
		r, size := utf8.DecodeRuneInString(s.code[off:])
		off += size
		if r == '\r' || r == '\n' {
			if r == '\r' && off < len(s.code) && s.code[off] == '\n' {
				off++
			}
			line++
			col = 0
			r = '\n'
		} else {
			col++
		}
		b.WriteRune(r)
	}
	if commit {
		s.off, s.line, s.col = off, line, col
	}
	return b.String()
}

// PushPos saves the current position for a later RestorePos.
func (s *Source) PushPos() {
	s.stack = append(s.stack, s.Pos())
}

// RestorePos rewinds the cursor to the most recently pushed position.
func (s *Source) RestorePos() error {
	if len(s.stack) == 0 {
		return diagnostics.New(diagnostics.CodePosUnderflow, s.file, s.line, s.col, "unbalanced popping of position stack")
	}
	p := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.off, s.line, s.col = p.Offset, p.Line, p.Column
	return nil
}

// Advance returns the position reached after walking text from p, counting
// newlines the same way Read does.
func Advance(p Position, text string) Position {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		p.Offset += size
		if r == '\r' || r == '\n' {
			if r == '\r' && i < len(text) && text[i] == '\n' {
				i++
				p.Offset++
			}
			p.Line++
			p.Column = 0
			continue
		}
		p.Column++
	}
	return p
}
