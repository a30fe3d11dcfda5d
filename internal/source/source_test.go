package source

import (
	"testing"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/stretchr/testify/require"
)

func TestReadNormalizesNewlines(t *testing.T) {
	s := New("a\r\nb\rc\nd", "t", 1)
	require.Equal(t, "a\nb\nc\nd", s.Read(7))
	require.Equal(t, 4, s.Pos().Line)
	require.Equal(t, 1, s.Pos().Column)
	require.Equal(t, 8, s.Pos().Offset)
}

func TestReadPastEndYieldsEOS(t *testing.T) {
	s := New("ab", "t", 1)
	require.Equal(t, "ab", s.Read(5))
	require.Equal(t, EOS, s.ReadChar())
	require.Equal(t, EOS, s.PeekChar())
	require.Equal(t, "", s.Peek(1))
}

func TestControlCharacterIsNotEndOfInput(t *testing.T) {
	s := New("\x03x", "t", 1)
	require.Equal(t, '\x03', s.ReadChar())
	require.Equal(t, 'x', s.ReadChar())
	require.Equal(t, EOS, s.PeekChar())
}

func TestPeekDoesNotMove(t *testing.T) {
	s := New("x\ny", "t", 10)
	require.Equal(t, "x\n", s.Peek(2))
	require.Equal(t, Position{Offset: 0, Line: 10, Column: 0}, s.Pos())
	s.Read(2)
	require.Equal(t, Position{Offset: 2, Line: 11, Column: 0}, s.Pos())
}

func TestPushRestore(t *testing.T) {
	s := New("hello", "t", 1)
	s.Read(1)
	s.PushPos()
	s.Read(3)
	require.NoError(t, s.RestorePos())
	require.Equal(t, 'e', s.PeekChar())

	err := s.RestorePos()
	require.Error(t, err)
	d, ok := diagnostics.As(err)
	require.True(t, ok)
	require.Equal(t, diagnostics.CodePosUnderflow, d.Code)
}

func TestAdvance(t *testing.T) {
	p := Advance(Position{Offset: 0, Line: 1, Column: 4}, "ab\r\ncd")
	require.Equal(t, Position{Offset: 6, Line: 2, Column: 2}, p)
}
