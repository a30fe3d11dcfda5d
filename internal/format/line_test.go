package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruffinoni/regularfmt/internal/ast"
)

func texts(l *lineList) []string {
	var out []string
	for _, ln := range l.Lines() {
		out = append(out, ln.Text)
	}
	return out
}

func TestLineListSplice(t *testing.T) {
	l := newLineList([]*Line{{Text: "a"}, {Text: "b"}, {Text: "c"}})
	require.Equal(t, []string{"a", "b", "c"}, texts(l))

	ids := l.splice(1, []*Line{{Text: "b1"}, {Text: "b2"}})
	require.Equal(t, []int{3, 4}, ids)
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, texts(l))

	l.splice(0, []*Line{{Text: "z"}})
	assert.Equal(t, []string{"z", "b1", "b2", "c"}, texts(l))
	assert.Equal(t, 5, l.head)

	l.splice(2, []*Line{{Text: "c1"}})
	assert.Equal(t, []string{"z", "b1", "b2", "c1"}, texts(l))
	assert.Equal(t, []int{5, 3, 4, 6}, l.ids())
}

func TestLineListEmpty(t *testing.T) {
	l := newLineList(nil)
	assert.Equal(t, none, l.head)
	assert.Empty(t, l.Lines())
}

func TestLineWidth(t *testing.T) {
	ln := &Line{Text: "日本", Indent: 2}
	assert.Equal(t, 6, ln.Width())
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, "", collapse(" \n\t "))
	assert.Equal(t, "a b", collapse("a   b"))
	assert.Equal(t, " a b ", collapse("\n  a\n b  "))
}

func TestGapBetween(t *testing.T) {
	op := &Line{Text: "a +", Nodes: []ast.Node{sign{text: "a"}, sign{text: "+", op: true}}}
	plain := &Line{Text: "b", Nodes: []ast.Node{sign{text: "b"}}}
	assert.Equal(t, " ", gapBetween("a +", op, plain))
	assert.Equal(t, "", gapBetween("b", plain, plain))
	assert.Equal(t, "", gapBetween("a ", plain, op))
}
