package format

import (
	"github.com/mattn/go-runewidth"

	"github.com/cruffinoni/regularfmt/internal/ast"
	"github.com/cruffinoni/regularfmt/internal/source"
)

const none = -1

// Line is one unit of layout: rendered text, the nodes it was built from,
// its indent and the flags that steer shrinking and reflow.
type Line struct {
	Text   string
	Nodes  []ast.Node
	Indent int
	// Force starts a new output line; nothing merges it onto its predecessor.
	Force bool
	// Steel forbids merging any following line onto this one.
	Steel bool
	// Inline always merges onto the predecessor, whatever the width.
	Inline bool
	// Fine marks a line that needs no further shrinking.
	Fine bool

	prev int
	next int
}

// Width is the display width of the line once indented.
func (l *Line) Width() int {
	return l.Indent + runewidth.StringWidth(l.Text)
}

func (l *Line) firstNode() ast.Node {
	if len(l.Nodes) == 0 {
		return nil
	}
	return l.Nodes[0]
}

func (l *Line) lastNode() ast.Node {
	if len(l.Nodes) == 0 {
		return nil
	}
	return l.Nodes[len(l.Nodes)-1]
}

// sign is a literal piece of output text inside a line's node list.
type sign struct {
	text string
	// op marks operator tokens; reflow keeps a blank around them.
	op bool
}

func (sign) Loc() source.Loc { return source.Loc{} }

func isOp(n ast.Node) bool {
	s, ok := n.(sign)
	return ok && s.op
}

// lineList is an index addressed doubly linked sequence of lines. Splicing
// appends the replacement records and relinks around the replaced one.
type lineList struct {
	lines []*Line
	head  int
}

func newLineList(seq []*Line) *lineList {
	l := &lineList{head: none}
	l.lines = make([]*Line, 0, len(seq))
	l.appendChain(none, none, seq)
	if len(seq) > 0 {
		l.head = 0
	}
	return l
}

// appendChain stores seq and links it between prev and next, returning the
// indices of the stored lines.
func (l *lineList) appendChain(prev int, next int, seq []*Line) []int {
	ids := make([]int, len(seq))
	for i, ln := range seq {
		ids[i] = len(l.lines)
		l.lines = append(l.lines, ln)
	}
	for i, id := range ids {
		ln := l.lines[id]
		ln.prev, ln.next = prev, next
		if i > 0 {
			ln.prev = ids[i-1]
		}
		if i < len(ids)-1 {
			ln.next = ids[i+1]
		}
	}
	return ids
}

func (l *lineList) at(i int) *Line {
	return l.lines[i]
}

// splice replaces the line at i with repl.
func (l *lineList) splice(i int, repl []*Line) []int {
	old := l.lines[i]
	ids := l.appendChain(old.prev, old.next, repl)
	if len(ids) == 0 {
		return nil
	}
	first, last := ids[0], ids[len(ids)-1]
	if old.prev == none {
		l.head = first
	} else {
		l.lines[old.prev].next = first
	}
	if old.next != none {
		l.lines[old.next].prev = last
	}
	old.prev, old.next = none, none
	return ids
}

// ids returns the indices of the linked lines in order.
func (l *lineList) ids() []int {
	var out []int
	for i := l.head; i != none; i = l.lines[i].next {
		out = append(out, i)
	}
	return out
}

// Lines returns the linked lines in order.
func (l *lineList) Lines() []*Line {
	var out []*Line
	for i := l.head; i != none; i = l.lines[i].next {
		out = append(out, l.lines[i])
	}
	return out
}
