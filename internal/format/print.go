package format

import (
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
)

// print walks the lines from the head and greedily merges each successor
// onto the current output line while the layout flags and the width allow.
func (f *Formatter) print(l *lineList) string {
	width := f.opts.PrintWidth
	var out []string
	for i := l.head; i != none; {
		ln := l.at(i)
		text := strings.Repeat(" ", ln.Indent) + strings.TrimLeft(ln.Text, " ")
		for !ln.Steel && ln.next != none {
			next := l.at(ln.next)
			cur := runewidth.StringWidth(text)
			if cur >= width && !next.Inline {
				break
			}
			gap := gapBetween(text, ln, next)
			if !next.Inline && (next.Force || cur+len(gap)+runewidth.StringWidth(next.Text) > width) {
				break
			}
			slog.Debug("merge line", "onto", text, "next", next.Text, "inline", next.Inline)
			text += gap + next.Text
			ln = next
		}
		out = append(out, strings.TrimRight(text, " "))
		i = ln.next
	}
	return strings.Join(out, "\n")
}

// gapBetween returns the blank needed between text and the line merged
// after it: operators keep a blank on both sides.
func gapBetween(text string, prev *Line, next *Line) string {
	if strings.HasSuffix(text, " ") || strings.HasPrefix(next.Text, " ") {
		return ""
	}
	if isOp(prev.lastNode()) || isOp(next.firstNode()) {
		return " "
	}
	return ""
}
