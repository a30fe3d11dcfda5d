// Package lint reports marked templates whose layout differs from the
// formatter's output, with the replacement that fixes each one.
package lint

import (
	"context"
	"sort"
	"strings"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/format"
	"github.com/cruffinoni/regularfmt/internal/host"
)

// MessageStyle is reported for a template that would be reformatted.
const MessageStyle = "poor style used in template"

// Finding is one problem in a host file. Fixable findings replace the byte
// range [Start, End) with Replacement.
type Finding struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement,omitempty"`
	Fixable     bool   `json:"fixable"`
}

// Check formats every marked template of src and returns a finding for each
// one that would change or that fails to parse. Unlike host.Format a broken
// template does not stop the others from being checked.
func Check(ctx context.Context, file string, src []byte, opts format.Options) ([]Finding, error) {
	regions, err := host.Scan(ctx, file, src)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, r := range regions {
		if !r.Marked {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := host.FormatRegion(file, r, opts)
		if err != nil {
			findings = append(findings, failure(file, r, err))
			continue
		}
		if out == r.Code {
			continue
		}
		findings = append(findings, Finding{
			File:        file,
			Line:        r.Line,
			Column:      r.Column,
			Message:     MessageStyle,
			Start:       r.Start,
			End:         r.End,
			Replacement: out,
			Fixable:     true,
		})
	}
	return findings, nil
}

// CheckTemplate checks a bare template file. A trailing newline is not
// counted as a difference.
func CheckTemplate(file string, src string, opts format.Options) []Finding {
	out, err := format.Format(src, file, 1, opts)
	if err != nil {
		return []Finding{failure(file, host.Region{Line: 1, End: len(src)}, err)}
	}
	if out == strings.TrimSuffix(src, "\n") {
		return nil
	}
	if strings.HasSuffix(src, "\n") {
		out += "\n"
	}
	return []Finding{{
		File:        file,
		Line:        1,
		Message:     MessageStyle,
		End:         len(src),
		Replacement: out,
		Fixable:     true,
	}}
}

func failure(file string, r host.Region, err error) Finding {
	f := Finding{
		File:    file,
		Line:    r.Line,
		Column:  r.Column,
		Message: err.Error(),
		Start:   r.Start,
		End:     r.End,
	}
	if d, ok := diagnostics.As(err); ok {
		f.Code = d.Code
		f.Message = d.Message
		f.Line, f.Column = d.Start.Line, d.Start.Column+1
	}
	return f
}

// Apply returns src with every fixable finding applied. Overlapping fixes
// keep the first one.
func Apply(src []byte, findings []Finding) string {
	fixes := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Fixable {
			fixes = append(fixes, f)
		}
	}
	sort.SliceStable(fixes, func(i, j int) bool { return fixes[i].Start < fixes[j].Start })

	var b strings.Builder
	prev := 0
	for _, f := range fixes {
		if f.Start < prev {
			continue
		}
		b.Write(src[prev:f.Start])
		b.WriteString(f.Replacement)
		prev = f.End
	}
	b.Write(src[prev:])
	return b.String()
}
