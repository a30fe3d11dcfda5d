// Package verify re-checks formatter output: it must parse to the same
// structure as the input and must not change when formatted again.
package verify

import (
	"context"
	"fmt"

	"github.com/cruffinoni/regularfmt/internal/ast"
	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/format"
	"github.com/cruffinoni/regularfmt/internal/host"
	"github.com/cruffinoni/regularfmt/internal/parser"
)

func structure(code string, file string, line int) (string, error) {
	prog, err := parser.Parse(code, file, line)
	if err != nil {
		return "", err
	}
	return ast.Sexpr(prog), nil
}

func sameStructure(file string, line int, before string, after string) error {
	want, err := structure(before, file, line)
	if err != nil {
		return fmt.Errorf("parse input %q: %w", file, err)
	}
	got, err := structure(after, file, line)
	if err != nil {
		return diagnostics.New(diagnostics.CodeStructureChanged, file, line, 0, "formatted output does not parse: "+err.Error())
	}
	if got != want {
		return diagnostics.New(diagnostics.CodeStructureChanged, file, line, 0,
			fmt.Sprintf("formatted output changes the template structure: %s became %s", want, got))
	}
	return nil
}

// Template checks the output of formatting a bare template.
func Template(file string, before string, after string, opts format.Options) error {
	if err := sameStructure(file, 1, before, after); err != nil {
		return err
	}
	again, err := format.Format(after, file, 1, opts)
	if err != nil {
		return fmt.Errorf("reformat %q: %w", file, err)
	}
	if again != after {
		return diagnostics.New(diagnostics.CodeNotIdempotent, file, 1, 0, "formatting the output again changes it")
	}
	return nil
}

// Host checks the output of formatting the marked templates of a host file.
// Templates are paired in source order.
func Host(ctx context.Context, file string, before []byte, after []byte, opts format.Options) error {
	was, err := marked(ctx, file, before)
	if err != nil {
		return err
	}
	now, err := marked(ctx, file, after)
	if err != nil {
		return err
	}
	if len(was) != len(now) {
		return diagnostics.New(diagnostics.CodeStructureChanged, file, 0, 0,
			fmt.Sprintf("formatted file has %d marked templates, input had %d", len(now), len(was)))
	}
	for i := range was {
		if err := sameStructure(file, was[i].Line, was[i].Code, now[i].Code); err != nil {
			return err
		}
	}

	res, err := host.Format(ctx, file, after, opts)
	if err != nil {
		return fmt.Errorf("reformat %q: %w", file, err)
	}
	if res.Changed {
		return diagnostics.New(diagnostics.CodeNotIdempotent, file, 0, 0, "formatting the output again changes it")
	}
	return nil
}

func marked(ctx context.Context, file string, src []byte) ([]host.Region, error) {
	regions, err := host.Scan(ctx, file, src)
	if err != nil {
		return nil, err
	}
	out := regions[:0]
	for _, r := range regions {
		if r.Marked {
			out = append(out, r)
		}
	}
	return out, nil
}
