package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cruffinoni/regularfmt/internal/config"
	"github.com/cruffinoni/regularfmt/internal/lint"
)

func newCheckCmd(opts *options) *cobra.Command {
	cfg := config.Default()
	var fix bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report templates that are not formatted",
		Long:  "Exit with code 3 when a marked template would be reformatted and 2 when one fails to parse.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, opts, &cfg, args); err != nil {
				return err
			}
			return runCheck(cmd.Context(), cfg, fix, cmd.OutOrStdout())
		},
	}

	bindLayoutFlags(cmd.Flags(), &cfg)
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply the fixable findings in place")
	return cmd
}

func runCheck(ctx context.Context, cfg config.Config, fix bool, stdout io.Writer) error {
	files, err := discover(cfg)
	if err != nil {
		return err
	}

	results := make([][]lint.Finding, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, f := range files {
		g.Go(func() error {
			raw, err := os.ReadFile(f.AbsPath)
			if err != nil {
				return fmt.Errorf("read %q: %w", f.AbsPath, err)
			}
			var findings []lint.Finding
			if cfg.Raw {
				findings = lint.CheckTemplate(f.AbsPath, string(raw), cfg.FormatOptions())
			} else if findings, err = lint.Check(gctx, f.AbsPath, raw, cfg.FormatOptions()); err != nil {
				return err
			}
			if fix && hasFixable(findings) {
				if err := os.WriteFile(f.AbsPath, []byte(lint.Apply(raw, findings)), 0o644); err != nil {
					return fmt.Errorf("write fixed file %q: %w", f.AbsPath, err)
				}
			}
			results[i] = findings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var unformatted, failed int
	for _, findings := range results {
		var style, broken bool
		for _, fd := range findings {
			if fd.Fixable {
				style = true
				if fix {
					continue
				}
			} else {
				broken = true
			}
			msg := fd.Message
			if fd.Code != "" {
				msg = fmt.Sprintf("%s [%s]", msg, fd.Code)
			}
			fmt.Fprintf(stdout, "%s:%d:%d: %s\n", fd.File, fd.Line, fd.Column, msg)
		}
		if style {
			unformatted++
		}
		if broken {
			failed++
		}
	}

	slog.Info("check summary", "checked", len(files), "unformatted", unformatted, "failed", failed, "fixed", fix)

	if failed > 0 {
		return newExitError(ExitCodeFormatFailed, fmt.Errorf("%d files have templates that do not parse", failed))
	}
	if unformatted > 0 && !fix {
		return newExitError(ExitCodeCheckFailed, fmt.Errorf("%d files need formatting", unformatted))
	}
	return nil
}

func hasFixable(findings []lint.Finding) bool {
	for _, fd := range findings {
		if fd.Fixable {
			return true
		}
	}
	return false
}
