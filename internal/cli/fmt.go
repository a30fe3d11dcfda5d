package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cruffinoni/regularfmt/internal/config"
	"github.com/cruffinoni/regularfmt/internal/format"
	"github.com/cruffinoni/regularfmt/internal/fswalk"
	"github.com/cruffinoni/regularfmt/internal/host"
	"github.com/cruffinoni/regularfmt/internal/inspect"
	"github.com/cruffinoni/regularfmt/internal/parser"
	"github.com/cruffinoni/regularfmt/internal/report"
	"github.com/cruffinoni/regularfmt/internal/verify"
)

func newFmtCmd(opts *options) *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format marked templates in JavaScript sources, or bare templates with --raw",
		Long: "Format every template literal that starts with <!-- @regular --> in the given files and directories.\n" +
			"A single input without --write or --out is printed to stdout; otherwise the files that changed are listed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, opts, &cfg, args); err != nil {
				return err
			}
			return runFormat(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	bindLayoutFlags(cmd.Flags(), &cfg)
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", cfg.Write, "Rewrite input files in place")
	cmd.Flags().StringVar(&cfg.Out, "out", cfg.Out, "Mirror formatted files under this directory")
	cmd.Flags().BoolVar(&cfg.Verify, "verify", cfg.Verify, "Re-parse and re-format the output to check it is stable")
	cmd.Flags().StringVar(&cfg.ReportJSON, "report-json", "", "Optional JSON report output path")
	cmd.Flags().StringVar(&cfg.ReportCSV, "report-csv", "", "Optional CSV report output path")

	return cmd
}

// discover expands the configured paths into source files.
func discover(cfg config.Config) ([]fswalk.SourceFile, error) {
	glob := cfg.Glob
	if cfg.Raw && glob == fswalk.DefaultPattern {
		glob = fswalk.RawPattern
	}
	var files []fswalk.SourceFile
	for _, p := range cfg.Paths {
		found, err := fswalk.DiscoverSources(p, glob)
		if err != nil {
			return nil, newExitError(ExitCodeUsage, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, newExitError(ExitCodeUsage, fmt.Errorf("no source files matched %q under %s", glob, strings.Join(cfg.Paths, ", ")))
	}
	return files, nil
}

func writeReports(cfg config.Config, summary report.Summary, files []report.FileItem) error {
	if cfg.ReportJSON != "" {
		if err := report.WriteJSON(cfg.ReportJSON, report.NewJSONReport(summary, files)); err != nil {
			return err
		}
	}
	if cfg.ReportCSV != "" {
		if err := report.WriteCSV(cfg.ReportCSV, files); err != nil {
			return err
		}
	}
	return nil
}

type fileResult struct {
	item      report.FileItem
	content   string
	changed   bool
	parseErr  error
	verifyErr error
}

func runFormat(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	files, err := discover(cfg)
	if err != nil {
		return err
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, f := range files {
		g.Go(func() error {
			res, err := formatFile(gctx, cfg, f)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var (
		formatted    int
		unchanged    int
		parseFailed  int
		verifyFailed int

		features  = map[string]struct{}{}
		fileItems = make([]report.FileItem, 0, len(files))
	)
	toStdout := !cfg.Write && cfg.Out == "" && len(files) == 1
	for _, res := range results {
		fileItems = append(fileItems, res.item)
		for _, feat := range res.item.FeaturesDetected {
			features[feat] = struct{}{}
		}
		switch {
		case res.parseErr != nil:
			parseFailed++
			continue
		case res.verifyErr != nil:
			verifyFailed++
			continue
		case res.changed:
			formatted++
		default:
			unchanged++
		}
		if toStdout {
			if _, err := io.WriteString(stdout, res.content); err != nil {
				return err
			}
		} else if res.changed && !cfg.Write && cfg.Out == "" {
			fmt.Fprintln(stdout, res.item.File)
		}
	}

	featureList := make([]string, 0, len(features))
	for feat := range features {
		featureList = append(featureList, feat)
	}
	sort.Strings(featureList)

	slog.Info(
		"format summary",
		"discovered",
		len(files),
		"formatted",
		formatted,
		"unchanged",
		unchanged,
		"parse_failed",
		parseFailed,
		"verify_failed",
		verifyFailed,
	)

	summary := report.Summary{
		Discovered:   len(files),
		Formatted:    formatted,
		Unchanged:    unchanged,
		ParseFailed:  parseFailed,
		VerifyFailed: verifyFailed,
		Features:     featureList,
	}
	if err := writeReports(cfg, summary, fileItems); err != nil {
		return fmt.Errorf("write report artifacts: %w", err)
	}
	if cfg.ReportJSON != "" || cfg.ReportCSV != "" {
		slog.Info("reports written", "json", cfg.ReportJSON, "csv", cfg.ReportCSV)
	}

	if parseFailed > 0 {
		return newExitError(ExitCodeFormatFailed, fmt.Errorf("formatting finished with %d failed files", parseFailed))
	}
	if verifyFailed > 0 {
		return newExitError(ExitCodeCheckFailed, fmt.Errorf("verification failed on %d files", verifyFailed))
	}
	return nil
}

// formatFile formats one input and writes it out when the configuration
// asks for it. Only I/O and cancellation are returned as errors; template
// problems are recorded on the result.
func formatFile(ctx context.Context, cfg config.Config, f fswalk.SourceFile) (fileResult, error) {
	raw, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return fileResult{}, fmt.Errorf("read %q: %w", f.AbsPath, err)
	}
	name := f.AbsPath
	src := string(raw)
	opts := cfg.FormatOptions()
	res := fileResult{item: report.FileItem{File: name}}

	var verifyOutput func() error
	if cfg.Raw {
		out, err := format.Format(src, name, 1, opts)
		if err != nil {
			return res.failParse(err), nil
		}
		if strings.HasSuffix(src, "\n") {
			out += "\n"
		}
		res.content = out
		res.item.Regions = 1
		if prog, err := parser.Parse(src, name, 1); err == nil {
			res.item.FeaturesDetected = inspect.Features(prog)
		}
		verifyOutput = func() error { return verify.Template(name, src, strings.TrimSuffix(out, "\n"), opts) }
	} else {
		hr, err := host.Format(ctx, name, raw, opts)
		if err != nil {
			if ctx.Err() != nil {
				return fileResult{}, ctx.Err()
			}
			return res.failParse(err), nil
		}
		res.content = hr.Content
		res.item.Regions = hr.Regions
		if feats, err := inspect.ScanFeatures(ctx, name, raw); err == nil {
			res.item.FeaturesDetected = feats
		}
		verifyOutput = func() error { return verify.Host(ctx, name, raw, []byte(hr.Content), opts) }
	}
	res.changed = res.content != src

	if cfg.Verify {
		if err := verifyOutput(); err != nil {
			res.verifyErr = err
			res.item.Status = report.StatusVerifyError
			res.item.Diagnostics = []report.DiagnosticItem{report.ToDiagnosticItem(name, err)}
			slog.Warn("verification failed", "file", name, "error", err)
			return res, nil
		}
		res.item.Verified = true
	}

	res.item.Status = report.StatusUnchanged
	if res.changed {
		res.item.Status = report.StatusFormatted
	}

	switch {
	case cfg.Write && res.changed:
		if err := os.WriteFile(f.AbsPath, []byte(res.content), 0o644); err != nil {
			return fileResult{}, fmt.Errorf("write formatted file %q: %w", f.AbsPath, err)
		}
	case cfg.Out != "":
		outPath := fswalk.MirrorOutputPath(cfg.Out, f.RelPath, "")
		res.item.OutputPath = outPath
		if !res.changed {
			if err := fswalk.CopyFile(f.AbsPath, outPath); err != nil {
				return fileResult{}, fmt.Errorf("copy %q: %w", outPath, err)
			}
			break
		}
		if err := fswalk.EnsureParentDir(outPath); err != nil {
			return fileResult{}, fmt.Errorf("prepare output path %q: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, []byte(res.content), 0o644); err != nil {
			return fileResult{}, fmt.Errorf("write formatted file %q: %w", outPath, err)
		}
	}
	slog.Debug("formatted file", "file", name, "regions", res.item.Regions, "changed", res.changed)
	return res, nil
}

func (r fileResult) failParse(err error) fileResult {
	r.parseErr = err
	r.item.Status = report.StatusParseError
	r.item.Diagnostics = []report.DiagnosticItem{report.ToDiagnosticItem(r.item.File, err)}
	slog.Warn("format failed", "file", r.item.File, "error", err)
	return r
}
