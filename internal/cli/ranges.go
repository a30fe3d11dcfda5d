package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/cruffinoni/regularfmt/internal/inspect"
	"github.com/cruffinoni/regularfmt/internal/parser"
)

func newRangesCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "ranges <file>",
		Short: "Print the fold ranges of the templates in a file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRanges(cmd.Context(), args[0], raw, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Treat the file as a bare template")
	return cmd
}

func runRanges(ctx context.Context, path string, raw bool, stdout io.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return newExitError(ExitCodeUsage, fmt.Errorf("read %q: %w", path, err))
	}

	ranges := []inspect.Range{}
	if raw {
		prog, err := parser.Parse(string(src), path, 1)
		if err != nil {
			return newExitError(ExitCodeFormatFailed, err)
		}
		ranges = append(ranges, inspect.Ranges(prog)...)
	} else {
		found, err := inspect.ScanRanges(ctx, path, src)
		if err != nil {
			return err
		}
		ranges = append(ranges, found...)
	}
	return json.NewEncoder(stdout).Encode(ranges)
}
