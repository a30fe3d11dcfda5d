package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/cruffinoni/regularfmt/internal/diagnostics"
	"github.com/cruffinoni/regularfmt/internal/format"
	"github.com/cruffinoni/regularfmt/internal/parser"
)

const (
	historyFile = ".regularfmt_history"
	promptMain  = "rgl> "
	promptCont  = "...> "
	replName    = "<repl>"
)

// prompter is the part of a line editor the REPL needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newReplCmd() *cobra.Command {
	opts := format.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Format template snippets interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			home, _ := os.UserHomeDir()
			histPath := filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()

			runRepl(ln, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.PrintWidth, "print-width", "p", opts.PrintWidth, "Maximum line width")
	cmd.Flags().IntVarP(&opts.IndentWidth, "tab-size", "t", opts.IndentWidth, "Spaces per indent level")
	return cmd
}

// runRepl reads snippets until EOF or :quit and prints each one formatted.
// ":width N" changes the print width for the following snippets.
func runRepl(ln prompter, stdout io.Writer, stderr io.Writer, opts format.Options) {
	for {
		code, ok := readSnippet(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if quit := replCommand(trimmed, &opts, stdout, stderr); quit {
				return
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		out, err := format.Format(code, replName, 1, opts)
		if err != nil {
			fmt.Fprintln(stderr, err)
			continue
		}
		fmt.Fprintln(stdout, out)
	}
}

func replCommand(cmd string, opts *format.Options, stdout io.Writer, stderr io.Writer) (quit bool) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":width":
		if len(fields) != 2 {
			fmt.Fprintln(stderr, "usage: :width N")
			return false
		}
		w, err := strconv.Atoi(fields[1])
		if err != nil || w <= 0 {
			fmt.Fprintf(stderr, "invalid width %q\n", fields[1])
			return false
		}
		opts.PrintWidth = w
		fmt.Fprintf(stdout, "print width set to %d\n", w)
	default:
		fmt.Fprintln(stderr, "unknown command. Type :width N or :quit.")
	}
	return false
}

// readSnippet keeps prompting while the accumulated input is an incomplete
// template, so a tag or command can span several lines.
func readSnippet(ln prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.Parse(src, replName, 1); err != nil && diagnostics.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
