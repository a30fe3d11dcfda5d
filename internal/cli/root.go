package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cruffinoni/regularfmt/internal/config"
	"github.com/cruffinoni/regularfmt/internal/logging"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	verbose    bool
}

// NewRootCmd wires the subcommands and their shared flags.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "regularfmt",
		Short:         "Format regular templates, bare or embedded in JavaScript sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Configure(opts.verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default "+config.DefaultFile+" when present)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log layout decisions at debug level")

	cmd.AddCommand(
		newFmtCmd(opts),
		newCheckCmd(opts),
		newRangesCmd(),
		newReplCmd(),
	)
	return cmd
}

// bindLayoutFlags registers the flags every formatting command accepts.
func bindLayoutFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.IntVarP(&cfg.PrintWidth, "print-width", "p", cfg.PrintWidth, "Maximum line width")
	flags.IntVarP(&cfg.TabSize, "tab-size", "t", cfg.TabSize, "Spaces per indent level")
	flags.StringVar(&cfg.Glob, "glob", cfg.Glob, "Glob pattern relative to directory inputs (supports **)")
	flags.BoolVar(&cfg.Raw, "raw", cfg.Raw, "Treat inputs as bare templates instead of JavaScript sources")
	flags.IntVarP(&cfg.Jobs, "jobs", "j", cfg.Jobs, "Files processed in parallel")
}

// resolveConfig overlays the config file on cfg for every flag the user did
// not set explicitly, then takes args as input paths.
func resolveConfig(cmd *cobra.Command, opts *options, cfg *config.Config, args []string) error {
	file, found, err := config.Load(opts.configPath)
	if err != nil {
		return newExitError(ExitCodeUsage, err)
	}
	if found {
		flags := cmd.Flags()
		keep := func(name string, apply func()) {
			if !flags.Changed(name) {
				apply()
			}
		}
		keep("print-width", func() { cfg.PrintWidth = file.PrintWidth })
		keep("tab-size", func() { cfg.TabSize = file.TabSize })
		keep("glob", func() { cfg.Glob = file.Glob })
		keep("raw", func() { cfg.Raw = file.Raw })
		keep("jobs", func() { cfg.Jobs = file.Jobs })
		if flags.Lookup("write") != nil {
			keep("write", func() { cfg.Write = file.Write })
			keep("out", func() { cfg.Out = file.Out })
			keep("verify", func() { cfg.Verify = file.Verify })
			keep("report-json", func() { cfg.ReportJSON = file.ReportJSON })
			keep("report-csv", func() { cfg.ReportCSV = file.ReportCSV })
		}
		if !opts.verbose && file.Verbose {
			logging.Configure(true)
		}
	}

	cfg.Paths = args
	if len(cfg.Paths) == 0 && found {
		cfg.Paths = file.Paths
	}
	if err := cfg.Validate(); err != nil {
		return newExitError(ExitCodeUsage, fmt.Errorf("invalid configuration: %w", err))
	}
	return nil
}
