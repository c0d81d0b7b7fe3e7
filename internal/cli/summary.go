package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ninjatrace/internal/report"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	ReconstructOptions
	Top int
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary [path]",
		Short: "Print build statistics for a ninja log",
		Long: `Reconstruct a ninja log and print invocation, step and lane counts,
the wall-clock span, total step time, average parallelism and the slowest
steps.

Examples:
  ninjatrace summary out/Release
  ninjatrace summary .ninja_log --top 25
  ninjatrace summary .ninja_log --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, cmd, args)
		},
	}

	cmd.Flags().IntVar(&opts.Top, "top", report.DefaultTop, "number of slowest steps to list")
	addReconstructFlags(cmd, &opts.ReconstructOptions)
	return cmd
}

func runSummary(opts *SummaryOptions, cmd *cobra.Command, args []string) error {
	res, _, err := reconstruct(opts.RootOptions, args, opts.pipelineOptions(cmd, opts.RootOptions))
	if err != nil {
		return err
	}

	top := resolveTop(cmd, opts.RootOptions, opts.Top)
	if top < 0 {
		return NewExitError(ExitCommandError, "--top must not be negative")
	}
	summary := report.Summarize(res, top)

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.Success(summary)
	}

	report.WriteSummary(cmd.OutOrStdout(), summary)
	return nil
}

// resolveTop applies the configured top unless --top was given.
func resolveTop(cmd *cobra.Command, root *RootOptions, flagValue int) int {
	if cmd.Flags().Changed("top") || root.Config == nil {
		return flagValue
	}
	return root.Config.Top
}
