package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ninjatrace/internal/chrometrace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	ReconstructOptions
	Output string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [path]",
		Short: "Write a Chrome trace for a ninja log",
		Long: `Reconstruct the build timeline from a ninja log and write it as a
JSON array of Chrome trace events.

path is a .ninja_log file (optionally .lz4 compressed) or a build directory
containing one; it defaults to the current directory. Every output appears
once, taken from the most recent invocation that built it. Steps are packed
into lanes (tid) so that no two steps on a lane overlap.

Nothing is written unless the whole log reconstructs cleanly.

Examples:
  ninjatrace trace out/Release -o build.json
  ninjatrace trace .ninja_log --per-invocation
  ninjatrace trace .ninja_log.lz4 --tolerance 50`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd, args)
		},
	}

	addTraceFlags(cmd, opts)
	return cmd
}

func addTraceFlags(cmd *cobra.Command, opts *TraceOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the trace to this file instead of stdout")
	addReconstructFlags(cmd, &opts.ReconstructOptions)
}

func runTrace(opts *TraceOptions, cmd *cobra.Command, args []string) error {
	res, _, err := reconstruct(opts.RootOptions, args, opts.pipelineOptions(cmd, opts.RootOptions))
	if err != nil {
		return err
	}

	if opts.Output == "" {
		if err := chrometrace.Write(cmd.OutOrStdout(), res.Events); err != nil {
			return WrapExitError(ExitCommandError, "failed to write trace", err)
		}
		return nil
	}

	// Encode first so a failure leaves no file behind.
	data, err := chrometrace.Encode(res.Events)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode trace", err)
	}

	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write trace", err)
	}
	slog.Info("trace written", "output", opts.Output, "events", len(res.Events))
	return nil
}
