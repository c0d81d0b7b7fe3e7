package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ninjatrace/internal/logfile"
	"github.com/roach88/ninjatrace/internal/ninjalog"
	"github.com/roach88/ninjatrace/internal/pipeline"
)

// defaultPath is read when no path argument is given: the build directory
// ninja runs in.
const defaultPath = "."

// ReconstructOptions are the flags shared by every command that reads a log.
type ReconstructOptions struct {
	ToleranceMS   uint32
	PerInvocation bool
}

func addReconstructFlags(cmd *cobra.Command, opts *ReconstructOptions) {
	cmd.Flags().Uint32Var(&opts.ToleranceMS, "tolerance", 0, "milliseconds a record may start before the latest end without opening a new invocation")
	cmd.Flags().BoolVar(&opts.PerInvocation, "per-invocation", false, "lay out each invocation separately instead of merging them")
}

// pipelineOptions applies config values for flags the user did not set.
func (o *ReconstructOptions) pipelineOptions(cmd *cobra.Command, root *RootOptions) pipeline.Options {
	opts := pipeline.Options{
		Tolerance:     o.ToleranceMS,
		PerInvocation: o.PerInvocation,
	}
	if root.Config == nil {
		return opts
	}
	if !cmd.Flags().Changed("tolerance") {
		opts.Tolerance = root.Config.Tolerance()
	}
	if !cmd.Flags().Changed("per-invocation") {
		opts.PerInvocation = root.Config.PerInvocation
	}
	return opts
}

// reconstruct opens the log at the path argument and runs the pipeline.
// It returns the resolved log path alongside the result.
func reconstruct(root *RootOptions, args []string, opts pipeline.Options) (*pipeline.Result, string, error) {
	path := defaultPath
	if len(args) > 0 {
		path = args[0]
	}

	filename := logfileName(root)
	slog.Info("opening log", "path", path)
	rc, resolved, err := logfile.Open(path, logfile.DirResolver(filename))
	if err != nil {
		var nf *logfile.NotFoundError
		if errors.As(err, &nf) {
			return nil, "", WrapExitError(ExitCommandError, "no ninja log", err)
		}
		return nil, "", WrapExitError(ExitCommandError, "failed to open log", err)
	}
	defer rc.Close()

	res, err := pipeline.Run(rc, opts)
	if err != nil {
		return nil, resolved, classify(err)
	}
	slog.Debug("log reconstructed",
		"log", resolved,
		"records", res.Records,
		"invocations", len(res.Invocations),
		"events", len(res.Events),
	)
	return res, resolved, nil
}

func logfileName(root *RootOptions) string {
	if root.Config != nil && root.Config.LogFilename != "" {
		return root.Config.LogFilename
	}
	return ninjalog.DefaultFilename
}
