package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/ninjatrace/internal/config"
	"github.com/roach88/ninjatrace/internal/store"
)

// RootOptions holds global flags and the state shared by all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is loaded before any command runs.
	Config *config.Config

	// Now and IDs are swapped out in tests.
	Now func() time.Time
	IDs store.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ninjatrace CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		Now: time.Now,
		IDs: store.UUIDv7Generator{},
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	traceOpts := &TraceOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "ninjatrace [path]",
		Short: "Turn ninja build logs into Chrome traces",
		Long: `Reconstruct build timelines from a .ninja_log and emit them as
Chrome trace events, viewable in chrome://tracing or Perfetto.

Given no subcommand, ninjatrace behaves like "ninjatrace trace".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return classify(err)
			}
			opts.Config = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(traceOpts, cmd, args)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ninjatrace.yaml in . or the user config dir)")
	addTraceFlags(cmd, traceOpts)

	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(w, &tint.Options{
		NoColor:    !isTerminal(w),
		TimeFormat: time.TimeOnly,
		Level:      level,
	})
	slog.SetDefault(slog.New(handler))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Main runs the CLI with args and returns the process exit code. Errors are
// printed once to stderr; with --format json they are also reported on
// stdout as a CLIResponse.
func Main(args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{
		Now: time.Now,
		IDs: store.UUIDv7Generator{},
	}
	return execute(newRootCommand(opts), opts, args, stdout, stderr)
}

func execute(cmd *cobra.Command, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	if opts.Format == "json" {
		f := &OutputFormatter{Format: "json", Writer: stdout}
		_ = f.Error(errorCode(code), err.Error(), nil)
	}
	PrintError(stderr, err)
	return code
}
