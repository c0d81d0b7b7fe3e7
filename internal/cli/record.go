package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ninjatrace/internal/store"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	ReconstructOptions
	Database string
}

// RecordResult is the JSON payload of the record command.
type RecordResult struct {
	SessionID   string `json:"session_id"`
	Inserted    bool   `json:"inserted"`
	Fingerprint string `json:"fingerprint"`
	LogPath     string `json:"log_path"`
	Steps       int    `json:"steps"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record [path]",
		Short: "Store a reconstructed timeline in the history database",
		Long: `Reconstruct a ninja log and save it as a session in a SQLite
history database.

Sessions are identified by the content of their timeline: recording the
same log again reports the existing session and writes nothing.

Examples:
  ninjatrace record out/Release --db builds.db
  NINJATRACE_DATABASE=builds.db ninjatrace record .`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	addReconstructFlags(cmd, &opts.ReconstructOptions)
	return cmd
}

func runRecord(opts *RecordOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dbPath, err := resolveDatabase(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}

	pOpts := opts.pipelineOptions(cmd, opts.RootOptions)
	res, logPath, err := reconstruct(opts.RootOptions, args, pOpts)
	if err != nil {
		return err
	}

	rec, err := store.NewRecording(logPath, opts.Now(), pOpts.PerInvocation, res)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint timeline", err)
	}

	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	id, inserted, err := st.WriteSession(ctx, opts.IDs, rec)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record session", err)
	}
	slog.Info("session recorded", "session", id, "inserted", inserted, "steps", rec.Session.Steps)

	result := RecordResult{
		SessionID:   id,
		Inserted:    inserted,
		Fingerprint: rec.Session.Fingerprint,
		LogPath:     logPath,
		Steps:       rec.Session.Steps,
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.Success(result)
	}

	if inserted {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded session %s (%d steps)\n", id, result.Steps)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Already recorded as session %s\n", id)
	}
	return nil
}

// resolveDatabase picks --db, falling back to the configured database.
func resolveDatabase(root *RootOptions, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if root.Config != nil && root.Config.Database != "" {
		return root.Config.Database, nil
	}
	return "", NewExitError(ExitCommandError, "no database: pass --db or set database in the config")
}
