package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/ninjatrace/internal/report"
	"github.com/roach88/ninjatrace/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Session  string
	Top      int
}

// SessionSteps is the JSON payload of history --session.
type SessionSteps struct {
	Session store.Session `json:"session"`
	Steps   []store.Step  `json:"steps"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions",
		Long: `List the sessions in a history database, oldest first, or with
--session show the slowest steps of one session.

Examples:
  ninjatrace history --db builds.db
  ninjatrace history --db builds.db --session 0192f0c4-... --top 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "show the steps of this session")
	cmd.Flags().IntVar(&opts.Top, "top", report.DefaultTop, "number of slowest steps to show with --session (0 for all)")
	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDatabase(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.Session == "" {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if opts.Format == "json" {
			return f.Success(sessions)
		}
		report.WriteSessions(cmd.OutOrStdout(), sessions, opts.Now())
		return nil
	}

	sess, err := st.ReadSession(ctx, opts.Session)
	if errors.Is(err, store.ErrSessionNotFound) {
		return WrapExitError(ExitCommandError, "unknown session", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	limit := resolveTop(cmd, opts.RootOptions, opts.Top)
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	steps, err := st.SlowestSteps(ctx, sess.ID, limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read steps", err)
	}

	if opts.Format == "json" {
		return f.Success(SessionSteps{Session: sess, Steps: steps})
	}
	report.WriteSteps(cmd.OutOrStdout(), sess, steps)
	return nil
}
