package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

const sessionColumns = `id, log_path, fingerprint, recorded_at, per_invocation, records, invocations, steps, lanes, span_ms`

// ListSessions returns every session in recording order (ORDER BY id, which
// is time-sortable). Returns an empty slice (not nil) for an empty store.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// ReadSession retrieves a single session by id.
// Returns ErrSessionNotFound if it does not exist.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = ?
	`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, err
}

// ReadSteps returns the steps of a session ORDER BY seq ASC.
func (s *Store) ReadSteps(ctx context.Context, sessionID string) ([]Step, error) {
	return s.querySteps(ctx, `
		SELECT seq, pid, output, start_ms, end_ms, command_hash, invocation, lane
		FROM steps
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
}

// SlowestSteps returns up to limit steps of a session, longest first.
// Equal durations keep emission order.
func (s *Store) SlowestSteps(ctx context.Context, sessionID string, limit int) ([]Step, error) {
	return s.querySteps(ctx, `
		SELECT seq, pid, output, start_ms, end_ms, command_hash, invocation, lane
		FROM steps
		WHERE session_id = ?
		ORDER BY (end_ms - start_ms) DESC, seq ASC
		LIMIT ?
	`, sessionID, limit)
}

func (s *Store) querySteps(ctx context.Context, query string, args ...any) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []Step{}
	for rows.Next() {
		var (
			st      Step
			hashHex string
		)
		if err := rows.Scan(&st.Seq, &st.Pid, &st.Output, &st.StartMS, &st.EndMS, &hashHex, &st.Invocation, &st.Lane); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.Hash, err = strconv.ParseUint(hashHex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("scan step %d: command hash %q: %w", st.Seq, hashHex, err)
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}

	return steps, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var (
		sess       Session
		recordedAt int64
	)
	err := row.Scan(
		&sess.ID,
		&sess.LogPath,
		&sess.Fingerprint,
		&recordedAt,
		&sess.PerInvocation,
		&sess.Records,
		&sess.Invocations,
		&sess.Steps,
		&sess.Lanes,
		&sess.SpanMS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, err
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	sess.RecordedAt = time.UnixMilli(recordedAt).UTC()
	return sess, nil
}
