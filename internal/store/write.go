package store

import (
	"context"
	"fmt"
)

// WriteSession stores rec under a freshly generated id.
//
// Uses ON CONFLICT(fingerprint) DO NOTHING for idempotency: when an identical
// timeline was recorded before, nothing is written and the existing session's
// id is returned with inserted=false. The session row and its steps are
// written in one transaction.
func (s *Store) WriteSession(ctx context.Context, ids IDGenerator, rec Recording) (id string, inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write session: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	sess := rec.Session
	sess.ID = ids.Generate()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO sessions
		(id, log_path, fingerprint, recorded_at, per_invocation, records, invocations, steps, lanes, span_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`,
		sess.ID,
		sess.LogPath,
		sess.Fingerprint,
		sess.RecordedAt.UnixMilli(),
		sess.PerInvocation,
		sess.Records,
		sess.Invocations,
		sess.Steps,
		sess.Lanes,
		sess.SpanMS,
	)
	if err != nil {
		return "", false, fmt.Errorf("write session: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write session: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM sessions WHERE fingerprint = ?
		`, sess.Fingerprint).Scan(&id)
		if err != nil {
			return "", false, fmt.Errorf("write session: select existing: %w", err)
		}
		return id, false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps
		(session_id, seq, pid, output, start_ms, end_ms, command_hash, invocation, lane)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", false, fmt.Errorf("write session: prepare steps: %w", err)
	}
	defer stmt.Close()

	for _, st := range rec.Steps {
		_, err := stmt.ExecContext(ctx,
			sess.ID,
			st.Seq,
			st.Pid,
			st.Output,
			st.StartMS,
			st.EndMS,
			hashHex(st.Hash),
			st.Invocation,
			st.Lane,
		)
		if err != nil {
			return "", false, fmt.Errorf("write session: step %d: %w", st.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write session: commit: %w", err)
	}

	return sess.ID, true, nil
}
