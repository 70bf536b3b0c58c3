package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// TurnLog implements TurnRepo on the sessions and turns tables.
type TurnLog struct {
	db *sql.DB
}

var _ TurnRepo = (*TurnLog)(nil)

// CreateSession registers a session. Creating an existing id is a no-op and
// keeps the original user and start time.
func (r *TurnLog) CreateSession(ctx context.Context, id, user string, startedAt time.Time) error {
	return withSequence(ctx, r.db, func(tx *sql.Tx, seq int64) error {
		return ensureSession(ctx, tx, id, user, startedAt, seq)
	})
}

// AppendTurn stores a finalized turn, creating its session on first use.
func (r *TurnLog) AppendTurn(ctx context.Context, turn TurnRecord) error {
	created := turn.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return withSequence(ctx, r.db, func(tx *sql.Tx, seq int64) error {
		if err := ensureSession(ctx, tx, turn.SessionID, "", created, seq); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO turns
			(sequence, session_id, question_id, question_text, answer, clarity, structure,
			 relevance, total, clarified, evaluation, feedback, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seq, turn.SessionID, turn.QuestionID, turn.QuestionText, turn.Answer,
			turn.Clarity, turn.Structure, turn.Relevance, turn.Total, turn.Clarified,
			jsonText(turn.Evaluation), jsonText(turn.Feedback), created.UTC(),
		)
		if err != nil {
			return fmt.Errorf("save turn: %w", err)
		}
		return nil
	})
}

// ensureSession inserts the session row unless it exists. A session created
// implicitly by its first turn shares that turn's sequence number.
func ensureSession(ctx context.Context, tx *sql.Tx, id, user string, startedAt time.Time, seq int64) error {
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, user_name, sequence, started_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, user, seq, startedAt.UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *TurnLog) ListTurns(ctx context.Context, sessionID string) ([]TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, session_id, question_id,
		question_text, answer, clarity, structure, relevance, total, clarified,
		evaluation, feedback, created_at
		FROM turns WHERE session_id = ? ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var (
			t              TurnRecord
			eval, feedback string
		)
		if err := rows.Scan(&t.ID, &t.Sequence, &t.SessionID, &t.QuestionID,
			&t.QuestionText, &t.Answer, &t.Clarity, &t.Structure, &t.Relevance,
			&t.Total, &t.Clarified, &eval, &feedback, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Evaluation = json.RawMessage(eval)
		t.Feedback = json.RawMessage(feedback)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (r *TurnLog) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	q := `SELECT s.id, s.user_name, s.started_at, COUNT(t.id), COALESCE(AVG(t.total), 0)
		FROM sessions s LEFT JOIN turns t ON t.session_id = s.id
		GROUP BY s.id ORDER BY s.sequence DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var s SessionRecord
		if err := rows.Scan(&s.ID, &s.User, &s.StartedAt, &s.Turns, &s.AverageTotal); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
