package store

import (
	"context"
	"database/sql"
	"fmt"
)

// withSequence runs write inside a transaction together with the increment
// of the shared ordering counter, so a row and the sequence number it holds
// commit or roll back as one. Sessions, turns and LLM events draw from the
// same counter and can be interleaved by sequence when read back.
func withSequence(ctx context.Context, db *sql.DB, write func(tx *sql.Tx, seq int64) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	seq, err := nextSequence(ctx, tx)
	if err != nil {
		return err
	}
	if err := write(tx, seq); err != nil {
		return err
	}
	return tx.Commit()
}

func nextSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
