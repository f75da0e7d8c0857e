package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vizzRG/campusconnect01/internal/domain"
)

// loadVoteSets reads the vote rows for one entity into the two membership
// sets. table is "question_votes" or "answer_votes", idColumn the matching
// foreign key column.
func loadVoteSets(ctx context.Context, pool queryer, table, idColumn string, id uuid.UUID) (up, down map[uuid.UUID]struct{}, err error) {
	up = make(map[uuid.UUID]struct{})
	down = make(map[uuid.UUID]struct{})

	query := fmt.Sprintf(`SELECT voter_id, direction FROM %s WHERE %s = $1`, table, idColumn)
	rows, err := pool.Query(ctx, query, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load vote sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var voterID uuid.UUID
		var direction string
		if err := rows.Scan(&voterID, &direction); err != nil {
			return nil, nil, fmt.Errorf("failed to scan vote row: %w", err)
		}
		switch direction {
		case string(domain.DirectionUp):
			up[voterID] = struct{}{}
		case string(domain.DirectionDown):
			down[voterID] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read vote rows: %w", err)
	}

	return up, down, nil
}

// rewriteVoterRow makes the stored vote row for voterID match the in-memory
// vote sets: delete whatever was there, re-insert if the voter is still a
// member of either set.
func rewriteVoterRow(ctx context.Context, tx pgx.Tx, table, idColumn string, id uuid.UUID, voterID uuid.UUID, v *domain.Votable) error {
	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND voter_id = $2`, table, idColumn)
	if _, err := tx.Exec(ctx, del, id, voterID); err != nil {
		return fmt.Errorf("failed to clear vote row: %w", err)
	}

	var direction domain.Direction
	switch {
	case v.HasUpvoted(voterID):
		direction = domain.DirectionUp
	case v.HasDownvoted(voterID):
		direction = domain.DirectionDown
	default:
		return nil // toggled off
	}

	ins := fmt.Sprintf(`INSERT INTO %s (%s, voter_id, direction) VALUES ($1, $2, $3)`, table, idColumn)
	if _, err := tx.Exec(ctx, ins, id, voterID, string(direction)); err != nil {
		return fmt.Errorf("failed to insert vote row: %w", err)
	}
	return nil
}

// applyDeltaTx applies a reputation delta inside an open transaction.
func applyDeltaTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET reputation = reputation + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to apply reputation delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ensureUserTx creates the user row if missing, inside an open transaction.
func ensureUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// queryer is the subset of pgxpool.Pool/pgx.Tx used by the shared helpers.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
