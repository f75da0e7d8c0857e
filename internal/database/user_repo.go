package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vizzRG/campusconnect01/internal/domain"
)

// UserRepo implements domain.UserRepository backed by PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a UserRepo from the shared connection pool.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	start := time.Now()
	var user domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, reputation FROM users WHERE id = $1`, userID,
	).Scan(&user.ID, &user.Reputation)
	observe("get_user", start, err)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) Ensure(ctx context.Context, userID uuid.UUID) error {
	start := time.Now()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, userID)
	observe("ensure_user", start, err)

	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (r *UserRepo) ApplyReputationDelta(ctx context.Context, userID uuid.UUID, delta int) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reputation = reputation + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, userID)
	observe("apply_reputation_delta", start, err)

	if err != nil {
		return fmt.Errorf("failed to apply reputation delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
