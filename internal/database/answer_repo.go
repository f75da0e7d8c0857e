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

const answerColumns = `id, question_id, author_id, body, is_accepted, version, created_at, updated_at`

// AnswerRepo implements domain.AnswerRepository backed by PostgreSQL.
type AnswerRepo struct {
	pool *pgxpool.Pool
}

// NewAnswerRepo creates an AnswerRepo from the shared connection pool.
func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

func scanAnswer(row pgx.Row) (*domain.Answer, error) {
	var a domain.Answer
	err := row.Scan(
		&a.ID, &a.QuestionID, &a.AuthorID, &a.Body,
		&a.IsAccepted, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnswerRepo) Create(ctx context.Context, a *domain.Answer) error {
	start := time.Now()
	err := r.create(ctx, a)
	observe("create_answer", start, err)
	return err
}

func (r *AnswerRepo) create(ctx context.Context, a *domain.Answer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := ensureUserTx(ctx, tx, a.AuthorID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE questions SET answer_count = answer_count + 1, updated_at = NOW() WHERE id = $1
	`, a.QuestionID)
	if err != nil {
		return fmt.Errorf("failed to increment answer count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO answers (question_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, version, created_at, updated_at
	`, a.QuestionID, a.AuthorID, a.Body).Scan(&a.ID, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}

	// Posting an answer earns the author a small grant.
	if err := applyDeltaTx(ctx, tx, a.AuthorID, domain.AnswerPostedWorth); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *AnswerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	start := time.Now()
	a, err := r.getByID(ctx, id)
	observe("get_answer", start, err)
	return a, err
}

func (r *AnswerRepo) getByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	a, err := scanAnswer(r.pool.QueryRow(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnswerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}

	a.Upvoters, a.Downvoters, err = loadVoteSets(ctx, r.pool, "answer_votes", "answer_id", id)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	start := time.Now()
	answers, err := r.listByQuestion(ctx, questionID)
	observe("list_answers", start, err)
	return answers, err
}

func (r *AnswerRepo) listByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE question_id = $1 ORDER BY created_at`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []*domain.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	for _, a := range answers {
		a.Upvoters, a.Downvoters, err = loadVoteSets(ctx, r.pool, "answer_votes", "answer_id", a.ID)
		if err != nil {
			return nil, err
		}
	}
	return answers, nil
}

func (r *AnswerRepo) CommitVoteTransition(ctx context.Context, a *domain.Answer, voterID uuid.UUID, authorDelta int) error {
	start := time.Now()
	err := r.commitVoteTransition(ctx, a, voterID, authorDelta)
	observe("commit_answer_vote", start, err)
	return err
}

func (r *AnswerRepo) commitVoteTransition(ctx context.Context, a *domain.Answer, voterID uuid.UUID, authorDelta int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := bumpVersion(ctx, tx, "answers", a.ID, a.Version); err != nil {
		return err
	}
	if err := rewriteVoterRow(ctx, tx, "answer_votes", "answer_id", a.ID, voterID, &a.Votable); err != nil {
		return err
	}
	if err := applyDeltaTx(ctx, tx, a.AuthorID, authorDelta); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	a.Version++
	return nil
}

func (r *AnswerRepo) Delete(ctx context.Context, a *domain.Answer, deltas map[uuid.UUID]int) error {
	start := time.Now()
	err := r.delete(ctx, a, deltas)
	observe("delete_answer", start, err)
	return err
}

func (r *AnswerRepo) delete(ctx context.Context, a *domain.Answer, deltas map[uuid.UUID]int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx,
		`DELETE FROM answers WHERE id = $1 AND version = $2`, a.ID, a.Version)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, lookupErr := r.getByID(ctx, a.ID); errors.Is(lookupErr, domain.ErrAnswerNotFound) {
			return domain.ErrAnswerNotFound
		}
		return domain.ErrConcurrencyConflict
	}

	// An accepted answer takes the question's pointer with it.
	if a.IsAccepted {
		_, err = tx.Exec(ctx, `
			UPDATE questions SET accepted_answer_id = NULL, updated_at = NOW() WHERE id = $1
		`, a.QuestionID)
		if err != nil {
			return fmt.Errorf("failed to clear acceptance pointer: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE questions SET answer_count = answer_count - 1, updated_at = NOW() WHERE id = $1
	`, a.QuestionID)
	if err != nil {
		return fmt.Errorf("failed to decrement answer count: %w", err)
	}

	for userID, delta := range deltas {
		if err := applyDeltaTx(ctx, tx, userID, delta); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
