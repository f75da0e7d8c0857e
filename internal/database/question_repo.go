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

const questionColumns = `id, author_id, title, body, COALESCE(accepted_answer_id, '00000000-0000-0000-0000-000000000000'::uuid), answer_count, version, created_at, updated_at`

// QuestionRepo implements domain.QuestionRepository backed by PostgreSQL.
type QuestionRepo struct {
	pool *pgxpool.Pool
}

// NewQuestionRepo creates a QuestionRepo from the shared connection pool.
func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	err := row.Scan(
		&q.ID, &q.AuthorID, &q.Title, &q.Body,
		&q.AcceptedAnswerID, &q.AnswerCount, &q.Version,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepo) Create(ctx context.Context, q *domain.Question) error {
	start := time.Now()
	err := r.create(ctx, q)
	observe("create_question", start, err)
	return err
}

func (r *QuestionRepo) create(ctx context.Context, q *domain.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := ensureUserTx(ctx, tx, q.AuthorID); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO questions (author_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, version, created_at, updated_at
	`, q.AuthorID, q.Title, q.Body).Scan(&q.ID, &q.Version, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	start := time.Now()
	q, err := r.getByID(ctx, id)
	observe("get_question", start, err)
	return q, err
}

func (r *QuestionRepo) getByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	q.Upvoters, q.Downvoters, err = loadVoteSets(ctx, r.pool, "question_votes", "question_id", id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepo) CommitVoteTransition(ctx context.Context, q *domain.Question, voterID uuid.UUID, authorDelta int) error {
	start := time.Now()
	err := r.commitVoteTransition(ctx, q, voterID, authorDelta)
	observe("commit_question_vote", start, err)
	return err
}

func (r *QuestionRepo) commitVoteTransition(ctx context.Context, q *domain.Question, voterID uuid.UUID, authorDelta int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := bumpVersion(ctx, tx, "questions", q.ID, q.Version); err != nil {
		return err
	}
	if err := rewriteVoterRow(ctx, tx, "question_votes", "question_id", q.ID, voterID, &q.Votable); err != nil {
		return err
	}
	if err := applyDeltaTx(ctx, tx, q.AuthorID, authorDelta); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	q.Version++
	return nil
}

func (r *QuestionRepo) CommitAcceptance(ctx context.Context, q *domain.Question, accepted *domain.Answer, res domain.AcceptanceResult) error {
	start := time.Now()
	err := r.commitAcceptance(ctx, q, accepted, res)
	observe("commit_acceptance", start, err)
	return err
}

func (r *QuestionRepo) commitAcceptance(ctx context.Context, q *domain.Question, accepted *domain.Answer, res domain.AcceptanceResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := bumpVersion(ctx, tx, "questions", q.ID, q.Version); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE questions SET accepted_answer_id = $1, updated_at = NOW() WHERE id = $2
	`, accepted.ID, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update acceptance pointer: %w", err)
	}

	if res.PreviousAnswerID != uuid.Nil {
		_, err = tx.Exec(ctx, `
			UPDATE answers SET is_accepted = FALSE, updated_at = NOW() WHERE id = $1
		`, res.PreviousAnswerID)
		if err != nil {
			return fmt.Errorf("failed to clear previous acceptance: %w", err)
		}
		if err := applyDeltaTx(ctx, tx, res.PreviousAuthorID, res.PreviousAuthorDelta); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE answers SET is_accepted = TRUE, updated_at = NOW() WHERE id = $1
	`, accepted.ID)
	if err != nil {
		return fmt.Errorf("failed to set acceptance: %w", err)
	}
	if err := applyDeltaTx(ctx, tx, accepted.AuthorID, res.AcceptedAuthorDelta); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	q.Version++
	return nil
}

func (r *QuestionRepo) Delete(ctx context.Context, q *domain.Question, answers []*domain.Answer, deltas map[uuid.UUID]int) error {
	start := time.Now()
	err := r.delete(ctx, q, answers, deltas)
	observe("delete_question", start, err)
	return err
}

func (r *QuestionRepo) delete(ctx context.Context, q *domain.Question, answers []*domain.Answer, deltas map[uuid.UUID]int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// Version-guarded deletes: a concurrent vote commit on the question or
	// any answer would invalidate the computed reversal deltas.
	for _, a := range answers {
		tag, err := tx.Exec(ctx,
			`DELETE FROM answers WHERE id = $1 AND version = $2`, a.ID, a.Version)
		if err != nil {
			return fmt.Errorf("failed to delete answer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConcurrencyConflict
		}
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM questions WHERE id = $1 AND version = $2`, q.ID, q.Version)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, lookupErr := r.getByID(ctx, q.ID); errors.Is(lookupErr, domain.ErrQuestionNotFound) {
			return domain.ErrQuestionNotFound
		}
		return domain.ErrConcurrencyConflict
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

// bumpVersion increments the optimistic-concurrency version of one row,
// failing with domain.ErrConcurrencyConflict when the caller's read is stale.
func bumpVersion(ctx context.Context, tx pgx.Tx, table string, id uuid.UUID, version int64) error {
	query := fmt.Sprintf(`UPDATE %s SET version = version + 1, updated_at = NOW() WHERE id = $1 AND version = $2`, table)
	tag, err := tx.Exec(ctx, query, id, version)
	if err != nil {
		return fmt.Errorf("failed to bump version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}
