package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Question is a votable entity that can additionally designate one of its
// answers as accepted. AcceptedAnswerID of uuid.Nil means no answer is
// accepted. Version backs the optimistic read-modify-write cycle: commits
// guard on it and fail with ErrConcurrencyConflict on a stale read.
type Question struct {
	Votable
	Title            string
	Body             string
	AcceptedAnswerID uuid.UUID
	AnswerCount      int
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasAcceptedAnswer reports whether some answer is currently accepted.
func (q *Question) HasAcceptedAnswer() bool {
	return q.AcceptedAnswerID != uuid.Nil
}

// QuestionRepository abstracts question persistence. Commit operations bundle
// the entity write and the author reputation delta into one transaction so
// callers can never apply one without the other.
type QuestionRepository interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*Question, error)

	// CommitVoteTransition persists voterID's membership in q's vote sets as
	// they stand after ApplyVote and applies authorDelta to q's author, all
	// in one transaction guarded by q.Version.
	CommitVoteTransition(ctx context.Context, q *Question, voterID uuid.UUID, authorDelta int) error

	// CommitAcceptance persists the acceptance pointers after ApplyAcceptance
	// and applies both reputation deltas in one transaction guarded by
	// q.Version. res.PreviousAnswerID of uuid.Nil means no prior acceptance.
	CommitAcceptance(ctx context.Context, q *Question, accepted *Answer, res AcceptanceResult) error

	// Delete removes the question, its answers, and their votes, applying
	// deltas (author → reputation adjustment) in the same transaction so
	// deletion never strands reputation. Versions of the question and each
	// answer guard against concurrent vote commits invalidating the deltas.
	Delete(ctx context.Context, q *Question, answers []*Answer, deltas map[uuid.UUID]int) error
}
