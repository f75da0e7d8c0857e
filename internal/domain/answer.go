package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Answer is a votable entity belonging to exactly one question. IsAccepted
// is true iff the owning question's AcceptedAnswerID points at this answer;
// only the acceptance transition may set or clear it.
type Answer struct {
	Votable
	QuestionID uuid.UUID
	Body       string
	IsAccepted bool
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AnswerRepository abstracts answer persistence.
type AnswerRepository interface {
	// Create inserts the answer, increments the owning question's answer
	// count, and grants the posting reputation to the author in one
	// transaction.
	Create(ctx context.Context, a *Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Answer, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*Answer, error)

	// CommitVoteTransition mirrors QuestionRepository.CommitVoteTransition
	// for answers, guarded by a.Version.
	CommitVoteTransition(ctx context.Context, a *Answer, voterID uuid.UUID, authorDelta int) error

	// Delete removes the answer and its votes, decrements the owning
	// question's answer count, and applies deltas in the same transaction.
	Delete(ctx context.Context, a *Answer, deltas map[uuid.UUID]int) error
}
