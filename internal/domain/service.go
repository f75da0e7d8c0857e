package domain

import (
	"context"

	"github.com/google/uuid"
)

// AppService is the interface the transport layer programs against. It is
// implemented by the app package.
type AppService interface {
	CreateQuestion(ctx context.Context, authorID uuid.UUID, title, body string) (*Question, error)
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*Question, []*Answer, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*User, error)

	VoteOnQuestion(ctx context.Context, questionID, voterID uuid.UUID, dir Direction) (*Question, error)
	VoteOnAnswer(ctx context.Context, answerID, voterID uuid.UUID, dir Direction) (*Answer, error)

	PostAnswer(ctx context.Context, questionID, authorID uuid.UUID, body string) (*Answer, error)
	AcceptAnswer(ctx context.Context, answerID, actingUserID uuid.UUID) (*Question, error)

	DeleteQuestion(ctx context.Context, questionID, actingUserID uuid.UUID) error
	DeleteAnswer(ctx context.Context, answerID, actingUserID uuid.UUID) error
}
