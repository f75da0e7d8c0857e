package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizzRG/campusconnect01/internal/domain"
)

func TestAnswerRepo_Create(t *testing.T) {
	pool := setupTestDB(t)
	questions := NewQuestionRepo(pool)
	answers := NewAnswerRepo(pool)
	users := NewUserRepo(pool)
	ctx := context.Background()

	q := createTestQuestion(t, questions, uuid.New())

	answererID := uuid.New()
	a := &domain.Answer{
		Votable:    domain.NewVotable(uuid.Nil, answererID),
		QuestionID: q.ID,
		Body:       "Use a sentinel node.",
	}
	require.NoError(t, answers.Create(ctx, a))
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, int64(1), a.Version)

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AnswerCount)

	// Posting grant applied.
	answerer, err := users.GetByID(ctx, answererID)
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerPostedWorth, answerer.Reputation)
}

func TestAnswerRepo_Create_QuestionNotFound(t *testing.T) {
	pool := setupTestDB(t)
	answers := NewAnswerRepo(pool)

	a := &domain.Answer{
		Votable:    domain.NewVotable(uuid.Nil, uuid.New()),
		QuestionID: uuid.New(),
		Body:       "orphan",
	}
	err := answers.Create(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestAnswerRepo_GetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	answers := NewAnswerRepo(pool)

	_, err := answers.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrAnswerNotFound)
}

func TestAnswerRepo_ListByQuestion(t *testing.T) {
	pool := setupTestDB(t)
	questions := NewQuestionRepo(pool)
	answers := NewAnswerRepo(pool)
	ctx := context.Background()

	q := createTestQuestion(t, questions, uuid.New())

	for i := 0; i < 3; i++ {
		a := &domain.Answer{
			Votable:    domain.NewVotable(uuid.Nil, uuid.New()),
			QuestionID: q.ID,
			Body:       "answer",
		}
		require.NoError(t, answers.Create(ctx, a))
	}

	list, err := answers.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	empty, err := answers.ListByQuestion(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAnswerRepo_CommitVoteTransition_Switch(t *testing.T) {
	pool := setupTestDB(t)
	questions := NewQuestionRepo(pool)
	answers := NewAnswerRepo(pool)
	users := NewUserRepo(pool)
	ctx := context.Background()

	q := createTestQuestion(t, questions, uuid.New())

	answererID := uuid.New()
	voterID := uuid.New()
	a := &domain.Answer{Votable: domain.NewVotable(uuid.Nil, answererID), QuestionID: q.ID, Body: "a"}
	require.NoError(t, answers.Create(ctx, a))

	delta, err := domain.ApplyVote(&a.Votable, voterID, domain.DirectionDown)
	require.NoError(t, err)
	require.Equal(t, -5, delta)
	require.NoError(t, answers.CommitVoteTransition(ctx, a, voterID, delta))

	delta, err = domain.ApplyVote(&a.Votable, voterID, domain.DirectionUp)
	require.NoError(t, err)
	require.Equal(t, 15, delta)
	require.NoError(t, answers.CommitVoteTransition(ctx, a, voterID, delta))

	got, err := answers.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.HasUpvoted(voterID))
	assert.False(t, got.HasDownvoted(voterID))
	assert.Equal(t, int64(3), got.Version)

	// +5 posting, -5 downvote, +15 switch.
	answerer, err := users.GetByID(ctx, answererID)
	require.NoError(t, err)
	assert.Equal(t, 15, answerer.Reputation)
}

func TestAnswerRepo_CommitVoteTransition_StaleVersion(t *testing.T) {
	pool := setupTestDB(t)
	questions := NewQuestionRepo(pool)
	answers := NewAnswerRepo(pool)
	ctx := context.Background()

	q := createTestQuestion(t, questions, uuid.New())
	a := &domain.Answer{Votable: domain.NewVotable(uuid.Nil, uuid.New()), QuestionID: q.ID, Body: "a"}
	require.NoError(t, answers.Create(ctx, a))

	voterID := uuid.New()
	delta, err := domain.ApplyVote(&a.Votable, voterID, domain.DirectionUp)
	require.NoError(t, err)
	require.NoError(t, answers.CommitVoteTransition(ctx, a, voterID, delta))

	stale := *a
	stale.Version = 1
	err = answers.CommitVoteTransition(ctx, &stale, uuid.New(), 10)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestAnswerRepo_Delete(t *testing.T) {
	pool := setupTestDB(t)
	questions := NewQuestionRepo(pool)
	answers := NewAnswerRepo(pool)
	users := NewUserRepo(pool)
	ctx := context.Background()

	askerID := uuid.New()
	answererID := uuid.New()
	voterID := uuid.New()
	q := createTestQuestion(t, questions, askerID)

	a := &domain.Answer{Votable: domain.NewVotable(uuid.Nil, answererID), QuestionID: q.ID, Body: "a"}
	require.NoError(t, answers.Create(ctx, a))

	delta, err := domain.ApplyVote(&a.Votable, voterID, domain.DirectionUp)
	require.NoError(t, err)
	require.NoError(t, answers.CommitVoteTransition(ctx, a, voterID, delta))

	// Accept it so deletion has to unwind the acceptance too.
	q, err = questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	res, err := domain.ApplyAcceptance(q, a, nil, askerID)
	require.NoError(t, err)
	require.NoError(t, questions.CommitAcceptance(ctx, q, a, res))

	a, err = answers.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, a.IsAccepted)

	deltas := domain.AnswerDeletionDeltas(a)
	require.NoError(t, answers.Delete(ctx, a, deltas))

	_, err = answers.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrAnswerNotFound)

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AnswerCount)
	assert.Equal(t, uuid.Nil, got.AcceptedAnswerID)

	// Everything the answer earned is reversed.
	answerer, err := users.GetByID(ctx, answererID)
	require.NoError(t, err)
	assert.Equal(t, 0, answerer.Reputation)
}

func TestAnswerRepo_Delete_StaleVersion(t *testing.T) {
	pool := setupTestDB(t)
	questions := NewQuestionRepo(pool)
	answers := NewAnswerRepo(pool)
	ctx := context.Background()

	q := createTestQuestion(t, questions, uuid.New())
	a := &domain.Answer{Votable: domain.NewVotable(uuid.Nil, uuid.New()), QuestionID: q.ID, Body: "a"}
	require.NoError(t, answers.Create(ctx, a))

	voterID := uuid.New()
	delta, err := domain.ApplyVote(&a.Votable, voterID, domain.DirectionUp)
	require.NoError(t, err)
	require.NoError(t, answers.CommitVoteTransition(ctx, a, voterID, delta))

	stale := *a
	stale.Version = 1
	err = answers.Delete(ctx, &stale, nil)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestUserRepo_EnsureAndDelta(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserRepo(pool)
	ctx := context.Background()

	userID := uuid.New()
	_, err := users.GetByID(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, users.Ensure(ctx, userID))
	require.NoError(t, users.Ensure(ctx, userID)) // idempotent

	require.NoError(t, users.ApplyReputationDelta(ctx, userID, 10))
	require.NoError(t, users.ApplyReputationDelta(ctx, userID, -25))

	u, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, -15, u.Reputation)

	err = users.ApplyReputationDelta(ctx, uuid.New(), 5)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
