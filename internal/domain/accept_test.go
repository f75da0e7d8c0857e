package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuestion(t *testing.T) *Question {
	t.Helper()
	return &Question{
		Votable:   NewVotable(uuid.New(), uuid.New()),
		Title:     "test question",
		CreatedAt: time.Now().UTC(),
	}
}

func newTestAnswer(t *testing.T, q *Question) *Answer {
	t.Helper()
	return &Answer{
		Votable:    NewVotable(uuid.New(), uuid.New()),
		QuestionID: q.ID,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestApplyAcceptance_FirstAccept(t *testing.T) {
	q := newTestQuestion(t)
	a := newTestAnswer(t, q)

	res, err := ApplyAcceptance(q, a, nil, q.AuthorID)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, uuid.Nil, res.PreviousAnswerID)
	assert.Equal(t, 0, res.PreviousAuthorDelta)
	assert.Equal(t, 15, res.AcceptedAuthorDelta)
	assert.True(t, a.IsAccepted)
	assert.Equal(t, a.ID, q.AcceptedAnswerID)
	assert.True(t, q.HasAcceptedAnswer())
}

func TestApplyAcceptance_SwitchAnswer(t *testing.T) {
	q := newTestQuestion(t)
	a1 := newTestAnswer(t, q)
	a2 := newTestAnswer(t, q)

	_, err := ApplyAcceptance(q, a1, nil, q.AuthorID)
	require.NoError(t, err)

	res, err := ApplyAcceptance(q, a2, a1, q.AuthorID)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, a1.ID, res.PreviousAnswerID)
	assert.Equal(t, a1.AuthorID, res.PreviousAuthorID)
	assert.Equal(t, -15, res.PreviousAuthorDelta)
	assert.Equal(t, 15, res.AcceptedAuthorDelta)

	// Exactly one answer accepted at all times.
	assert.False(t, a1.IsAccepted)
	assert.True(t, a2.IsAccepted)
	assert.Equal(t, a2.ID, q.AcceptedAnswerID)
}

func TestApplyAcceptance_Idempotent(t *testing.T) {
	q := newTestQuestion(t)
	a := newTestAnswer(t, q)

	_, err := ApplyAcceptance(q, a, nil, q.AuthorID)
	require.NoError(t, err)

	res, err := ApplyAcceptance(q, a, nil, q.AuthorID)

	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 0, res.PreviousAuthorDelta)
	assert.Equal(t, 0, res.AcceptedAuthorDelta)
	assert.True(t, a.IsAccepted)
	assert.Equal(t, a.ID, q.AcceptedAnswerID)
}

func TestApplyAcceptance_NotAuthor(t *testing.T) {
	q := newTestQuestion(t)
	a := newTestAnswer(t, q)

	_, err := ApplyAcceptance(q, a, nil, uuid.New())

	assert.ErrorIs(t, err, ErrNotAuthorized)
	// No state mutation on failure.
	assert.False(t, a.IsAccepted)
	assert.False(t, q.HasAcceptedAnswer())
}

func TestApplyAcceptance_AnswerAuthorCannotAccept(t *testing.T) {
	q := newTestQuestion(t)
	a := newTestAnswer(t, q)

	_, err := ApplyAcceptance(q, a, nil, a.AuthorID)

	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestApplyAcceptance_OwnAnswerToOwnQuestion(t *testing.T) {
	// The only acceptance restriction is "question author"; accepting your
	// own answer to your own question is allowed, mirroring the source
	// domain's asymmetry with voting.
	q := newTestQuestion(t)
	a := newTestAnswer(t, q)
	a.AuthorID = q.AuthorID

	res, err := ApplyAcceptance(q, a, nil, q.AuthorID)

	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 15, res.AcceptedAuthorDelta)
}

func TestApplyAcceptance_WrongQuestion(t *testing.T) {
	q := newTestQuestion(t)
	other := newTestQuestion(t)
	a := newTestAnswer(t, other)

	_, err := ApplyAcceptance(q, a, nil, q.AuthorID)

	assert.ErrorIs(t, err, ErrAnswerMismatch)
	assert.False(t, a.IsAccepted)
}

func TestDeletionDeltas_QuestionWithAnswers(t *testing.T) {
	q := newTestQuestion(t)
	a1 := newTestAnswer(t, q)
	a2 := newTestAnswer(t, q)

	// Two upvotes on the question.
	_, err := ApplyVote(&q.Votable, uuid.New(), DirectionUp)
	require.NoError(t, err)
	_, err = ApplyVote(&q.Votable, uuid.New(), DirectionUp)
	require.NoError(t, err)

	// a1: one upvote and accepted; a2: one downvote.
	_, err = ApplyVote(&a1.Votable, uuid.New(), DirectionUp)
	require.NoError(t, err)
	_, err = ApplyVote(&a2.Votable, uuid.New(), DirectionDown)
	require.NoError(t, err)
	_, err = ApplyAcceptance(q, a1, nil, q.AuthorID)
	require.NoError(t, err)

	deltas := DeletionDeltas(q, []*Answer{a1, a2})

	// Question author loses the two upvotes' worth.
	assert.Equal(t, -20, deltas[q.AuthorID])
	// a1 author loses upvote (+10), acceptance (+15), posting grant (+5).
	assert.Equal(t, -30, deltas[a1.AuthorID])
	// a2 author gets the downvote penalty back (+5) but returns the posting
	// grant (-5).
	assert.Equal(t, 0, deltas[a2.AuthorID])
	_, present := deltas[a2.AuthorID]
	assert.False(t, present)
}

func TestAnswerDeletionDeltas(t *testing.T) {
	q := newTestQuestion(t)
	a := newTestAnswer(t, q)

	_, err := ApplyVote(&a.Votable, uuid.New(), DirectionUp)
	require.NoError(t, err)

	deltas := AnswerDeletionDeltas(a)

	assert.Equal(t, -15, deltas[a.AuthorID])
}
