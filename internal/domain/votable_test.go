package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVotable(t *testing.T) *Votable {
	t.Helper()
	v := NewVotable(uuid.New(), uuid.New())
	return &v
}

func TestApplyVote_FreshUpvote(t *testing.T) {
	v := newTestVotable(t)
	voter := uuid.New()

	delta, err := ApplyVote(v, voter, DirectionUp)

	require.NoError(t, err)
	assert.Equal(t, 10, delta)
	assert.True(t, v.HasUpvoted(voter))
	assert.False(t, v.HasDownvoted(voter))
	assert.Equal(t, 1, v.Score())
}

func TestApplyVote_FreshDownvote(t *testing.T) {
	v := newTestVotable(t)
	voter := uuid.New()

	delta, err := ApplyVote(v, voter, DirectionDown)

	require.NoError(t, err)
	assert.Equal(t, -5, delta)
	assert.True(t, v.HasDownvoted(voter))
	assert.Equal(t, -1, v.Score())
}

func TestApplyVote_ToggleOffUpvote(t *testing.T) {
	v := newTestVotable(t)
	voter := uuid.New()

	_, err := ApplyVote(v, voter, DirectionUp)
	require.NoError(t, err)

	delta, err := ApplyVote(v, voter, DirectionUp)

	require.NoError(t, err)
	assert.Equal(t, -10, delta)
	assert.False(t, v.HasUpvoted(voter))
	assert.Empty(t, v.Upvoters)
	assert.Empty(t, v.Downvoters)
	assert.Equal(t, 0, v.Score())
}

func TestApplyVote_ToggleOffDownvote(t *testing.T) {
	v := newTestVotable(t)
	voter := uuid.New()

	_, err := ApplyVote(v, voter, DirectionDown)
	require.NoError(t, err)

	delta, err := ApplyVote(v, voter, DirectionDown)

	require.NoError(t, err)
	assert.Equal(t, 5, delta)
	assert.Empty(t, v.Downvoters)
}

func TestApplyVote_SwitchDownToUp(t *testing.T) {
	v := newTestVotable(t)
	voter := uuid.New()

	_, err := ApplyVote(v, voter, DirectionDown)
	require.NoError(t, err)

	delta, err := ApplyVote(v, voter, DirectionUp)

	require.NoError(t, err)
	assert.Equal(t, 15, delta)
	assert.True(t, v.HasUpvoted(voter))
	assert.False(t, v.HasDownvoted(voter))
	assert.Equal(t, 1, v.Score())
}

func TestApplyVote_SwitchUpToDown(t *testing.T) {
	v := newTestVotable(t)
	voter := uuid.New()

	_, err := ApplyVote(v, voter, DirectionUp)
	require.NoError(t, err)

	delta, err := ApplyVote(v, voter, DirectionDown)

	require.NoError(t, err)
	assert.Equal(t, -15, delta)
	assert.False(t, v.HasUpvoted(voter))
	assert.True(t, v.HasDownvoted(voter))
	assert.Equal(t, -1, v.Score())
}

func TestApplyVote_InvalidDirection(t *testing.T) {
	v := newTestVotable(t)

	_, err := ApplyVote(v, uuid.New(), Direction("sideways"))

	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Empty(t, v.Upvoters)
	assert.Empty(t, v.Downvoters)
}

func TestApplyVote_SelfVotePermitted(t *testing.T) {
	// The source domain allows authors to vote on their own content; only
	// acceptance is restricted.
	v := newTestVotable(t)

	delta, err := ApplyVote(v, v.AuthorID, DirectionUp)

	require.NoError(t, err)
	assert.Equal(t, 10, delta)
	assert.True(t, v.HasUpvoted(v.AuthorID))
}

func TestApplyVote_ExclusiveSets(t *testing.T) {
	// A voter is never in both sets, regardless of the sequence of votes.
	v := newTestVotable(t)
	voter := uuid.New()

	seq := []Direction{DirectionUp, DirectionDown, DirectionDown, DirectionUp, DirectionDown, DirectionUp, DirectionUp}
	for _, dir := range seq {
		_, err := ApplyVote(v, voter, dir)
		require.NoError(t, err)

		inBoth := v.HasUpvoted(voter) && v.HasDownvoted(voter)
		assert.False(t, inBoth)
		assert.Equal(t, len(v.Upvoters)-len(v.Downvoters), v.Score())
	}
}

func TestApplyVote_ToggleRoundTripNetsZero(t *testing.T) {
	v := newTestVotable(t)
	voter := uuid.New()

	d1, err := ApplyVote(v, voter, DirectionUp)
	require.NoError(t, err)
	d2, err := ApplyVote(v, voter, DirectionUp)
	require.NoError(t, err)

	assert.Equal(t, 0, d1+d2)
	assert.Equal(t, 0, v.Score())
}

func TestApplyVote_MultipleVoters(t *testing.T) {
	v := newTestVotable(t)
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	_, err := ApplyVote(v, alice, DirectionUp)
	require.NoError(t, err)
	_, err = ApplyVote(v, bob, DirectionUp)
	require.NoError(t, err)
	_, err = ApplyVote(v, carol, DirectionDown)
	require.NoError(t, err)

	tally := v.Tally()
	assert.Equal(t, 2, tally.Upvotes)
	assert.Equal(t, 1, tally.Downvotes)
	assert.Equal(t, 1, tally.VoteScore)
}

func TestRemovalDelta(t *testing.T) {
	tests := []struct {
		name     string
		upvotes  int
		downs    int
		expected int
	}{
		{"empty", 0, 0, 0},
		{"only upvotes", 3, 0, -30},
		{"only downvotes", 0, 2, 10},
		{"mixed", 4, 3, -25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVotable(t)
			for i := 0; i < tt.upvotes; i++ {
				_, err := ApplyVote(v, uuid.New(), DirectionUp)
				require.NoError(t, err)
			}
			for i := 0; i < tt.downs; i++ {
				_, err := ApplyVote(v, uuid.New(), DirectionDown)
				require.NoError(t, err)
			}

			assert.Equal(t, tt.expected, RemovalDelta(v))
		})
	}
}

func TestDirectionValid(t *testing.T) {
	assert.True(t, DirectionUp.Valid())
	assert.True(t, DirectionDown.Valid())
	assert.False(t, Direction("").Valid())
	assert.False(t, Direction("UP").Valid())
}
