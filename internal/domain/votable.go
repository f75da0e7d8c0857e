package domain

import "github.com/google/uuid"

// Direction is the requested vote direction. There is no "remove" direction:
// re-submitting the direction a user already cast toggles the vote off.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Reputation deltas of the forum point economy. An upvote is worth twice a
// downvote's penalty; switching a vote reverses the old effect and applies
// the new one in a single delta.
const (
	upvoteWorth   = 10
	downvoteWorth = 5

	// AcceptWorth is granted to an answer author on acceptance and revoked
	// when acceptance moves to another answer.
	AcceptWorth = 15

	// AnswerPostedWorth is granted to an author for posting an answer.
	AnswerPostedWorth = 5
)

// Votable is the data shape shared by questions and answers: an identity, an
// author who owns the reputation effects, and the two vote sets. A voter ID
// appears in at most one of the sets at any time.
type Votable struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	Upvoters   map[uuid.UUID]struct{}
	Downvoters map[uuid.UUID]struct{}
}

// NewVotable creates a votable with empty vote sets.
func NewVotable(id, authorID uuid.UUID) Votable {
	return Votable{
		ID:         id,
		AuthorID:   authorID,
		Upvoters:   make(map[uuid.UUID]struct{}),
		Downvoters: make(map[uuid.UUID]struct{}),
	}
}

// Score is the derived vote score: |upvoters| - |downvoters|. Never stored.
func (v *Votable) Score() int {
	return len(v.Upvoters) - len(v.Downvoters)
}

// HasUpvoted reports whether userID currently holds an upvote.
func (v *Votable) HasUpvoted(userID uuid.UUID) bool {
	_, ok := v.Upvoters[userID]
	return ok
}

// HasDownvoted reports whether userID currently holds a downvote.
func (v *Votable) HasDownvoted(userID uuid.UUID) bool {
	_, ok := v.Downvoters[userID]
	return ok
}

// VoteTally is the caller-facing result of a vote operation.
type VoteTally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	VoteScore int `json:"voteScore"`
}

// Tally returns the current counts and derived score.
func (v *Votable) Tally() VoteTally {
	return VoteTally{
		Upvotes:   len(v.Upvoters),
		Downvotes: len(v.Downvoters),
		VoteScore: v.Score(),
	}
}

// ApplyVote runs the vote transition for voterID in the given direction,
// mutating the vote sets in place and returning the single net reputation
// delta to apply once to the entity author.
//
// Transition table:
//
//	up, already upvoted      → remove upvote, -10 (toggle off)
//	up, fresh                → add upvote, +10
//	up, had downvoted        → move down→up, +15
//	down, already downvoted  → remove downvote, +5 (toggle off)
//	down, fresh              → add downvote, -5
//	down, had upvoted        → move up→down, -15
//
// Self-voting is intentionally not rejected here; the source domain permits
// it (see the acceptance transition for the one authorization check that
// does exist).
func ApplyVote(v *Votable, voterID uuid.UUID, dir Direction) (int, error) {
	hasUp := v.HasUpvoted(voterID)
	hasDown := v.HasDownvoted(voterID)

	switch dir {
	case DirectionUp:
		if hasUp {
			delete(v.Upvoters, voterID)
			return -upvoteWorth, nil
		}
		v.Upvoters[voterID] = struct{}{}
		delta := upvoteWorth
		if hasDown {
			delete(v.Downvoters, voterID)
			delta += downvoteWorth
		}
		return delta, nil

	case DirectionDown:
		if hasDown {
			delete(v.Downvoters, voterID)
			return downvoteWorth, nil
		}
		v.Downvoters[voterID] = struct{}{}
		delta := -downvoteWorth
		if hasUp {
			delete(v.Upvoters, voterID)
			delta -= upvoteWorth
		}
		return delta, nil

	default:
		return 0, ErrInvalidDirection
	}
}

// RemovalDelta is the reputation delta that un-casts every vote on v, used
// when the entity is deleted so no stranded reputation remains.
func RemovalDelta(v *Votable) int {
	return -upvoteWorth*len(v.Upvoters) + downvoteWorth*len(v.Downvoters)
}
