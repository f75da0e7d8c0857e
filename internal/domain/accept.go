package domain

import "github.com/google/uuid"

// AcceptanceResult describes the state changes and reputation deltas produced
// by one acceptance transition. When Changed is false the request was an
// idempotent re-accept and nothing may be persisted.
type AcceptanceResult struct {
	Changed bool

	// PreviousAnswerID is the answer that lost accepted status, or uuid.Nil.
	PreviousAnswerID     uuid.UUID
	PreviousAuthorID     uuid.UUID
	PreviousAuthorDelta  int
	AcceptedAuthorDelta  int
}

// ApplyAcceptance runs the acceptance transition: actingUserID (which must be
// the question author) designates candidate as the accepted answer. previous
// is the currently accepted answer, or nil when the question has none. The
// question, candidate, and previous are mutated in place; the result carries
// the reputation deltas for both authors.
//
// Re-accepting the already-accepted answer is a no-op: unchanged state, no
// deltas. Re-granting there would double-pay the author.
func ApplyAcceptance(q *Question, candidate, previous *Answer, actingUserID uuid.UUID) (AcceptanceResult, error) {
	if actingUserID != q.AuthorID {
		return AcceptanceResult{}, ErrNotAuthorized
	}
	if candidate.QuestionID != q.ID {
		return AcceptanceResult{}, ErrAnswerMismatch
	}

	if q.AcceptedAnswerID == candidate.ID {
		return AcceptanceResult{}, nil
	}

	res := AcceptanceResult{
		Changed:             true,
		AcceptedAuthorDelta: AcceptWorth,
	}
	if previous != nil {
		res.PreviousAnswerID = previous.ID
		res.PreviousAuthorID = previous.AuthorID
		res.PreviousAuthorDelta = -AcceptWorth
		previous.IsAccepted = false
	}

	q.AcceptedAnswerID = candidate.ID
	candidate.IsAccepted = true

	return res, nil
}

// DeletionDeltas computes the reputation reversal for deleting a question and
// all of its answers: every vote is un-cast, the acceptance grant is revoked,
// and each answer author's posting grant is returned. Keyed by author ID so
// a repository can apply one update per user.
func DeletionDeltas(q *Question, answers []*Answer) map[uuid.UUID]int {
	deltas := make(map[uuid.UUID]int)
	if d := RemovalDelta(&q.Votable); d != 0 {
		deltas[q.AuthorID] += d
	}
	for _, a := range answers {
		deltas[a.AuthorID] += answerDeletionDelta(a)
		if deltas[a.AuthorID] == 0 {
			delete(deltas, a.AuthorID)
		}
	}
	return deltas
}

// AnswerDeletionDeltas computes the reputation reversal for deleting a single
// answer.
func AnswerDeletionDeltas(a *Answer) map[uuid.UUID]int {
	deltas := make(map[uuid.UUID]int)
	if d := answerDeletionDelta(a); d != 0 {
		deltas[a.AuthorID] = d
	}
	return deltas
}

func answerDeletionDelta(a *Answer) int {
	d := RemovalDelta(&a.Votable) - AnswerPostedWorth
	if a.IsAccepted {
		d -= AcceptWorth
	}
	return d
}
