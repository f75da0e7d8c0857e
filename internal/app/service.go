// Package app is the application layer — the only component that references
// multiple domain components. It orchestrates all use cases: voting,
// acceptance, posting, and deletion, with conflict retries and rate limiting
// around the pure domain transitions.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/vizzRG/campusconnect01/internal/domain"
	"github.com/vizzRG/campusconnect01/internal/metrics"
	"github.com/vizzRG/campusconnect01/internal/platform/retry"
)

// RateLimiter gates vote submissions per user. Implementations may fail;
// the service treats limiter errors as allow so votes keep flowing when the
// limiter backend is down.
type RateLimiter interface {
	CheckVoteRateLimit(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service orchestrates the vote and reputation use cases.
type Service struct {
	questions domain.QuestionRepository
	answers   domain.AnswerRepository
	users     domain.UserRepository
	limiter   RateLimiter
	clock     clockwork.Clock
}

// NewService creates the application layer service.
// limiter may be nil if Redis is not configured.
func NewService(questions domain.QuestionRepository, answers domain.AnswerRepository, users domain.UserRepository, limiter RateLimiter, clock clockwork.Clock) *Service {
	return &Service{
		questions: questions,
		answers:   answers,
		users:     users,
		limiter:   limiter,
		clock:     clock,
	}
}

// conflictPolicy retries commits that lost an optimistic-concurrency race.
// Each attempt re-reads the entity, so a retry works on fresh state.
func conflictPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:    3,
		InitialBackoff: 10 * time.Millisecond,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			metrics.VoteConflictRetriesTotal.Inc()
			slog.Debug("Retrying after concurrent update", "attempt", attempt, "backoff", backoff.String())
		},
	}
}

func classifyConflict(err error) retry.Action {
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		return retry.Retry
	}
	return retry.Stop
}

// CreateQuestion posts a new question by authorID.
func (s *Service) CreateQuestion(ctx context.Context, authorID uuid.UUID, title, body string) (*domain.Question, error) {
	q := &domain.Question{
		Votable: domain.NewVotable(uuid.Nil, authorID),
		Title:   title,
		Body:    body,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuestion retrieves a question together with its answers.
func (s *Service) GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, []*domain.Answer, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}
	return q, answers, nil
}

// GetUser retrieves a user's reputation record.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// VoteOnQuestion applies voterID's vote in the given direction to a question,
// adjusting the author's reputation. Re-voting the same direction toggles the
// vote off; voting the opposite direction switches it.
func (s *Service) VoteOnQuestion(ctx context.Context, questionID, voterID uuid.UUID, dir domain.Direction) (*domain.Question, error) {
	start := s.clock.Now()
	defer func() {
		metrics.VoteProcessingDuration.Observe(s.clock.Since(start).Seconds())
	}()

	if err := s.checkRateLimit(ctx, voterID); err != nil {
		return nil, err
	}

	return retry.Do(ctx, conflictPolicy(), classifyConflict, func() (*domain.Question, error) {
		q, err := s.questions.GetByID(ctx, questionID)
		if err != nil {
			return nil, err
		}

		hadUp, hadDown := q.HasUpvoted(voterID), q.HasDownvoted(voterID)
		delta, err := domain.ApplyVote(&q.Votable, voterID, dir)
		if err != nil {
			return nil, err
		}

		if err := s.questions.CommitVoteTransition(ctx, q, voterID, delta); err != nil {
			return nil, err
		}

		recordVote("question", dir, hadUp, hadDown)
		return q, nil
	})
}

// VoteOnAnswer applies voterID's vote in the given direction to an answer.
func (s *Service) VoteOnAnswer(ctx context.Context, answerID, voterID uuid.UUID, dir domain.Direction) (*domain.Answer, error) {
	start := s.clock.Now()
	defer func() {
		metrics.VoteProcessingDuration.Observe(s.clock.Since(start).Seconds())
	}()

	if err := s.checkRateLimit(ctx, voterID); err != nil {
		return nil, err
	}

	return retry.Do(ctx, conflictPolicy(), classifyConflict, func() (*domain.Answer, error) {
		a, err := s.answers.GetByID(ctx, answerID)
		if err != nil {
			return nil, err
		}

		hadUp, hadDown := a.HasUpvoted(voterID), a.HasDownvoted(voterID)
		delta, err := domain.ApplyVote(&a.Votable, voterID, dir)
		if err != nil {
			return nil, err
		}

		if err := s.answers.CommitVoteTransition(ctx, a, voterID, delta); err != nil {
			return nil, err
		}

		recordVote("answer", dir, hadUp, hadDown)
		return a, nil
	})
}

// PostAnswer adds an answer to a question and grants the author the posting
// reward.
func (s *Service) PostAnswer(ctx context.Context, questionID, authorID uuid.UUID, body string) (*domain.Answer, error) {
	a := &domain.Answer{
		Votable:    domain.NewVotable(uuid.Nil, authorID),
		QuestionID: questionID,
		Body:       body,
	}
	if err := s.answers.Create(ctx, a); err != nil {
		return nil, err
	}
	metrics.ReputationDeltasTotal.WithLabelValues("answer_posted").Inc()
	return a, nil
}

// AcceptAnswer marks an answer as the accepted one for its question. Only the
// question's author may accept. Accepting an already-accepted answer is a
// no-op; accepting a different answer moves the acceptance and its reputation.
func (s *Service) AcceptAnswer(ctx context.Context, answerID, actingUserID uuid.UUID) (*domain.Question, error) {
	return retry.Do(ctx, conflictPolicy(), classifyConflict, func() (*domain.Question, error) {
		a, err := s.answers.GetByID(ctx, answerID)
		if err != nil {
			return nil, err
		}
		q, err := s.questions.GetByID(ctx, a.QuestionID)
		if err != nil {
			return nil, err
		}

		var previous *domain.Answer
		if q.HasAcceptedAnswer() && q.AcceptedAnswerID != a.ID {
			previous, err = s.answers.GetByID(ctx, q.AcceptedAnswerID)
			if err != nil {
				return nil, err
			}
		}

		res, err := domain.ApplyAcceptance(q, a, previous, actingUserID)
		if err != nil {
			return nil, err
		}
		if !res.Changed {
			metrics.AcceptanceTransitionsTotal.WithLabelValues("noop").Inc()
			return q, nil
		}

		if err := s.questions.CommitAcceptance(ctx, q, a, res); err != nil {
			return nil, err
		}

		outcome := "accepted"
		if res.PreviousAnswerID != uuid.Nil {
			outcome = "switched"
		}
		metrics.AcceptanceTransitionsTotal.WithLabelValues(outcome).Inc()
		metrics.ReputationDeltasTotal.WithLabelValues("acceptance").Inc()
		return q, nil
	})
}

// DeleteQuestion removes a question with all its answers and votes, reversing
// every reputation effect they produced. Only the question's author may
// delete it.
func (s *Service) DeleteQuestion(ctx context.Context, questionID, actingUserID uuid.UUID) error {
	return retry.DoVoid(ctx, conflictPolicy(), classifyConflict, func() error {
		q, err := s.questions.GetByID(ctx, questionID)
		if err != nil {
			return err
		}
		if q.AuthorID != actingUserID {
			return domain.ErrNotAuthorized
		}

		answers, err := s.answers.ListByQuestion(ctx, questionID)
		if err != nil {
			return err
		}

		deltas := domain.DeletionDeltas(q, answers)
		if err := s.questions.Delete(ctx, q, answers, deltas); err != nil {
			return err
		}

		metrics.ReputationDeltasTotal.WithLabelValues("deletion").Inc()
		return nil
	})
}

// DeleteAnswer removes an answer, reversing its votes, its posting reward,
// and its acceptance reward if it was accepted. Only the answer's author may
// delete it.
func (s *Service) DeleteAnswer(ctx context.Context, answerID, actingUserID uuid.UUID) error {
	return retry.DoVoid(ctx, conflictPolicy(), classifyConflict, func() error {
		a, err := s.answers.GetByID(ctx, answerID)
		if err != nil {
			return err
		}
		if a.AuthorID != actingUserID {
			return domain.ErrNotAuthorized
		}

		deltas := domain.AnswerDeletionDeltas(a)
		if err := s.answers.Delete(ctx, a, deltas); err != nil {
			return err
		}

		metrics.ReputationDeltasTotal.WithLabelValues("deletion").Inc()
		return nil
	})
}

// checkRateLimit consumes a vote token for voterID. Limiter errors fail open:
// losing rate limiting is better than losing votes.
func (s *Service) checkRateLimit(ctx context.Context, voterID uuid.UUID) error {
	if s.limiter == nil {
		return nil
	}

	allowed, err := s.limiter.CheckVoteRateLimit(ctx, voterID)
	if err != nil {
		metrics.RateLimiterErrorsTotal.Inc()
		slog.Warn("Vote rate limiter unavailable, allowing vote", "error", err)
		return nil
	}
	if !allowed {
		metrics.VoteRateLimitedTotal.Inc()
		return domain.ErrRateLimited
	}
	return nil
}

func recordVote(entity string, dir domain.Direction, hadUp, hadDown bool) {
	outcome := "applied"
	switch {
	case dir == domain.DirectionUp && hadUp, dir == domain.DirectionDown && hadDown:
		outcome = "toggled_off"
	case hadUp || hadDown:
		outcome = "switched"
	}
	metrics.VoteTransitionsTotal.WithLabelValues(entity, string(dir), outcome).Inc()
	metrics.ReputationDeltasTotal.WithLabelValues("vote").Inc()
}
