package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vizzRG/campusconnect01/internal/domain"
	apperrors "github.com/vizzRG/campusconnect01/internal/errors"
)

type createQuestionRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type voteRequest struct {
	Direction string `json:"direction"`
}

type questionResponse struct {
	ID               string    `json:"id"`
	AuthorID         string    `json:"authorId"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	Upvotes          int       `json:"upvotes"`
	Downvotes        int       `json:"downvotes"`
	VoteScore        int       `json:"voteScore"`
	AcceptedAnswerID string    `json:"acceptedAnswerId,omitempty"`
	AnswerCount      int       `json:"answerCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toQuestionResponse(q *domain.Question) questionResponse {
	tally := q.Tally()
	resp := questionResponse{
		ID:          q.ID.String(),
		AuthorID:    q.AuthorID.String(),
		Title:       q.Title,
		Body:        q.Body,
		Upvotes:     tally.Upvotes,
		Downvotes:   tally.Downvotes,
		VoteScore:   tally.VoteScore,
		AnswerCount: q.AnswerCount,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	if q.HasAcceptedAnswer() {
		resp.AcceptedAnswerID = q.AcceptedAnswerID.String()
	}
	return resp
}

// mapDomainError translates domain sentinels into structured API errors.
// Anything unrecognized becomes an internal error.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound):
		return apperrors.NotFoundError("question not found")
	case errors.Is(err, domain.ErrAnswerNotFound):
		return apperrors.NotFoundError("answer not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NotFoundError("user not found")
	case errors.Is(err, domain.ErrNotAuthorized):
		return apperrors.ForbiddenError("not authorized")
	case errors.Is(err, domain.ErrInvalidDirection):
		return apperrors.ValidationError("direction must be 'up' or 'down'")
	case errors.Is(err, domain.ErrAnswerMismatch):
		return apperrors.ValidationError("answer does not belong to this question")
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return apperrors.ConflictError("concurrent update, please retry")
	case errors.Is(err, domain.ErrRateLimited):
		return apperrors.RateLimitedError("vote rate limit exceeded")
	default:
		return apperrors.InternalError("request failed", err)
	}
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid "+name+" format").
			WithField(name, c.Param(name))
	}
	return id, nil
}

func (s *Server) handleCreateQuestion(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req createQuestionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" {
		return apperrors.ValidationError("title is required")
	}
	if req.Body == "" {
		return apperrors.ValidationError("body is required")
	}

	q, err := s.app.CreateQuestion(c.Request().Context(), userID, req.Title, req.Body)
	if err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(201, toQuestionResponse(q)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetQuestion(c echo.Context) error {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	q, answers, err := s.app.GetQuestion(c.Request().Context(), questionID)
	if err != nil {
		return mapDomainError(err)
	}

	answerResponses := make([]answerResponse, 0, len(answers))
	for _, a := range answers {
		answerResponses = append(answerResponses, toAnswerResponse(a))
	}

	if err := c.JSON(200, map[string]any{
		"question": toQuestionResponse(q),
		"answers":  answerResponses,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleVoteQuestion(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	q, err := s.app.VoteOnQuestion(c.Request().Context(), questionID, userID, domain.Direction(req.Direction))
	if err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(200, q.Tally()); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteQuestion(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.app.DeleteQuestion(c.Request().Context(), questionID, userID); err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(200, map[string]string{"status": "deleted"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetUser(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := s.app.GetUser(c.Request().Context(), userID)
	if err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(200, map[string]any{
		"id":         user.ID.String(),
		"reputation": user.Reputation,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
