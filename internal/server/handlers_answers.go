package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vizzRG/campusconnect01/internal/domain"
	apperrors "github.com/vizzRG/campusconnect01/internal/errors"
)

type createAnswerRequest struct {
	Body string `json:"body"`
}

type answerResponse struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	AuthorID   string    `json:"authorId"`
	Body       string    `json:"body"`
	Upvotes    int       `json:"upvotes"`
	Downvotes  int       `json:"downvotes"`
	VoteScore  int       `json:"voteScore"`
	IsAccepted bool      `json:"isAccepted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toAnswerResponse(a *domain.Answer) answerResponse {
	tally := a.Tally()
	return answerResponse{
		ID:         a.ID.String(),
		QuestionID: a.QuestionID.String(),
		AuthorID:   a.AuthorID.String(),
		Body:       a.Body,
		Upvotes:    tally.Upvotes,
		Downvotes:  tally.Downvotes,
		VoteScore:  tally.VoteScore,
		IsAccepted: a.IsAccepted,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (s *Server) handleCreateAnswer(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req createAnswerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return apperrors.ValidationError("body is required")
	}

	a, err := s.app.PostAnswer(c.Request().Context(), questionID, userID, req.Body)
	if err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(201, toAnswerResponse(a)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleVoteAnswer(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	a, err := s.app.VoteOnAnswer(c.Request().Context(), answerID, userID, domain.Direction(req.Direction))
	if err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(200, a.Tally()); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAcceptAnswer(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	q, err := s.app.AcceptAnswer(c.Request().Context(), answerID, userID)
	if err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(200, map[string]any{
		"accepted":         true,
		"acceptedAnswerId": q.AcceptedAnswerID.String(),
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteAnswer(c echo.Context) error {
	userID, err := actingUserID(c)
	if err != nil {
		return err
	}
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.app.DeleteAnswer(c.Request().Context(), answerID, userID); err != nil {
		return mapDomainError(err)
	}

	if err := c.JSON(200, map[string]string{"status": "deleted"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
