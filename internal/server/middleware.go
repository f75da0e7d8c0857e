package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/vizzRG/campusconnect01/internal/errors"
)

// identityHeader carries the acting user, set by the upstream auth gateway.
const identityHeader = "X-User-ID"

// requireIdentity extracts the acting user from the identity header and
// stores it in the request context under "userID".
func (s *Server) requireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(identityHeader)
		if raw == "" {
			return apperrors.ValidationError("missing " + identityHeader + " header")
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.ValidationError("invalid " + identityHeader + " header").
				WithField("value", raw)
		}

		c.Set("userID", userID)
		return next(c)
	}
}

// actingUserID returns the identity stored by requireIdentity.
func actingUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalError("invalid user ID in context", nil)
	}
	return userID, nil
}
