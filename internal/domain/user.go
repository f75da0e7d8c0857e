package domain

import (
	"context"

	"github.com/google/uuid"
)

// User is the partial view this subsystem consumes: an identity and a signed
// reputation counter. Reputation has no floor; heavy downvoting can take it
// negative. Profile data (name, avatar, enrolment) is owned by the upstream
// identity service.
type User struct {
	ID         uuid.UUID
	Reputation int
}

// UserRepository abstracts the external user store. The ledger never caches
// or mutates reputation directly; every adjustment flows through
// ApplyReputationDelta exactly once per computed delta.
type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)

	// Ensure creates the user row with zero reputation if it does not exist.
	// Identity is asserted upstream; the ledger only needs the counter.
	Ensure(ctx context.Context, userID uuid.UUID) error

	// ApplyReputationDelta adds delta to the user's reputation counter.
	// Integer arithmetic, no rounding, no floor or ceiling.
	ApplyReputationDelta(ctx context.Context, userID uuid.UUID, delta int) error
}
