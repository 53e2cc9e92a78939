package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is an enrolled user and their face fingerprint.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Document  string    `json:"document"`
	Role      string    `json:"role"`
	FaceHash  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultRole is assigned to identities created through self-registration.
const DefaultRole = "user"

// MatchResult is the outcome of a single authentication attempt.
// It is produced fresh per attempt and never persisted.
type MatchResult struct {
	Matched    bool
	IdentityID uuid.UUID
	Distance   int
	Threshold  int
}
