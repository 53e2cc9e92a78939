package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/seismowatch/faceauth/internal/domain"
	"github.com/seismowatch/faceauth/internal/token"
)

const (
	// LocalSubjectID is the key to retrieve the session subject from context
	LocalSubjectID = "subject_id"
)

// TokenVerifier verifies a session token and returns its subject.
type TokenVerifier interface {
	Verify(tokenString string) (uuid.UUID, error)
}

// Session creates an authentication middleware for bearer session
// tokens issued by the face login flow.
func Session(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractBearerToken(c)
		if raw == "" {
			return domain.ErrInvalidToken
		}

		subjectID, err := verifier.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpiredToken) {
				return domain.ErrTokenExpired
			}
			return domain.ErrInvalidToken
		}

		c.Locals(LocalSubjectID, subjectID)

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetSubjectID retrieves the verified session subject from Fiber context
func GetSubjectID(c *fiber.Ctx) (uuid.UUID, error) {
	subjectID, ok := c.Locals(LocalSubjectID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrInvalidToken
	}
	return subjectID, nil
}
