package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when token validation fails
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when token is expired
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidClaims is returned when claims are invalid
	ErrInvalidClaims = errors.New("invalid claims")
)

// SessionClaims binds a session token to an identity.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// Issuer mints and verifies stateless session tokens. Validity is fully
// determined by signature and expiry; there is no revocation list, so
// a token remains usable until natural expiry.
type Issuer struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewIssuer creates a session token issuer.
func NewIssuer(secretKey, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}
}

// TTL returns the configured token lifetime.
func (s *Issuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given identity with an absolute expiry
// of now + TTL.
func (s *Issuer) Issue(subjectID uuid.UUID) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secretKey)
}

// Verify validates the signature and expiry and returns the embedded
// identity id.
func (s *Issuer) Verify(tokenString string) (uuid.UUID, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*SessionClaims)
	if !ok || !tok.Valid {
		return uuid.Nil, ErrInvalidClaims
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}

	return subjectID, nil
}
