package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seismowatch/faceauth/internal/audit"
	"github.com/seismowatch/faceauth/internal/domain"
	"github.com/seismowatch/faceauth/internal/phash"
)

type IdentityRepositoryInterface interface {
	UpsertByUsername(ctx context.Context, identity *domain.Identity) error
	ListAll(ctx context.Context) ([]domain.Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	DeleteByUsername(ctx context.Context, username string) error
}

// AuthService owns enrollment and the face-match decision procedure.
// It only reads the identity store during authentication; a failed
// match never mutates state.
type AuthService struct {
	identityRepo IdentityRepositoryInterface
	auditLog     audit.Logger
	threshold    int
}

func NewAuthService(identityRepo IdentityRepositoryInterface, auditLog audit.Logger, threshold int) *AuthService {
	return &AuthService{
		identityRepo: identityRepo,
		auditLog:     auditLog,
		threshold:    threshold,
	}
}

// Threshold returns the configured accept threshold.
func (s *AuthService) Threshold() int {
	return s.threshold
}

// Register enrolls a new identity or re-enrolls an existing username
// with a fresh fingerprint. Hashing failure aborts before any record
// is touched. Missing contact fields are auto-generated so the
// uniqueness constraints always have a value to hold on to.
func (s *AuthService) Register(ctx context.Context, username, email, document string, imageBytes []byte) (*domain.Identity, error) {
	fingerprint, err := phash.Hash(imageBytes)
	if err != nil {
		return nil, mapHashErr(err)
	}

	if email == "" {
		email = fmt.Sprintf("%s+auto-%s@local.test", username, uuid.NewString()[:6])
	}
	if document == "" {
		document = "auto-" + uuid.NewString()[:8]
	}

	identity := &domain.Identity{
		Username: username,
		Email:    email,
		Document: document,
		FaceHash: string(fingerprint),
	}

	if err := s.identityRepo.UpsertByUsername(ctx, identity); err != nil {
		return nil, err
	}

	s.auditLog.Log(ctx, audit.Event{
		EventType: audit.EventIdentityRegistered,
		Success:   true,
	})

	return identity, nil
}

// Authenticate hashes the probe image and scans every enrolled
// identity for the global minimum Hamming distance. The full scan is
// deliberate: the closest match must win even when a worse but still
// under-threshold candidate appears earlier in iteration order. Ties
// keep the first record of the id-ordered snapshot, so the outcome is
// deterministic. An empty store rejects with the maximum distance.
func (s *AuthService) Authenticate(ctx context.Context, imageBytes []byte) (*domain.MatchResult, error) {
	probe, err := phash.Hash(imageBytes)
	if err != nil {
		return nil, mapHashErr(err)
	}

	identities, err := s.identityRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &domain.MatchResult{
		Distance:  phash.MaxDistance,
		Threshold: s.threshold,
	}

	for _, identity := range identities {
		d := phash.Distance(phash.Fingerprint(identity.FaceHash), probe)
		if d < result.Distance {
			result.Distance = d
			result.IdentityID = identity.ID
		}
	}

	// A match requires an actually selected candidate. With an empty
	// store, or when every stored hash is malformed, no candidate ever
	// beats the MaxDistance sentinel and the id stays nil; a threshold
	// of BitWidth must not turn that into an accept.
	result.Matched = result.IdentityID != uuid.Nil && result.Distance <= s.threshold
	if !result.Matched {
		result.IdentityID = uuid.Nil
	}

	s.auditLog.Log(ctx, audit.Event{
		EventType: audit.EventLoginAttempt,
		Success:   result.Matched,
		Distance:  result.Distance,
		Threshold: result.Threshold,
	})

	return result, nil
}

// GetIdentity returns the identity for a verified session subject.
func (s *AuthService) GetIdentity(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	return s.identityRepo.GetByID(ctx, id)
}

// ListIdentities returns every enrolled identity.
func (s *AuthService) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	return s.identityRepo.ListAll(ctx)
}

// DeleteIdentity removes an enrollment. Administrative operation; the
// matcher itself never deletes.
func (s *AuthService) DeleteIdentity(ctx context.Context, username string) error {
	if err := s.identityRepo.DeleteByUsername(ctx, username); err != nil {
		return err
	}

	s.auditLog.Log(ctx, audit.Event{
		EventType: audit.EventIdentityDeleted,
		Success:   true,
	})

	return nil
}

func mapHashErr(err error) error {
	switch {
	case errors.Is(err, phash.ErrEmptyImage):
		return domain.ErrEmptyImage.WithError(err)
	case errors.Is(err, phash.ErrDecode):
		return domain.ErrDecodeImage.WithError(err)
	default:
		return domain.ErrInternal.WithError(err)
	}
}
