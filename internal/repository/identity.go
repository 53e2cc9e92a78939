package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/seismowatch/faceauth/internal/domain"
)

// queryTimeout bounds how long a single operation may wait on the
// store before failing with a retryable StoreBusy error.
const queryTimeout = 5 * time.Second

const identityColumns = "id, username, email, document, role, face_hash, created_at, updated_at"

type IdentityRepository struct {
	pool PgxPool
}

func NewIdentityRepository(pool PgxPool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// UpsertByUsername creates a new identity, or overwrites the stored
// fingerprint when the username is already enrolled. Re-enrollment is
// idempotent: contact fields are left untouched and not re-validated.
// The single-statement upsert keeps writers serialized per row, so a
// concurrent reader never observes a half-written record.
func (r *IdentityRepository) UpsertByUsername(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO identities (id, username, email, document, role, face_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET
			face_hash = EXCLUDED.face_hash,
			updated_at = NOW()
		RETURNING ` + identityColumns

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	if identity.Role == "" {
		identity.Role = domain.DefaultRole
	}

	err := r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.Username,
		identity.Email,
		identity.Document,
		identity.Role,
		identity.FaceHash,
	).Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.Document,
		&identity.Role,
		&identity.FaceHash,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateContact
		}
		if isTimeout(err) {
			return domain.ErrStoreBusy.WithError(err)
		}
		return fmt.Errorf("upsert identity: %w", err)
	}

	return nil
}

// ListAll returns every enrolled identity ordered by id so that a
// matcher scan is deterministic for a given store snapshot.
func (r *IdentityRepository) ListAll(ctx context.Context) ([]domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + identityColumns + `
		FROM identities
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		if isTimeout(err) {
			return nil, domain.ErrStoreBusy.WithError(err)
		}
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.Username,
			&identity.Email,
			&identity.Document,
			&identity.Role,
			&identity.FaceHash,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, identity)
	}

	if err := rows.Err(); err != nil {
		if isTimeout(err) {
			return nil, domain.ErrStoreBusy.WithError(err)
		}
		return nil, fmt.Errorf("list identities: %w", err)
	}

	return identities, nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + identityColumns + `
		FROM identities
		WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get identity by id")
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + identityColumns + `
		FROM identities
		WHERE email = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, email), "get identity by email")
}

func (r *IdentityRepository) DeleteByUsername(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		DELETE FROM identities
		WHERE username = $1
	`

	result, err := r.pool.Exec(ctx, query, username)
	if err != nil {
		if isTimeout(err) {
			return domain.ErrStoreBusy.WithError(err)
		}
		return fmt.Errorf("delete identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

func (r *IdentityRepository) scanOne(row pgx.Row, op string) (*domain.Identity, error) {
	var identity domain.Identity
	err := row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.Document,
		&identity.Role,
		&identity.FaceHash,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if isTimeout(err) {
		return nil, domain.ErrStoreBusy.WithError(err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &identity, nil
}
