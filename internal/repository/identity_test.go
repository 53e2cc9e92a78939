package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismowatch/faceauth/internal/domain"
)

var identityCols = []string{
	"id", "username", "email", "document", "role", "face_hash", "created_at", "updated_at",
}

func TestIdentityRepository_UpsertByUsername(t *testing.T) {
	now := time.Now()
	identityID := uuid.New()

	tests := []struct {
		name      string
		identity  *domain.Identity
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "creates new identity",
			identity: &domain.Identity{
				Username: "alice",
				Email:    "alice@example.com",
				Document: "11111111",
				FaceHash: "00ff00ff00ff00ff",
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(identityCols).AddRow(
					identityID, "alice", "alice@example.com", "11111111",
					"user", "00ff00ff00ff00ff", now, now,
				)
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", "11111111", "user", "00ff00ff00ff00ff").
					WillReturnRows(rows)
			},
			wantErr: nil,
		},
		{
			name: "re-enrollment overwrites fingerprint only",
			identity: &domain.Identity{
				Username: "alice",
				Email:    "alice+new@example.com",
				Document: "22222222",
				FaceHash: "ffffffffffffffff",
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				// Conflict path keeps the stored contact fields.
				rows := pgxmock.NewRows(identityCols).AddRow(
					identityID, "alice", "alice@example.com", "11111111",
					"user", "ffffffffffffffff", now, now,
				)
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(pgxmock.AnyArg(), "alice", "alice+new@example.com", "22222222", "user", "ffffffffffffffff").
					WillReturnRows(rows)
			},
			wantErr: nil,
		},
		{
			name: "duplicate contact field",
			identity: &domain.Identity{
				Username: "bob",
				Email:    "alice@example.com",
				Document: "33333333",
				FaceHash: "00ff00ff00ff00ff",
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(pgxmock.AnyArg(), "bob", "alice@example.com", "33333333", "user", "00ff00ff00ff00ff").
					WillReturnError(errors.New(`duplicate key value violates unique constraint "identities_email_key" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrDuplicateContact,
		},
		{
			name: "store busy on timeout",
			identity: &domain.Identity{
				Username: "carol",
				Email:    "carol@example.com",
				Document: "44444444",
				FaceHash: "00ff00ff00ff00ff",
			},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO identities`).
					WithArgs(pgxmock.AnyArg(), "carol", "carol@example.com", "44444444", "user", "00ff00ff00ff00ff").
					WillReturnError(context.DeadlineExceeded)
			},
			wantErr: domain.ErrStoreBusy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewIdentityRepository(mock)
			err = repo.UpsertByUsername(context.Background(), tt.identity)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, identityID, tt.identity.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIdentityRepository_ListAll(t *testing.T) {
	now := time.Now()
	idA := uuid.New()
	idB := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(identityCols).
		AddRow(idA, "alice", "alice@example.com", "11111111", "user", "00ff00ff00ff00ff", now, now).
		AddRow(idB, "bob", "bob@example.com", "22222222", "user", "ffffffffffffffff", now, now)

	mock.ExpectQuery(`SELECT (.+) FROM identities ORDER BY id`).WillReturnRows(rows)

	repo := NewIdentityRepository(mock)
	identities, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, identities, 2)
	assert.Equal(t, "alice", identities[0].Username)
	assert.Equal(t, "bob", identities[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityRepository_ListAll_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM identities ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(identityCols))

	repo := NewIdentityRepository(mock)
	identities, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, identities)
}

func TestIdentityRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM identities WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	repo := NewIdentityRepository(mock)
	_, err = repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func TestIdentityRepository_DeleteByUsername(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name:     "deletes existing identity",
			username: "alice",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM identities WHERE username = \$1`).
					WithArgs("alice").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			wantErr: nil,
		},
		{
			name:     "not found",
			username: "ghost",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM identities WHERE username = \$1`).
					WithArgs("ghost").
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantErr: domain.ErrIdentityNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewIdentityRepository(mock)
			err = repo.DeleteByUsername(context.Background(), tt.username)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
