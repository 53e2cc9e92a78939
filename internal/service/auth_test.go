package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seismowatch/faceauth/internal/audit"
	"github.com/seismowatch/faceauth/internal/domain"
	"github.com/seismowatch/faceauth/internal/phash"
)

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) UpsertByUsername(ctx context.Context, identity *domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockIdentityRepository) ListAll(ctx context.Context) ([]domain.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) DeleteByUsername(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func testImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fingerprintAtDistance derives a stored hash at an exact Hamming
// distance from the probe by flipping the lowest d bits.
func fingerprintAtDistance(t *testing.T, probe phash.Fingerprint, d int) string {
	t.Helper()

	v, err := strconv.ParseUint(string(probe), 16, 64)
	require.NoError(t, err)

	var mask uint64
	for i := 0; i < d; i++ {
		mask |= 1 << uint(i)
	}

	derived := phash.Fingerprint(fmt.Sprintf("%016x", v^mask))
	require.Equal(t, d, phash.Distance(probe, derived))
	return string(derived)
}

func TestAuthService_Authenticate_GlobalMinimumWins(t *testing.T) {
	imageBytes := testImage(t)
	probe, err := phash.Hash(imageBytes)
	require.NoError(t, err)

	// The under-threshold candidate at distance 5 is deliberately not
	// the first in iteration order.
	identities := []domain.Identity{
		{ID: uuid.New(), Username: "far", FaceHash: fingerprintAtDistance(t, probe, 20)},
		{ID: uuid.New(), Username: "closest", FaceHash: fingerprintAtDistance(t, probe, 5)},
		{ID: uuid.New(), Username: "farther", FaceHash: fingerprintAtDistance(t, probe, 30)},
	}

	repo := &MockIdentityRepository{}
	repo.On("ListAll", mock.Anything).Return(identities, nil)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	result, err := svc.Authenticate(context.Background(), imageBytes)

	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, identities[1].ID, result.IdentityID)
	assert.Equal(t, 5, result.Distance)
	assert.Equal(t, 16, result.Threshold)
}

func TestAuthService_Authenticate_RejectsAboveThreshold(t *testing.T) {
	imageBytes := testImage(t)
	probe, err := phash.Hash(imageBytes)
	require.NoError(t, err)

	identities := []domain.Identity{
		{ID: uuid.New(), Username: "far", FaceHash: fingerprintAtDistance(t, probe, 20)},
		{ID: uuid.New(), Username: "farther", FaceHash: fingerprintAtDistance(t, probe, 30)},
	}

	repo := &MockIdentityRepository{}
	repo.On("ListAll", mock.Anything).Return(identities, nil)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	result, err := svc.Authenticate(context.Background(), imageBytes)

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, uuid.Nil, result.IdentityID)
	assert.Equal(t, 20, result.Distance)
}

func TestAuthService_Authenticate_EmptyStore(t *testing.T) {
	repo := &MockIdentityRepository{}
	repo.On("ListAll", mock.Anything).Return([]domain.Identity{}, nil)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	result, err := svc.Authenticate(context.Background(), testImage(t))

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, phash.MaxDistance, result.Distance)
}

func TestAuthService_Authenticate_ExactReplayMatches(t *testing.T) {
	imageBytes := testImage(t)
	probe, err := phash.Hash(imageBytes)
	require.NoError(t, err)

	carol := domain.Identity{ID: uuid.New(), Username: "carol", FaceHash: string(probe)}

	repo := &MockIdentityRepository{}
	repo.On("ListAll", mock.Anything).Return([]domain.Identity{carol}, nil)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	result, err := svc.Authenticate(context.Background(), imageBytes)

	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, carol.ID, result.IdentityID)
	assert.Equal(t, 0, result.Distance)
}

func TestAuthService_Authenticate_MalformedStoredHashNeverMatches(t *testing.T) {
	identities := []domain.Identity{
		{ID: uuid.New(), Username: "broken", FaceHash: ""},
		{ID: uuid.New(), Username: "corrupt", FaceHash: "not-hex"},
	}

	repo := &MockIdentityRepository{}
	repo.On("ListAll", mock.Anything).Return(identities, nil)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	result, err := svc.Authenticate(context.Background(), testImage(t))

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, phash.MaxDistance, result.Distance)
}

func TestAuthService_Authenticate_MaxThresholdStaysFailClosed(t *testing.T) {
	identities := []domain.Identity{
		{ID: uuid.New(), Username: "broken", FaceHash: ""},
		{ID: uuid.New(), Username: "corrupt", FaceHash: "not-hex"},
	}

	repo := &MockIdentityRepository{}
	repo.On("ListAll", mock.Anything).Return(identities, nil)

	// Even at the loosest permitted threshold, a store with no usable
	// fingerprints must not produce a match for a nil candidate.
	svc := NewAuthService(repo, &audit.NoOpLogger{}, phash.BitWidth)
	result, err := svc.Authenticate(context.Background(), testImage(t))

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, uuid.Nil, result.IdentityID)
	assert.Equal(t, phash.MaxDistance, result.Distance)
}

func TestAuthService_Authenticate_BadImage(t *testing.T) {
	repo := &MockIdentityRepository{}
	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)

	_, err := svc.Authenticate(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, domain.ErrDecodeImage)

	_, err = svc.Authenticate(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyImage)

	repo.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestAuthService_Register(t *testing.T) {
	repo := &MockIdentityRepository{}
	repo.On("UpsertByUsername", mock.Anything, mock.MatchedBy(func(identity *domain.Identity) bool {
		return identity.Username == "alice" && phash.Valid(phash.Fingerprint(identity.FaceHash))
	})).Return(nil)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	identity, err := svc.Register(context.Background(), "alice", "alice@example.com", "11111111", testImage(t))

	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_AutoGeneratesContactFields(t *testing.T) {
	repo := &MockIdentityRepository{}
	repo.On("UpsertByUsername", mock.Anything, mock.Anything).Return(nil)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	identity, err := svc.Register(context.Background(), "bob", "", "", testImage(t))

	require.NoError(t, err)
	assert.Contains(t, identity.Email, "bob+auto-")
	assert.Contains(t, identity.Document, "auto-")
}

func TestAuthService_Register_BadImageCreatesNothing(t *testing.T) {
	repo := &MockIdentityRepository{}

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	_, err := svc.Register(context.Background(), "alice", "", "", []byte("junk"))

	assert.ErrorIs(t, err, domain.ErrDecodeImage)
	repo.AssertNotCalled(t, "UpsertByUsername", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateContact(t *testing.T) {
	repo := &MockIdentityRepository{}
	repo.On("UpsertByUsername", mock.Anything, mock.Anything).Return(domain.ErrDuplicateContact)

	svc := NewAuthService(repo, &audit.NoOpLogger{}, 16)
	_, err := svc.Register(context.Background(), "bob", "alice@example.com", "", testImage(t))

	assert.ErrorIs(t, err, domain.ErrDuplicateContact)
}
