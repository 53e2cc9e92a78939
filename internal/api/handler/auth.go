package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/seismowatch/faceauth/internal/api/middleware"
	"github.com/seismowatch/faceauth/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AuthService interface for the service
type AuthService interface {
	Register(ctx context.Context, username, email, document string, imageBytes []byte) (*domain.Identity, error)
	Authenticate(ctx context.Context, imageBytes []byte) (*domain.MatchResult, error)
	GetIdentity(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
	DeleteIdentity(ctx context.Context, username string) error
}

// TokenIssuer mints session tokens for matched identities.
type TokenIssuer interface {
	Issue(subjectID uuid.UUID) (string, error)
}

// AuthHandler handles registration and face login requests
type AuthHandler struct {
	service AuthService
	tokens  TokenIssuer
	ttlSecs int64
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(service AuthService, tokens TokenIssuer, ttlSecs int64, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
		ttlSecs: ttlSecs,
		logger:  logger,
	}
}

// LoginResponse response for the face login endpoint
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// NoMatchResponse is returned on rejected logins. It carries the
// best-candidate distance for operator diagnostics and nothing that
// identifies which enrollment was closest.
type NoMatchResponse struct {
	Error    ErrorBody `json:"error"`
	Distance int       `json:"distance"`
}

// ErrorBody mirrors the error envelope produced by the error handler
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Register POST /v1/auth/register - enroll a face
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	if username == "" {
		return domain.ErrValidationFailed.WithError(errors.New("username is required"))
	}

	email := strings.TrimSpace(c.FormValue("email"))
	document := strings.TrimSpace(c.FormValue("document"))

	imageBytes, err := extractImage(c)
	if err != nil {
		return err
	}

	identity, err := h.service.Register(c.Context(), username, email, document, imageBytes)
	if err != nil {
		return err
	}

	// The fingerprint never leaves the service; Identity marshals
	// without it.
	return c.Status(fiber.StatusCreated).JSON(identity)
}

// Login POST /v1/auth/login - authenticate by face
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c)
	if err != nil {
		return err
	}

	result, err := h.service.Authenticate(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	if !result.Matched {
		return c.Status(domain.ErrNoMatch.StatusCode).JSON(NoMatchResponse{
			Error: ErrorBody{
				Code:    domain.ErrNoMatch.Code,
				Message: domain.ErrNoMatch.Message,
			},
			Distance: result.Distance,
		})
	}

	accessToken, err := h.tokens.Issue(result.IdentityID)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   h.ttlSecs,
	})
}

// Me GET /v1/auth/me - introspect the current session
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	subjectID, err := middleware.GetSubjectID(c)
	if err != nil {
		return err
	}

	identity, err := h.service.GetIdentity(c.Context(), subjectID)
	if err != nil {
		return err
	}

	return c.JSON(identity)
}

// ListUsers GET /v1/users - list enrolled identities
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	identities, err := h.service.ListIdentities(c.Context())
	if err != nil {
		return err
	}

	if identities == nil {
		identities = []domain.Identity{}
	}

	return c.JSON(identities)
}

// DeleteUser DELETE /v1/users/:username - administrative removal
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return domain.ErrValidationFailed.WithError(errors.New("username is required"))
	}

	if err := h.service.DeleteIdentity(c.Context(), username); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// extractImage extracts and validates the face image from the form
func extractImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrEmptyImage.WithError(err)
	}

	if file.Size == 0 {
		return nil, domain.ErrEmptyImage
	}

	if file.Size > maxImageSize {
		return nil, domain.ErrDecodeImage.WithError(errors.New("image exceeds size limit"))
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !validImageTypes[contentType] {
		return nil, domain.ErrDecodeImage.WithError(errors.New("unsupported content type"))
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrDecodeImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrDecodeImage.WithError(err)
	}

	return imageBytes, nil
}
