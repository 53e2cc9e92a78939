package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seismowatch/faceauth/internal/chat"
	"github.com/seismowatch/faceauth/internal/domain"
)

const (
	maxChatMessageLen  = 2000
	defaultHistorySize = 50
	maxHistorySize     = 200
)

// ChatHistory persists and lists assistant exchanges.
type ChatHistory interface {
	Save(ctx context.Context, message, reply, rule string) error
	Recent(ctx context.Context, limit int) ([]chat.Message, error)
}

// ChatHandler serves the dashboard's canned assistant
type ChatHandler struct {
	responder *chat.Responder
	history   ChatHistory
	logger    *slog.Logger
}

func NewChatHandler(responder *chat.Responder, history ChatHistory, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		responder: responder,
		history:   history,
		logger:    logger,
	}
}

// ChatRequest request body for the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse response with the matched rule for diagnostics
type ChatResponse struct {
	Reply string `json:"reply"`
	Rule  string `json:"rule"`
}

// Chat POST /v1/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.ErrValidationFailed.WithError(errors.New("message is required"))
	}
	if len(message) > maxChatMessageLen {
		return domain.ErrValidationFailed.WithError(errors.New("message too long"))
	}

	reply, rule := h.responder.Reply(message)

	// History is best-effort; a storage hiccup must not fail the reply.
	if h.history != nil {
		if err := h.history.Save(c.Context(), message, reply, rule); err != nil {
			h.logger.Warn("failed to save chat message", slog.String("error", err.Error()))
		}
	}

	return c.JSON(ChatResponse{
		Reply: reply,
		Rule:  rule,
	})
}

// History GET /v1/chat/history
func (h *ChatHandler) History(c *fiber.Ctx) error {
	limit := defaultHistorySize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistorySize {
			return domain.ErrValidationFailed.WithError(errors.New("limit must be between 1 and 200"))
		}
		limit = parsed
	}

	messages, err := h.history.Recent(c.Context(), limit)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	if messages == nil {
		messages = []chat.Message{}
	}

	return c.JSON(messages)
}
