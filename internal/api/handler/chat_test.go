package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seismowatch/faceauth/internal/chat"
)

// MockChatHistory is a mock implementation of ChatHistory
type MockChatHistory struct {
	mock.Mock
}

func (m *MockChatHistory) Save(ctx context.Context, message, reply, rule string) error {
	args := m.Called(ctx, message, reply, rule)
	return args.Error(0)
}

func (m *MockChatHistory) Recent(ctx context.Context, limit int) ([]chat.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chat.Message), args.Error(1)
}

func newChatResponder() *chat.Responder {
	return chat.NewResponder(chat.DefaultRules(), "Sorry, I did not understand that.")
}

func TestChatHandler_Chat(t *testing.T) {
	handler := NewChatHandler(newChatResponder(), nil, testLogger())

	app := createTestApp()
	app.Post("/v1/chat", handler.Chat)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedRule   string
	}{
		{"greeting", `{"message":"Hello there"}`, 200, "greeting"},
		{"fallback", `{"message":"what is the meaning of life"}`, 200, "fallback"},
		{"empty message", `{"message":"  "}`, 422, ""},
		{"invalid json", `{message}`, 400, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/chat", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedRule != "" {
				var chatResp ChatResponse
				respBody, _ := io.ReadAll(resp.Body)
				require.NoError(t, json.Unmarshal(respBody, &chatResp))
				assert.Equal(t, tt.expectedRule, chatResp.Rule)
				assert.NotEmpty(t, chatResp.Reply)
			}
		})
	}
}

func TestChatHandler_Chat_PersistsExchange(t *testing.T) {
	history := &MockChatHistory{}
	history.On("Save", mock.Anything, "Hello there", mock.Anything, "greeting").Return(nil)

	handler := NewChatHandler(newChatResponder(), history, testLogger())
	app := createTestApp()
	app.Post("/v1/chat", handler.Chat)

	req := httptest.NewRequest("POST", "/v1/chat", bytes.NewBufferString(`{"message":"Hello there"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	history.AssertExpectations(t)
}

func TestChatHandler_Chat_HistoryFailureStillReplies(t *testing.T) {
	history := &MockChatHistory{}
	history.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	handler := NewChatHandler(newChatResponder(), history, testLogger())
	app := createTestApp()
	app.Post("/v1/chat", handler.Chat)

	req := httptest.NewRequest("POST", "/v1/chat", bytes.NewBufferString(`{"message":"Hello there"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestChatHandler_History(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockChatHistory)
		expectedStatus int
		expectedLen    int
	}{
		{
			name:  "default limit",
			query: "",
			setupMock: func(m *MockChatHistory) {
				m.On("Recent", mock.Anything, 50).Return([]chat.Message{
					{ID: uuid.New(), Message: "hi", Reply: "Hello!", Rule: "greeting", CreatedAt: time.Now()},
				}, nil)
			},
			expectedStatus: 200,
			expectedLen:    1,
		},
		{
			name:  "explicit limit",
			query: "?limit=5",
			setupMock: func(m *MockChatHistory) {
				m.On("Recent", mock.Anything, 5).Return([]chat.Message{}, nil)
			},
			expectedStatus: 200,
			expectedLen:    0,
		},
		{
			name:           "limit out of range",
			query:          "?limit=9000",
			setupMock:      func(m *MockChatHistory) {},
			expectedStatus: 422,
		},
		{
			name:  "store failure",
			query: "",
			setupMock: func(m *MockChatHistory) {
				m.On("Recent", mock.Anything, 50).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &MockChatHistory{}
			tt.setupMock(history)

			handler := NewChatHandler(newChatResponder(), history, testLogger())
			app := createTestApp()
			app.Get("/v1/chat/history", handler.History)

			resp, err := app.Test(httptest.NewRequest("GET", "/v1/chat/history"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == 200 {
				var messages []chat.Message
				respBody, _ := io.ReadAll(resp.Body)
				require.NoError(t, json.Unmarshal(respBody, &messages))
				assert.Len(t, messages, tt.expectedLen)
			}

			history.AssertExpectations(t)
		})
	}
}
