package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of auditable event
type EventType string

const (
	EventLoginAttempt       EventType = "LOGIN_ATTEMPT"
	EventIdentityRegistered EventType = "IDENTITY_REGISTERED"
	EventIdentityDeleted    EventType = "IDENTITY_DELETED"
)

// Event is a structured audit record. The match path logs only the
// numeric outcome (distance, threshold, matched); which stored
// identities were compared is deliberately redacted so the audit
// channel cannot be used to enumerate enrollments.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	EventType EventType
	Success   bool
	Distance  int
	Threshold int
	Error     string
	IPAddress string
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, event Event)
}

// SlogLogger implements Logger using slog
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a new audit logger using slog
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{
		logger: logger.With("component", "audit"),
	}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.EventType)),
		slog.Time("timestamp", event.Timestamp),
		slog.Bool("success", event.Success),
	}

	if event.EventType == EventLoginAttempt {
		attrs = append(attrs,
			slog.Int("distance", event.Distance),
			slog.Int("threshold", event.Threshold),
		)
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}

	l.logger.InfoContext(ctx, "audit_event", attrs...)
}

// NoOpLogger is a logger that does nothing (for testing or when audit is disabled)
type NoOpLogger struct{}

// Log does nothing
func (l *NoOpLogger) Log(_ context.Context, _ Event) {}
