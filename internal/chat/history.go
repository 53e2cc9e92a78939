package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Message is one stored assistant exchange.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Rule      string    `json:"rule"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryPool is the subset of pgxpool.Pool the history store uses.
// pgxmock.PgxPoolIface satisfies it in tests.
type HistoryPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// HistoryStore persists assistant exchanges for the dashboard's
// conversation view.
type HistoryStore struct {
	pool HistoryPool
}

func NewHistoryStore(pool HistoryPool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

// Save records one exchange.
func (s *HistoryStore) Save(ctx context.Context, message, reply, rule string) error {
	query := `
		INSERT INTO chat_messages (id, message, reply, rule, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	if _, err := s.pool.Exec(ctx, query, uuid.New(), message, reply, rule); err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}
	return nil
}

// Recent returns the latest exchanges, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Message, error) {
	query := `
		SELECT id, message, reply, rule, created_at
		FROM chat_messages
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Message, &m.Reply, &m.Rule, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
