package tutor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tutorgo/internal/models"
)

// conversationCacheTTL bounds how long an immutable conversation row may sit
// in redis.
const conversationCacheTTL = time.Hour

// CreateConversation inserts the registry row for a new tutoring
// conversation and returns the record.
func (s *Service) CreateConversation(ctx context.Context, sessionID, subject string) (*models.Conversation, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (session_id, subject, created_at) VALUES (?, ?, ?)`,
		sessionID, subject, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("conversation id: %w", err)
	}
	return &models.Conversation{ID: id, SessionID: sessionID, Subject: subject, CreatedAt: now}, nil
}

// GetConversation looks up one conversation by id, consulting the cache
// first. Returns ErrConversationNotFound for unknown ids.
func (s *Service) GetConversation(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	// A miss or an unavailable cache both fall through to the database.
	key := conversationCacheKey(conversationID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var conv models.Conversation
			if err := json.Unmarshal([]byte(raw), &conv); err == nil {
				return &conv, nil
			}
		}
	}

	var conv models.Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, subject, created_at FROM conversations WHERE id = ?`,
		conversationID,
	).Scan(&conv.ID, &conv.SessionID, &conv.Subject, &conv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(conv); err == nil {
			_ = s.cache.Set(ctx, key, raw, conversationCacheTTL)
		}
	}
	return &conv, nil
}

// ListConversationsBySession returns all conversations for a session,
// most recent first.
func (s *Service) ListConversationsBySession(ctx context.Context, sessionID string) ([]models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, subject, created_at FROM conversations WHERE session_id = ? ORDER BY created_at DESC, id DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Subject, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// AddMessage appends one message to a conversation's log.
func (s *Service) AddMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, message_type, timestamp) VALUES (?, ?, ?, ?, ?)`,
		msg.ConversationID, msg.Role, msg.Content, msg.MessageType, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	msg.ID = id
	msg.Timestamp = now
	return &msg, nil
}

// addMessagePair appends the user message and the assistant reply of one
// turn inside a single transaction, so a storage fault cannot leave an
// orphaned user message behind.
func (s *Service) addMessagePair(ctx context.Context, user, assistant models.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, msg := range []models.Message{user, assistant} {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO messages (conversation_id, role, content, message_type, timestamp) VALUES (?, ?, ?, ?, ?)`,
			msg.ConversationID, msg.Role, msg.Content, msg.MessageType, now,
		); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit message pair: %w", err)
	}
	return nil
}

// GetHistory returns a conversation's ordered message log. The id tiebreaker
// keeps the order stable when the timestamp column's resolution collapses
// adjacent writes.
func (s *Service) GetHistory(ctx context.Context, conversationID int64) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, message_type, timestamp FROM messages WHERE conversation_id = ? ORDER BY timestamp ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.MessageType, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func conversationCacheKey(conversationID int64) string {
	return fmt.Sprintf("conversation:%d", conversationID)
}
