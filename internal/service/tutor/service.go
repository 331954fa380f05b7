// Package tutor holds the conversation engine: for each new user turn it
// decides whether to answer a question, generate an evaluation question, or
// grade a student's answer, assembles the matching prompt, and persists the
// exchange.
package tutor

import (
	"context"
	"database/sql"
	"errors"

	"tutorgo/internal/redis"
	"tutorgo/internal/service/ai"
	"tutorgo/internal/worker"
)

// ErrConversationNotFound is returned when a turn references an unknown
// conversation id. It is the one structured error of the engine contract;
// adapters render it rather than a generic failure.
var ErrConversationNotFound = errors.New("conversation not found")

// Generator produces one completion per fully rendered prompt. It must not
// fail outward: degraded output is reported through the Result.
type Generator interface {
	Generate(ctx context.Context, prompt string) ai.Result
}

// Service composes the message store, the generation client, and the
// per-conversation serializer.
type Service struct {
	db    *sql.DB
	llm   Generator
	cache *redis.Client
	turns *worker.Serializer
}

// NewService constructs the engine. cache may be nil, which disables
// conversation-row caching.
func NewService(db *sql.DB, llm Generator, cache *redis.Client) (*Service, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if llm == nil {
		return nil, errors.New("generator is required")
	}
	return &Service{
		db:    db,
		llm:   llm,
		cache: cache,
		turns: worker.NewSerializer(),
	}, nil
}
