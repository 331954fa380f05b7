package tutor

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"tutorgo/internal/config"
	"tutorgo/internal/models"
	"tutorgo/internal/service/ai"
	"tutorgo/internal/storage"
)

// fakeGenerator scripts generation results and records every prompt it saw.
type fakeGenerator struct {
	reply   string
	fail    bool
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) ai.Result {
	f.prompts = append(f.prompts, prompt)
	if f.fail {
		err := errors.New("backend unreachable")
		return ai.Result{Text: ai.Apology(err), Err: err}
	}
	reply := f.reply
	if reply == "" {
		reply = "generated reply"
	}
	return ai.Result{Text: reply}
}

func (f *fakeGenerator) lastPrompt(t *testing.T) string {
	t.Helper()
	if len(f.prompts) == 0 {
		t.Fatalf("no prompts were generated")
	}
	return f.prompts[len(f.prompts)-1]
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// one connection keeps the in-memory database alive across the pool
	db.SetMaxOpenConns(1)
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func newTestService(t *testing.T, llm Generator) (*Service, *sql.DB) {
	t.Helper()
	db := openTestDB(t)
	svc, err := NewService(db, llm, nil)
	if err != nil {
		db.Close()
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func seedMessage(t *testing.T, svc *Service, conversationID int64, role models.Role, content string, msgType models.MessageType) {
	t.Helper()
	_, err := svc.AddMessage(context.Background(), models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		MessageType:    msgType,
	})
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
}

func countMessages(t *testing.T, db *sql.DB, conversationID int64) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID).Scan(&n); err != nil {
		t.Fatalf("count messages: %v", err)
	}
	return n
}
