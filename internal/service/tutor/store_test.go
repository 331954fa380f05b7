package tutor

import (
	"context"
	"testing"

	"tutorgo/internal/models"
)

func TestMessageRoundTripPreservesFields(t *testing.T) {
	svc, db := newTestService(t, &fakeGenerator{})
	defer db.Close()

	conv, err := svc.CreateConversation(context.Background(), "session-1", "Unicode")
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	content := "línea uno\nline two — with punctuation, quotes \"and\" more\t日本語"
	if _, err := svc.AddMessage(context.Background(), models.Message{
		ConversationID: conv.ID,
		Role:           models.RoleUser,
		Content:        content,
		MessageType:    models.TypeQuestion,
	}); err != nil {
		t.Fatalf("add message: %v", err)
	}

	history, err := svc.GetHistory(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one message, got %d", len(history))
	}
	got := history[0]
	if got.Role != models.RoleUser || got.MessageType != models.TypeQuestion {
		t.Fatalf("role or type not preserved: %+v", got)
	}
	if got.Content != content {
		t.Fatalf("content not preserved byte-for-byte: %q", got.Content)
	}
}

func TestHistoryOrderingIsStable(t *testing.T) {
	svc, db := newTestService(t, &fakeGenerator{})
	defer db.Close()

	conv, err := svc.CreateConversation(context.Background(), "session-1", "Ordering")
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	for i := 0; i < 6; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		seedMessage(t, svc, conv.ID, role, "content", models.TypeChat)
	}

	first, err := svc.GetHistory(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	second, err := svc.GetHistory(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("get history again: %v", err)
	}
	if len(first) != 6 || len(second) != 6 {
		t.Fatalf("unexpected lengths: %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("history order not stable at index %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
		if i > 0 && first[i].Timestamp.Before(first[i-1].Timestamp) {
			t.Fatalf("timestamps not non-decreasing at index %d", i)
		}
		if i > 0 && first[i].ID <= first[i-1].ID {
			t.Fatalf("insertion order not preserved at index %d", i)
		}
	}
}

func TestListConversationsBySessionMostRecentFirst(t *testing.T) {
	svc, db := newTestService(t, &fakeGenerator{})
	defer db.Close()

	ctx := context.Background()
	subjects := []string{"Algebra", "Biology", "Chemistry"}
	for _, subject := range subjects {
		if _, err := svc.CreateConversation(ctx, "session-1", subject); err != nil {
			t.Fatalf("create conversation: %v", err)
		}
	}
	if _, err := svc.CreateConversation(ctx, "session-2", "Other"); err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	conversations, err := svc.ListConversationsBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if len(conversations) != 3 {
		t.Fatalf("expected 3 conversations, got %d", len(conversations))
	}
	want := []string{"Chemistry", "Biology", "Algebra"}
	for i, subject := range want {
		if conversations[i].Subject != subject {
			t.Fatalf("unexpected order at %d: got %q, want %q", i, conversations[i].Subject, subject)
		}
	}
}

func TestGetConversationUnknownID(t *testing.T) {
	svc, db := newTestService(t, &fakeGenerator{})
	defer db.Close()

	if _, err := svc.GetConversation(context.Background(), 424242); err != ErrConversationNotFound {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}
