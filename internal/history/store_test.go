package history

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.StartSession(ctx, "s1", "is AAPL a buy?"); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if err := store.AppendMessage(ctx, Message{SessionID: "s1", Role: "user", Content: "is AAPL a buy?", Seq: 1}); err != nil {
		t.Fatalf("append user: %v", err)
	}
	if err := store.AppendMessage(ctx, Message{SessionID: "s1", Role: "assistant", Content: "Checking the data.", Seq: 2}); err != nil {
		t.Fatalf("append assistant: %v", err)
	}

	messages, err := store.Messages(ctx, "s1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	if messages[0].Role != "user" || messages[1].Role != "assistant" {
		t.Errorf("wrong order: %v, %v", messages[0].Role, messages[1].Role)
	}

	sessions, err := store.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Title != "is AAPL a buy?" {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestSessionTitleTruncated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	long := ""
	for i := 0; i < 20; i++ {
		long += "0123456789"
	}
	if err := store.StartSession(ctx, "s1", long); err != nil {
		t.Fatalf("start session: %v", err)
	}

	sessions, err := store.ListSessions(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions[0].Title) != 80 {
		t.Errorf("title len = %d, want 80", len(sessions[0].Title))
	}
}

func TestAppendMessageValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AppendMessage(ctx, Message{SessionID: "s1", Content: "x", Seq: 1}); err == nil {
		t.Error("missing role should fail")
	}
	if err := store.AppendMessage(ctx, Message{SessionID: "s1", Role: "user", Seq: 0}); err == nil {
		t.Error("zero seq should fail")
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.StartSession(ctx, "s1", "t"); err != nil {
		t.Fatal(err)
	}
	if err := store.AppendMessage(ctx, Message{SessionID: "s1", Role: "user", Content: "x", Seq: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	messages, err := store.Messages(ctx, "s1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("messages after delete = %d, want 0", len(messages))
	}
}
