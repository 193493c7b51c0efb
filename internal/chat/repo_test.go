package chat

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestRepo_GetConversation_OrderAndOwnership(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	conv := seedConversation(t, r, "alice", "writing")

	for _, m := range []Message{
		{ConversationID: conv.ID, Role: RoleUser, Content: "one"},
		{ConversationID: conv.ID, Role: RoleAssistant, Content: "two"},
		{ConversationID: conv.ID, Role: RoleUser, Content: "three"},
	} {
		if err := r.AppendMessage(ctx, &m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := r.GetConversation(ctx, conv.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Messages) != 3 || got.Messages[0].Content != "one" || got.Messages[2].Content != "three" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if roles(got.Messages) != "user,assistant,user" {
		t.Fatalf("unexpected roles: %s", roles(got.Messages))
	}

	if _, err := r.GetConversation(ctx, conv.ID, "bob"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
	if _, err := r.GetConversation(ctx, conv.ID+100, "alice"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for missing id, got %v", err)
	}
}

func TestRepo_GetConversation_IdempotentReads(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	conv := seedConversation(t, r, "alice", "branding")
	for _, c := range []string{"a", "b"} {
		if err := r.AppendMessage(ctx, &Message{ConversationID: conv.ID, Role: RoleUser, Content: c}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	first, err := r.GetConversation(ctx, conv.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := r.GetConversation(ctx, conv.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(first.Messages) != len(second.Messages) {
		t.Fatalf("message count changed between reads")
	}
	for i := range first.Messages {
		a, b := first.Messages[i], second.Messages[i]
		if a.ID != b.ID || a.Role != b.Role || a.Content != b.Content || !a.CreatedAt.Equal(b.CreatedAt) {
			t.Fatalf("read %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestRepo_ListConversations_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	if got, err := r.ListConversations(ctx, "alice"); err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v err=%v", got, err)
	}

	c1 := seedConversation(t, r, "alice", "writing")
	c2 := seedConversation(t, r, "alice", "creative")
	seedConversation(t, r, "bob", "analytics")

	// touching c1 moves it to the front
	if err := r.AppendMessage(ctx, &Message{ConversationID: c1.ID, Role: RoleUser, Content: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := r.ListConversations(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(got))
	}
	if got[0].ID != c1.ID || got[1].ID != c2.ID {
		t.Fatalf("unexpected order: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestRepo_AppendMessage_BumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	conv := seedConversation(t, r, "alice", "writing")

	msg := &Message{ConversationID: conv.ID, Role: RoleUser, Content: "hello"}
	if err := r.AppendMessage(ctx, msg); err != nil {
		t.Fatalf("append: %v", err)
	}
	if msg.ID == 0 {
		t.Fatalf("expected store-assigned id")
	}

	got, err := r.GetConversation(ctx, conv.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.UpdatedAt.After(conv.UpdatedAt) {
		t.Fatalf("expected updated_at to move forward: before=%s after=%s", conv.UpdatedAt, got.UpdatedAt)
	}
	if !got.UpdatedAt.Equal(msg.CreatedAt) {
		t.Fatalf("expected updated_at == message created_at")
	}
}

func TestRepo_AppendMessage_Rejects(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	conv := seedConversation(t, r, "alice", "writing")

	if err := r.AppendMessage(ctx, &Message{ConversationID: conv.ID + 42, Role: RoleUser, Content: "x"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for missing conversation, got %v", err)
	}
	if err := r.AppendMessage(ctx, &Message{ConversationID: conv.ID, Role: Role("system"), Content: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid role to be rejected, got %v", err)
	}
	if err := r.AppendMessage(ctx, &Message{ConversationID: conv.ID, Role: RoleUser, Content: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected blank content to be rejected, got %v", err)
	}

	msgs, err := r.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected nothing persisted, got %d messages", len(msgs))
	}
}

func TestRepo_UpdateTitle_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	conv := seedConversation(t, r, "alice", "writing")

	updated, err := r.UpdateTitle(ctx, conv.ID, "Hijacked", "bob")
	if err != nil || updated {
		t.Fatalf("expected no-op for foreign owner, updated=%v err=%v", updated, err)
	}

	updated, err = r.UpdateTitle(ctx, conv.ID, "Brand Voice", "alice")
	if err != nil || !updated {
		t.Fatalf("expected owner update, updated=%v err=%v", updated, err)
	}

	got, err := r.GetConversation(ctx, conv.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Brand Voice" {
		t.Fatalf("unexpected title %q", got.Title)
	}
	if got.UserID != "alice" || got.Category != "writing" {
		t.Fatalf("owner/category must not change: %+v", got.Conversation)
	}
}

func TestRepo_SetSystemTitle_OnlyReplacesExpected(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	conv := seedConversation(t, r, "alice", "writing")

	updated, err := r.SetSystemTitle(ctx, conv.ID, "bob", DefaultTitle, "Hijacked")
	if err != nil || updated {
		t.Fatalf("expected no-op for foreign owner, updated=%v err=%v", updated, err)
	}

	updated, err = r.SetSystemTitle(ctx, conv.ID, "alice", DefaultTitle, "Brand Voice")
	if err != nil || !updated {
		t.Fatalf("expected system title, updated=%v err=%v", updated, err)
	}

	updated, err = r.SetSystemTitle(ctx, conv.ID, "alice", DefaultTitle, "Second Try")
	if err != nil || updated {
		t.Fatalf("expected no-op once titled, updated=%v err=%v", updated, err)
	}

	got, err := r.GetConversation(ctx, conv.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Brand Voice" {
		t.Fatalf("unexpected title %q", got.Title)
	}
}

func TestRepo_FirstUserMessage(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	conv := seedConversation(t, r, "alice", "writing")

	if _, err := r.FirstUserMessage(ctx, conv.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on empty conversation, got %v", err)
	}

	for _, m := range []Message{
		{ConversationID: conv.ID, Role: RoleUser, Content: "first"},
		{ConversationID: conv.ID, Role: RoleAssistant, Content: "reply"},
		{ConversationID: conv.ID, Role: RoleUser, Content: "second"},
	} {
		if err := r.AppendMessage(ctx, &m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	m, err := r.FirstUserMessage(ctx, conv.ID)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if m.Content != "first" {
		t.Fatalf("unexpected first message %q", m.Content)
	}
}
