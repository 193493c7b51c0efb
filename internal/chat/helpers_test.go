package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/brand-assistant/internal/ai"
	"github.com/suPer8Hu/brand-assistant/internal/prompts"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection == one in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&Conversation{}, &Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// stepClock advances one second per call so orderings by timestamp are deterministic.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r := NewRepo(openTestDB(t))
	r.now = newStepClock().Now
	return r
}

// fakeProvider answers reply calls with "re: <last user message>" unless
// reply/replyErr are set, and title calls with title/titleErr.
type fakeProvider struct {
	mu sync.Mutex

	reply    *string
	replyErr error
	title    string
	titleErr error

	replyCalls  [][]ai.Message
	replyParams []ai.Params
	titleCalls  [][]ai.Message
	titleParams []ai.Params
}

func (p *fakeProvider) Chat(ctx context.Context, messages []ai.Message, params ai.Params) (string, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()

	cp := append([]ai.Message(nil), messages...)
	if len(cp) > 0 && cp[0].Content == prompts.Default().TitleInstruction() {
		p.titleCalls = append(p.titleCalls, cp)
		p.titleParams = append(p.titleParams, params)
		return p.title, p.titleErr
	}

	p.replyCalls = append(p.replyCalls, cp)
	p.replyParams = append(p.replyParams, params)
	if p.replyErr != nil {
		return "", p.replyErr
	}
	if p.reply != nil {
		return *p.reply, nil
	}
	return "re: " + cp[len(cp)-1].Content, nil
}

func (p *fakeProvider) lastReplyCall() []ai.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.replyCalls) == 0 {
		return nil
	}
	return p.replyCalls[len(p.replyCalls)-1]
}

func strPtr(s string) *string { return &s }

func seedConversation(t *testing.T, r *Repo, userID, category string) *Conversation {
	t.Helper()
	c := &Conversation{UserID: userID, Category: category, Title: DefaultTitle}
	if err := r.CreateConversation(context.Background(), c); err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	return c
}

func roles(msgs []Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, string(m.Role))
	}
	return strings.Join(parts, ",")
}
