package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	got  []llms.MessageContent
	opts llms.CallOptions
	resp *llms.ContentResponse
	err  error
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	_ = ctx
	m.got = messages
	for _, o := range options {
		o(&m.opts)
	}
	return m.resp, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLangChainProvider_Chat(t *testing.T) {
	m := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "hi there"}}}}
	p := &LangChainProvider{LLM: m}

	reply, err := p.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hey"},
		{Role: RoleUser, Content: "again"},
	}, Params{MaxTokens: 1000, Temperature: 0.7})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("unexpected reply %q", reply)
	}

	want := []schema.ChatMessageType{schema.ChatMessageTypeSystem, schema.ChatMessageTypeHuman, schema.ChatMessageTypeAI, schema.ChatMessageTypeHuman}
	if len(m.got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(m.got))
	}
	for i, w := range want {
		if m.got[i].Role != w {
			t.Fatalf("message %d: expected role %s, got %s", i, w, m.got[i].Role)
		}
	}
	if m.opts.MaxTokens != 1000 || m.opts.Temperature != 0.7 {
		t.Fatalf("unexpected options %+v", m.opts)
	}
}

func TestLangChainProvider_Errors(t *testing.T) {
	p := &LangChainProvider{LLM: &fakeModel{resp: &llms.ContentResponse{}}}
	if _, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "x"}}, Params{}); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}

	cause := errors.New("429 too many requests")
	p = &LangChainProvider{LLM: &fakeModel{err: cause}}
	if _, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "x"}}, Params{}); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
