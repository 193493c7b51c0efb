package ai

import (
	"context"
	"errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Params are per-call sampling settings. Zero values let the provider decide.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// ErrEmptyCompletion means the call succeeded but produced no choice or text.
var ErrEmptyCompletion = errors.New("ai: empty completion")

// Provider is a chat-completion backend bound to one model.
type Provider interface {
	Chat(ctx context.Context, messages []Message, params Params) (string, error)
}
