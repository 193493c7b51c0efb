package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suPer8Hu/brand-assistant/internal/ai"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"github.com/suPer8Hu/brand-assistant/internal/prompts"
	"go.uber.org/zap"
)

const (
	// HistoryWindow is how many prior messages are forwarded as context.
	HistoryWindow = 10

	FallbackReply = "I apologize, but I couldn't generate a response. Please try again."
	FallbackTitle = "AI Tools Discussion"
)

var (
	replyParams = ai.Params{MaxTokens: 1000, Temperature: 0.7}
	titleParams = ai.Params{MaxTokens: 20, Temperature: 0.5}
)

// Gateway wraps the completion provider with prompt selection and history trimming.
type Gateway struct {
	provider ai.Provider
	prompts  *prompts.Registry
}

func NewGateway(provider ai.Provider, registry *prompts.Registry) *Gateway {
	return &Gateway{provider: provider, prompts: registry}
}

// GenerateReply answers userText given the prior history (oldest first).
// Provider failures are returned wrapped in ErrUpstreamUnavailable; an empty
// completion yields FallbackReply.
func (g *Gateway) GenerateReply(ctx context.Context, userText, category string, history []ai.Message) (string, error) {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	msgs := make([]ai.Message, 0, len(history)+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: g.prompts.SystemPrompt(category)})
	msgs = append(msgs, history...)
	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: userText})

	reply, err := g.provider.Chat(ctx, msgs, replyParams)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyCompletion) {
			return FallbackReply, nil
		}
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

// GenerateTitle never fails; any problem yields FallbackTitle.
func (g *Gateway) GenerateTitle(ctx context.Context, firstMessage string) string {
	title, err := g.Title(ctx, firstMessage)
	if err != nil {
		logging.FromContext(ctx).Warn("title generation failed", zap.Error(err))
		return FallbackTitle
	}
	return title
}

// Title asks the provider for a title. Provider failures are returned wrapped
// in ErrUpstreamUnavailable; an empty completion yields FallbackTitle.
func (g *Gateway) Title(ctx context.Context, firstMessage string) (string, error) {
	msgs := []ai.Message{
		{Role: ai.RoleSystem, Content: g.prompts.TitleInstruction()},
		{Role: ai.RoleUser, Content: firstMessage},
	}

	out, err := g.provider.Chat(ctx, msgs, titleParams)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyCompletion) {
			return FallbackTitle, nil
		}
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	title := cleanTitle(out)
	if title == "" {
		return FallbackTitle, nil
	}
	return title, nil
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'`*# ")
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 255 {
		s = string(r[:255])
	}
	return s
}
