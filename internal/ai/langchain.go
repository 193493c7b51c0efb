package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangChainProvider runs completions through a langchaingo model.
type LangChainProvider struct {
	LLM     llms.Model
	Timeout time.Duration
}

// NewLangChainOpenAIProvider targets an OpenAI-compatible endpoint such as OpenRouter.
func NewLangChainOpenAIProvider(baseURL, apiKey, model string, timeout time.Duration) (*LangChainProvider, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("langchain: %w", err)
	}
	return &LangChainProvider{LLM: llm, Timeout: timeout}, nil
}

func langChainRole(r Role) schema.ChatMessageType {
	switch r {
	case RoleSystem:
		return schema.ChatMessageTypeSystem
	case RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

func (p *LangChainProvider) Chat(ctx context.Context, messages []Message, params Params) (string, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(langChainRole(m.Role), m.Content))
	}

	var opts []llms.CallOption
	if params.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxTokens))
	}
	if params.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(params.Temperature))
	}

	resp, err := p.LLM.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", fmt.Errorf("langchain: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Content, nil
}
