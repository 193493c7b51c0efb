package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/suPer8Hu/brand-assistant/internal/config"
)

var ErrMissingAPIKey = errors.New("openrouter: OPENROUTER_API_KEY is not set")

// NewDefaultRegistry registers the providers selectable through AI_PROVIDER.
func NewDefaultRegistry(cfg config.Config) *Registry {
	reg := NewRegistry()

	reg.Register("openrouter", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		if strings.TrimSpace(cfg.OpenRouterAPIKey) == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenRouterProvider(
			cfg.OpenRouterBaseURL,
			cfg.OpenRouterAPIKey,
			model,
			cfg.OpenRouterSiteURL,
			cfg.OpenRouterAppName,
			cfg.AITimeout,
		), nil
	})

	reg.Register("langchain", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		if strings.TrimSpace(cfg.OpenRouterAPIKey) == "" {
			return nil, ErrMissingAPIKey
		}
		p, err := NewLangChainOpenAIProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, model, cfg.AITimeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	})

	reg.Register("ollama", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		return NewOllamaProvider(cfg.OllamaBaseURL, model, cfg.AITimeout), nil
	})

	return reg
}
