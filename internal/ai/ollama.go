package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOllamaProvider(baseURL, model string, timeout time.Duration) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3:latest"
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: timeout},
	}
}

type ollamaOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type ollamaChatReq struct {
	Model    string         `json:"model"`
	Messages []ollamaMsg    `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResp struct {
	Message ollamaMsg `json:"message"`
	Error   string    `json:"error,omitempty"`
}

func (p *OllamaProvider) Chat(ctx context.Context, messages []Message, params Params) (string, error) {
	if p.Client == nil {
		return "", errors.New("ollama: http client is nil")
	}

	reqBody := ollamaChatReq{
		Model:  p.Model,
		Stream: false,
		Messages: func() []ollamaMsg {
			out := make([]ollamaMsg, 0, len(messages))
			for _, m := range messages {
				out = append(out, ollamaMsg{Role: string(m.Role), Content: m.Content})
			}
			return out
		}(),
	}
	if params.MaxTokens > 0 || params.Temperature > 0 {
		reqBody.Options = &ollamaOptions{NumPredict: params.MaxTokens, Temperature: params.Temperature}
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/api/chat", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama: status %d", resp.StatusCode)
	}

	var decoded ollamaChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("ollama: decode: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("ollama: %s", decoded.Error)
	}
	if strings.TrimSpace(decoded.Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return decoded.Message.Content, nil
}
