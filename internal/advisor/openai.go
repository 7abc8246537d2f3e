package advisor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates advisory text via an OpenAI-compatible chat API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a provider against baseURL (empty means the public API).
func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai:" + p.model }

func (p *OpenAIProvider) Advise(ctx context.Context, proj Projection) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(proj)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisory completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("advisory completion had no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
