package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/manas360/practice-api/internal/config"
	"github.com/manas360/practice-api/internal/llm"
	openai "github.com/sashabaranov/go-openai"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gpt-4o-mini"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Generate(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("openai provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	client := openai.NewClient(p.apiKey)

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, chatReq)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("openai generation error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openai")
	}

	return &llm.Response{
		Text:       resp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		LatencyMs:  latency,
	}, nil
}
