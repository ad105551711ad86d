package llm

import "context"

// Request contains text generation parameters
type Request struct {
	Prompt string
	// Temperature overrides the provider default when set. Predictions run
	// at 0.3 for more conservative output; summaries use the model default.
	Temperature *float32
}

// Response contains a generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for generative-text providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces text for the given request
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}
