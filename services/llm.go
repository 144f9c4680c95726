package services

import (
	"context"
)

// GenerationParams are passed through to the provider unchanged.
type GenerationParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

const (
	DefaultGroqModel   = "moonshotai/kimi-k2-instruct-0905"
	DefaultGeminiModel = "gemini-2.5-flash"
)

func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Model:       DefaultGroqModel,
		Temperature: 0.6,
		MaxTokens:   4096,
		TopP:        1,
	}
}

// Completer is a single request/response text-completion call.
// Implementations do not retry; failures come back as *models.TransportError.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
