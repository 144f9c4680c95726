package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient generates plans with Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is missing: %w", models.ErrConfiguration)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, logger: logger}, nil
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) Complete(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	start := time.Now()
	model := params.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	temperature := float32(params.Temperature)
	topP := float32(params.TopP)
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		MaxOutputTokens: int32(params.MaxTokens),
	})
	if err != nil {
		te := &models.TransportError{Provider: c.Name(), Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			te.StatusCode = apiErr.Code
		}
		return "", te
	}

	text := resp.Text()
	if text == "" {
		return "", &models.TransportError{Provider: c.Name(), Err: errors.New("no completion returned")}
	}

	c.logger.Debug("gemini completion",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(text)))
	return text, nil
}
