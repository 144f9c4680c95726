package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"go.uber.org/zap"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient talks to Groq's OpenAI-compatible chat completions endpoint.
type GroqClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGroqClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *GroqClient {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroqClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *GroqClient) Name() string { return "groq" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         float64       `json:"temperature"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
	TopP                float64       `json:"top_p"`
	Stream              bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt as a single user message.
func (c *GroqClient) Complete(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("groq api key is missing: %w", models.ErrConfiguration)
	}

	start := time.Now()
	payload, err := json.Marshal(chatRequest{
		Model:               params.Model,
		Messages:            []chatMessage{{Role: "user", Content: prompt}},
		Temperature:         params.Temperature,
		MaxCompletionTokens: params.MaxTokens,
		TopP:                params.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &models.TransportError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.TransportError{Provider: c.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		var parsed chatResponse
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", &models.TransportError{Provider: c.Name(), StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &models.TransportError{Provider: c.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &models.TransportError{Provider: c.Name(), StatusCode: resp.StatusCode, Err: errors.New("no completion returned")}
	}

	text := parsed.Choices[0].Message.Content
	c.logger.Debug("groq completion",
		zap.String("model", params.Model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(text)))
	return text, nil
}
