package services

import (
	"context"
	"fmt"

	"github.com/Nahnamehran/study-planner/config"
	"github.com/Nahnamehran/study-planner/models"
	"go.uber.org/zap"
)

// GenerationParamsFrom takes the sampling settings from cfg as given; config.Defaults supplies the usual values.
func GenerationParamsFrom(cfg *config.Config) GenerationParams {
	params := GenerationParams{
		Model:       DefaultGroqModel,
		Temperature: cfg.AITemperature,
		MaxTokens:   cfg.AIMaxTokens,
		TopP:        cfg.AITopP,
	}
	if cfg.AIProvider == "gemini" {
		params.Model = DefaultGeminiModel
	}
	if cfg.AIModel != "" {
		params.Model = cfg.AIModel
	}
	return params
}

// NewCompleter returns the configured provider, or a configuration error when it has no key.
func NewCompleter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Completer, error) {
	key := cfg.APIKey()
	switch cfg.AIProvider {
	case "gemini":
		client, err := NewGeminiClient(ctx, key, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "groq", "":
		if key == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is not set: %w", models.ErrConfiguration)
		}
		return NewGroqClient(key, cfg.GroqBaseURL, cfg.AITimeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q: %w", cfg.AIProvider, models.ErrConfiguration)
	}
}

// OpenStore builds the configured Store. The returned func releases its connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case "memory", "":
		return NewMemoryStore(), noop, nil
	case "minio":
		s, err := NewMinIOService(cfg, logger)
		if err != nil {
			return nil, noop, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "mongo":
		s, err := NewMongoStore(ctx, cfg, logger)
		if err != nil {
			return nil, noop, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to ensure mongo indexes", zap.Error(err))
		}
		return s, func() { _ = s.Close(context.Background()) }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q: %w", cfg.StoreBackend, models.ErrConfiguration)
	}
}
