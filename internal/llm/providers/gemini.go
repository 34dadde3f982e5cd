package providers

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
)

// GeminiProvider implements the completion provider interface using Google's
// Gemini API. This is the default provider.
type GeminiProvider struct {
	client *genai.Client
	config *config.Config
	logger logging.Logger
}

// NewGeminiProvider creates a new Gemini provider instance. The API key is
// required up front; a missing key is a configuration error, not a request
// error.
func NewGeminiProvider(cfg *config.Config) (*GeminiProvider, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key not found. Set GEMINI_API_KEY environment variable", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// Complete sends one prompt and returns the raw text completion
func (gp *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	gp.logger.Debug("Sending completion request", map[string]interface{}{
		"provider":     "gemini",
		"model":        gp.config.LLM.Model,
		"prompt_chars": len(prompt),
	})

	temperature := gp.config.LLM.Temperature
	generateConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(gp.config.LLM.MaxTokens),
	}

	resp, err := gp.client.Models.GenerateContent(ctx, gp.config.LLM.Model, genai.Text(prompt), generateConfig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response from Gemini", ErrCompletionFailed)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no text content in Gemini response", ErrCompletionFailed)
	}

	gp.logger.Info("Completion request finished", map[string]interface{}{
		"provider":         "gemini",
		"model":            gp.config.LLM.Model,
		"completion_chars": len(text),
		"processing_time":  time.Since(startTime).String(),
	})

	return text, nil
}

// IsHealthy checks if the Gemini API is reachable with the configured
// credentials. CountTokens is used as a cheap probe that does not consume
// generation quota.
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	_, err := gp.client.Models.CountTokens(ctx, gp.config.LLM.Model, genai.Text("ping"), nil)
	if err != nil {
		return fmt.Errorf("Gemini API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (gp *GeminiProvider) GetProviderName() string {
	return "gemini"
}
