package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
)

// ClaudeProvider implements the completion provider interface using
// Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) (*ClaudeProvider, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("%w: Claude API key not found. Set ANTHROPIC_API_KEY environment variable", ErrMissingAPIKey)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// Complete sends one prompt and returns the raw text completion
func (cp *ClaudeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	cp.logger.Debug("Sending completion request", map[string]interface{}{
		"provider":     "claude",
		"model":        string(cp.model()),
		"prompt_chars": len(prompt),
	})

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       cp.model(),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("%w: empty response from Claude", ErrCompletionFailed)
	}

	var text string
	for _, content := range response.Content {
		textContent := content.AsText()
		text = textContent.Text
		break
	}

	if text == "" {
		return "", fmt.Errorf("%w: no text content in Claude response", ErrCompletionFailed)
	}

	cp.logger.Info("Completion request finished", map[string]interface{}{
		"provider":         "claude",
		"model":            string(cp.model()),
		"completion_chars": len(text),
		"processing_time":  time.Since(startTime).String(),
	})

	return text, nil
}

// IsHealthy checks if the Claude API is reachable with the configured
// credentials
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     cp.model(),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}

// model resolves the configured model name, falling back to the latest
// Sonnet when the configured model belongs to another provider
func (cp *ClaudeProvider) model() anthropic.Model {
	if strings.HasPrefix(cp.config.LLM.Model, "claude") {
		return anthropic.Model(cp.config.LLM.Model)
	}
	return anthropic.ModelClaude3_7SonnetLatest
}
