package llm

import (
	"context"

	"cvtailor/internal/llm/providers"
)

// Provider defines the interface for hosted completion providers
type Provider interface {
	// Complete sends one prompt and returns the model's raw text completion
	Complete(ctx context.Context, prompt string) (string, error)

	// IsHealthy checks if the provider is reachable and credentialed
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}

// Re-export the provider failure kinds so callers match against one package
var (
	ErrMissingAPIKey    = providers.ErrMissingAPIKey
	ErrCompletionFailed = providers.ErrCompletionFailed
)
