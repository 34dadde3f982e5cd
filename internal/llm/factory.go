package llm

import (
	"fmt"

	"cvtailor/internal/config"
	"cvtailor/internal/llm/providers"
)

// Factory creates completion provider instances
type Factory struct {
	config *config.Config
}

// NewFactory creates a new provider factory instance
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config: cfg,
	}
}

// CreateProvider creates a completion provider based on the configuration
func (f *Factory) CreateProvider() (Provider, error) {
	switch f.config.LLM.Provider {
	case "gemini":
		return providers.NewGeminiProvider(f.config)
	case "claude":
		return providers.NewClaudeProvider(f.config)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", f.config.LLM.Provider)
	}
}

// GetSupportedProviders returns a list of supported completion providers
func (f *Factory) GetSupportedProviders() []string {
	return []string{"gemini", "claude"}
}
