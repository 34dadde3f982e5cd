package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
)

// Manager manages the completion provider and its lifecycle. A client-side
// rate limiter spaces requests to stay inside the provider's quota.
type Manager struct {
	config   *config.Config
	factory  *Factory
	provider Provider
	limiter  *rate.Limiter
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new completion manager instance
func NewManager(cfg *config.Config) *Manager {
	requestsPerMinute := cfg.LLM.RateLimit
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}

	return &Manager{
		config:  cfg,
		factory: NewFactory(cfg),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start creates the provider and probes its health. A missing API key or an
// unknown provider name fails startup; an unreachable API only degrades the
// health state so the server can still come up.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting completion manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create completion provider: %w", err)
	}

	m.provider = provider

	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		m.logger.Warn("Completion provider health check failed", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
			"error":    err.Error(),
		})
		m.healthy = false
	} else {
		m.healthy = true
		m.logger.Info("Completion manager started", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the completion manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping completion manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Complete sends a prompt through the configured provider. Each call waits
// for the rate limiter first, then surfaces the provider's own error on
// failure. No retries happen at this layer.
func (m *Manager) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return "", fmt.Errorf("%w: completion manager not started", ErrCompletionFailed)
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	return provider.Complete(ctx, prompt)
}

// IsHealthy reports whether the manager holds a provider whose last health
// probe succeeded
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current completion provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a live health check on the provider and records the
// outcome
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("completion provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = err == nil
	m.mu.Unlock()

	return err
}
