package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"cvtailor/internal/config"
)

func TestGenerationKey(t *testing.T) {
	if got := generationKey("abc-123"); got != "cvtailor:generation:abc-123" {
		t.Errorf("generationKey = %q", got)
	}
}

func TestNewClientFallsBackOnBadURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.URL = "not a url"
	cfg.Redis.Timeout = time.Second
	cfg.Redis.TTL = time.Hour

	client := NewClient(cfg)
	defer client.Close()

	if client.client.Options().Addr != "localhost:6379" {
		t.Errorf("fallback addr = %q", client.client.Options().Addr)
	}
}

func TestGetGenerationUnreachable(t *testing.T) {
	cfg := &config.Config{}
	// Port 1 is reserved and nothing listens there
	cfg.Redis.URL = "redis://localhost:1"
	cfg.Redis.Timeout = 100 * time.Millisecond
	cfg.Redis.TTL = time.Hour

	client := NewClient(cfg)
	defer client.Close()

	_, err := client.GetGeneration(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error from unreachable Redis")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("connection failure mistaken for a missing record")
	}
}
