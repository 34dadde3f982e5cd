package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
	"cvtailor/pkg/models"
)

// ErrNotFound is returned when no record exists for a generation ID,
// either because it never existed or because its TTL expired
var ErrNotFound = errors.New("generation_not_found")

// Client wraps Redis for generation artifact storage. Records live under a
// TTL so artifacts stay downloadable for a while after the response is
// returned, then expire on their own.
type Client struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewClient creates a Redis-backed artifact store from the configuration
func NewClient(cfg *config.Config) *Client {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &Client{
		client: redis.NewClient(opts),
		ttl:    cfg.Redis.TTL,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// IsHealthy checks if Redis is connected and healthy
func (c *Client) IsHealthy(ctx context.Context) error {
	return c.Ping(ctx)
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// SaveGeneration stores a generation record under its ID with the
// configured TTL
func (c *Client) SaveGeneration(ctx context.Context, record *models.GenerationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal generation record: %w", err)
	}

	if err := c.client.Set(ctx, generationKey(record.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save generation record: %w", err)
	}

	c.logger.Debug("Generation record saved", map[string]interface{}{
		"generation_id": record.ID,
		"ttl":           c.ttl.String(),
	})
	return nil
}

// GetGeneration retrieves a generation record by ID
func (c *Client) GetGeneration(ctx context.Context, id string) (*models.GenerationRecord, error) {
	data, err := c.client.Get(ctx, generationKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get generation record: %w", err)
	}

	var record models.GenerationRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generation record: %w", err)
	}
	return &record, nil
}

// AttachPDF adds a compiled PDF to an existing generation record. The
// record's TTL restarts so the freshest artifact set gets the full window.
func (c *Client) AttachPDF(ctx context.Context, id string, pdf []byte) error {
	record, err := c.GetGeneration(ctx, id)
	if err != nil {
		return err
	}

	record.PDF = pdf
	return c.SaveGeneration(ctx, record)
}

// generationKey builds the Redis key for a generation record
func generationKey(id string) string {
	return fmt.Sprintf("cvtailor:generation:%s", id)
}
