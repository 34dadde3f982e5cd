package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"cvtailor/internal/config"
	"cvtailor/internal/logging"
)

// Event names for the generation funnel
const (
	EventGenerateCVClick   = "generate_cv_click"
	EventGenerateCLClick   = "generate_cl_click"
	EventGenerateCVSuccess = "generate_cv_success"
	EventGenerateCLSuccess = "generate_cl_success"
)

// Tracker ships usage events to Google Analytics 4 over the Measurement
// Protocol. A tracker without a measurement ID is disabled and every call
// becomes a no-op, so callers never branch on configuration.
type Tracker struct {
	endpoint      string
	measurementID string
	apiSecret     string
	clientID      string
	timeout       time.Duration
	httpClient    *http.Client
	logger        logging.Logger
}

// NewTracker creates a tracker from the analytics section of the
// configuration. The client ID identifies this process for session
// grouping; one is minted per process.
func NewTracker(cfg *config.Config) *Tracker {
	return &Tracker{
		endpoint:      cfg.Analytics.Endpoint,
		measurementID: cfg.Analytics.MeasurementID,
		apiSecret:     cfg.Analytics.APISecret,
		clientID:      uuid.New().String(),
		timeout:       cfg.Analytics.Timeout,
		httpClient:    &http.Client{Timeout: cfg.Analytics.Timeout},
		logger:        logging.GetGlobalLogger(),
	}
}

// Enabled reports whether events will actually be sent
func (t *Tracker) Enabled() bool {
	return t.measurementID != ""
}

// Track ships one event without blocking the caller. Delivery is
// best-effort: analytics must never slow down or fail a generation, so
// failures are logged at debug and otherwise dropped.
func (t *Tracker) Track(name string, params map[string]interface{}) {
	if !t.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		if err := t.send(ctx, name, params); err != nil {
			t.logger.Debug("Analytics event not delivered", map[string]interface{}{
				"event": name,
				"error": err.Error(),
			})
		}
	}()
}

type payload struct {
	ClientID string  `json:"client_id"`
	Events   []event `json:"events"`
}

type event struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// send posts one Measurement Protocol payload. The api_secret rides in the
// query string per the protocol and must never appear in logs.
func (t *Tracker) send(ctx context.Context, name string, params map[string]interface{}) error {
	body, err := json.Marshal(payload{
		ClientID: t.clientID,
		Events:   []event{{Name: name, Params: params}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	target := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s",
		t.endpoint,
		url.QueryEscape(t.measurementID),
		url.QueryEscape(t.apiSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build collect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("collect endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
