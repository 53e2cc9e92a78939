// Package predict is the client side of the risk-prediction
// collaborator. The service itself (feature extraction, training,
// inference) is external; this package only speaks its HTTP contract.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the configuration for the predictor client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8500",
		Timeout:    30 * time.Second,
		RetryCount: 3,
	}
}

// Prediction is the fixed output schema of the prediction service.
type Prediction struct {
	RegionKey         string             `json:"region_key"`
	RiskLevel         string             `json:"risk_level"`
	MagnitudeEstimate float64            `json:"magnitude_estimate"`
	Probabilities     map[string]float64 `json:"probabilities"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// ModelInfo describes a trained model loaded for a region.
type ModelInfo struct {
	RegionKey string    `json:"region_key"`
	Version   string    `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
}

// Client is the HTTP client for the prediction service
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new predictor client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// LoadModel asks the service to load (or report) the trained model for
// a region.
func (c *Client) LoadModel(ctx context.Context, regionKey string) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.doRequestWithRetry(ctx, http.MethodGet, "/models/"+regionKey, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Predict returns the risk classification and magnitude estimate for a
// region.
func (c *Client) Predict(ctx context.Context, regionKey string) (*Prediction, error) {
	var pred Prediction
	if err := c.doRequestWithRetry(ctx, http.MethodGet, "/predict/"+regionKey, nil, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// Train triggers a retrain for a region and returns the new model info.
func (c *Client) Train(ctx context.Context, regionKey string) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.doRequestWithRetry(ctx, http.MethodPost, "/train/"+regionKey, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// maxBackoff is the maximum backoff duration for retries
const maxBackoff = 30 * time.Second

// calculateBackoff returns 1s, 2s, 4s, 8s, etc. up to maxBackoff
func calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	seconds := 1
	for i := 1; i < attempt && i < 6; i++ {
		seconds *= 2
	}
	return time.Duration(seconds) * time.Second
}

// doRequestWithRetry executes HTTP request with retry logic
func (c *Client) doRequestWithRetry(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoff(attempt)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = c.doRequest(ctx, method, path, body, result)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("predictor request failed after %d attempts: %w", c.config.RetryCount+1, lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("predictor returned %d: %s", resp.StatusCode, string(payload))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
