package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

const maxAttempts = 3

// Client calls the product-standardization API. The API rewrites a noisy
// scanned name into a canonical catalog-style name with a confidence score.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
}

// NewClient creates a standardizer client. The API allows 2 requests per
// second per key; bursts of 5 cover a typical invoice batch.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

type standardizeRequest struct {
	ProductName string  `json:"product_name"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    float64 `json:"quantity,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

type standardizeResponse struct {
	StandardizedName string  `json:"standardized_name"`
	Confidence       float64 `json:"confidence"`
}

// Standardize asks the API for the canonical name of a scanned product.
// Retries transient failures up to 3 times with linear backoff.
func (c *Client) Standardize(ctx context.Context, name, unit string, quantity, price float64) (*domain.StandardizationResult, error) {
	payload, err := json.Marshal(standardizeRequest{
		ProductName: name,
		Unit:        unit,
		Quantity:    quantity,
		Price:       price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := c.baseURL + "/v1/standardize"

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		result, retryable, err := c.doStandardize(ctx, reqURL, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		log.Warn().Err(err).Int("attempt", attempt).Str("query", name).
			Msg("standardizer request failed")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt*500) * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrStandardizerUnavailable, lastErr)
}

// doStandardize executes one attempt. The second return reports whether the
// failure is worth retrying.
func (c *Client) doStandardize(ctx context.Context, reqURL string, payload []byte) (*domain.StandardizationResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrStandardizerUnavailable, err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrStandardizerUnavailable, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: status %d: %s", domain.ErrStandardizerUnavailable, resp.StatusCode, string(body))
	}

	var out standardizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.StandardizedName == "" {
		return nil, false, fmt.Errorf("%w: empty standardized name", domain.ErrLowConfidence)
	}
	return &domain.StandardizationResult{
		StandardizedName: out.StandardizedName,
		Confidence:       out.Confidence,
	}, false, nil
}
