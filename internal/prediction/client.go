// Package prediction is the client of the remote failure and RUL prediction service.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aircare/internal/metrics"
	"aircare/internal/models"
)

// DefaultBaseURL is the public prediction endpoint
const DefaultBaseURL = "https://api-aircare.dressr.fashion/api/v1/Predict"

const (
	endpointFailure = "failure"
	endpointRUL     = "rul"

	maxErrorBody = 4 << 10
)

// Gateway sends readings and flight context to the prediction service
type Gateway interface {
	PredictFailure(ctx context.Context, req models.FailurePredictionRequest) (*models.FailurePredictionResponse, error)
	ForecastRUL(ctx context.Context, req models.RulForecastRequest) ([]models.RulForecastPoint, error)
}

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prediction %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client is the HTTP implementation of Gateway
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client for baseURL with the given request timeout
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("prediction: empty base url")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// PredictFailure asks for per-part failure probabilities
func (c *Client) PredictFailure(ctx context.Context, req models.FailurePredictionRequest) (*models.FailurePredictionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid failure prediction request: %w", err)
	}
	var resp models.FailurePredictionResponse
	if err := c.post(ctx, endpointFailure, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForecastRUL asks for the remaining-useful-life forecast
func (c *Client) ForecastRUL(ctx context.Context, req models.RulForecastRequest) ([]models.RulForecastPoint, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid RUL forecast request: %w", err)
	}
	var resp []models.RulForecastPoint
	if err := c.post(ctx, endpointRUL, req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGatewayCall(endpoint, err, time.Since(start))
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call prediction %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode prediction %s response: %w", endpoint, err)
	}
	return nil
}
