// Package httpclient wraps net/http.Client for driving remote
// subject services, with bearer-token auth and structured
// request/response logging.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aifeels-org/aifeels-conformance-suite/pkg/logging"
)

// ClientOption configures an APIClient via functional options.
type ClientOption func(*APIClient)

// APIClient is an HTTP client for a remote subject service.
// Defaults match common conventions so callers can use
// NewAPIClient(url) with zero options.
type APIClient struct {
	baseURL    string
	token      string
	logger     logging.Logger
	httpClient *http.Client
}

// NewAPIClient creates an API client targeting the given base
// URL. Pass ClientOption values to override defaults.
func NewAPIClient(baseURL string, opts ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.NullLogger{},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *APIClient) { c.httpClient.Timeout = d }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) ClientOption {
	return func(c *APIClient) { c.token = token }
}

// WithLogger sets the logger receiving request/response records.
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *APIClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// do performs one request, logging it and its response with a
// shared request ID.
func (c *APIClient) do(
	ctx context.Context, method, path string, body []byte,
) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, reader,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	headers := map[string]string{}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		headers["Content-Type"] = "application/json"
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
		headers["Authorization"] = "Bearer " + c.token
	}

	requestID := uuid.NewString()
	start := time.Now()

	c.logger.LogAPIRequest(logging.APIRequestLog{
		Timestamp:  start.Format(time.RFC3339Nano),
		RequestID:  requestID,
		Method:     method,
		URL:        c.baseURL + path,
		Headers:    headers,
		BodyLength: len(body),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.LogAPIResponse(logging.APIResponseLog{
		Timestamp:      time.Now().Format(time.RFC3339Nano),
		RequestID:      requestID,
		StatusCode:     resp.StatusCode,
		BodyPreview:    preview(data),
		BodyLength:     len(data),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	})

	return resp.StatusCode, data, nil
}

// Get performs a GET request and returns the status code and
// parsed JSON object response.
func (c *APIClient) Get(
	ctx context.Context, path string,
) (int, map[string]interface{}, error) {
	status, data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return status, nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return status, nil, fmt.Errorf("parse response: %w", err)
	}

	return status, result, nil
}

// GetJSON performs a GET request and decodes the JSON response
// into out. A nil out discards the body.
func (c *APIClient) GetJSON(
	ctx context.Context, path string, out any,
) (int, error) {
	status, data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return status, err
	}

	if out == nil {
		return status, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return status, fmt.Errorf("parse response: %w", err)
	}

	return status, nil
}

// GetRaw performs a GET request and returns status code and raw
// body bytes. Used when the response could be either an object
// or an array.
func (c *APIClient) GetRaw(
	ctx context.Context, path string,
) (int, []byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// PostJSON performs a POST request with the JSON encoding of
// body and returns the status code and raw response bytes. A nil
// body posts an empty payload.
func (c *APIClient) PostJSON(
	ctx context.Context, path string, body any,
) (int, []byte, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = data
	}

	return c.do(ctx, http.MethodPost, path, payload)
}

// Delete performs a DELETE request and returns the status code.
func (c *APIClient) Delete(
	ctx context.Context, path string,
) (int, error) {
	status, _, err := c.do(ctx, http.MethodDelete, path, nil)
	return status, err
}

// Token returns the configured bearer token.
func (c *APIClient) Token() string {
	return c.token
}

// SetToken sets the bearer token directly.
func (c *APIClient) SetToken(token string) {
	c.token = token
}

// BaseURL returns the configured base URL.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// preview truncates a response body for logging.
func preview(data []byte) string {
	const max = 256
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
