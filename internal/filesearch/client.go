// Package filesearch is a typed HTTP client for the Gemini File Search API:
// file search stores, file upload/import, and grounded generation. All
// indexing, chunking, and retrieval happen server-side; this package only
// speaks the wire protocol.
package filesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// apiVersion is the REST API version prefix.
const apiVersion = "v1beta"

// Client talks to the Gemini File Search API via direct HTTP.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a new File Search API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type errorEnvelope struct {
	Error *apiError `json:"error,omitempty"`
}

// endpoint builds a full request URL for the given API resource path,
// attaching the API key and any extra query parameters.
func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)
	return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, apiVersion, path, query.Encode())
}

// doJSON issues a JSON request and decodes the response into out (which may
// be nil for responses with no interesting body). API error envelopes are
// surfaced as errors regardless of HTTP status.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("file search request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	return decodeResponse(httpResp.StatusCode, respBody, out)
}

// decodeResponse checks the error envelope and HTTP status before
// unmarshalling the payload into out.
func decodeResponse(statusCode int, body []byte, out any) error {
	var envelope errorEnvelope
	if len(body) > 0 {
		// The envelope check tolerates non-JSON bodies; status handling below
		// covers those.
		_ = json.Unmarshal(body, &envelope)
	}

	if envelope.Error != nil {
		return fmt.Errorf("file search API error (%s): %s", envelope.Error.Status, envelope.Error.Message)
	}

	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("file search API returned status %d: %s", statusCode, string(body))
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
