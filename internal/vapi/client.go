package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the adapter for the hosted Vapi REST API.
//
// Rules:
//   - No provider HTTP calls outside this package.
//   - Exactly one attempt per operation; retries would change observable
//     behavior for callers that surface upstream failures.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

const defaultTimeout = 30 * time.Second

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-success response from the API. The raw body is kept so
// callers can surface the upstream error text verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vapi: api error (%d): %s", e.StatusCode, e.Body)
}

// CreateCall places an outbound phone call.
func (c *Client) CreateCall(ctx context.Context, req CreateCallRequest) (Call, error) {
	var out Call
	if err := c.post(ctx, "/call/phone", req, &out); err != nil {
		return Call{}, err
	}
	return out, nil
}

// CreateAssistant provisions a new assistant configuration.
func (c *Client) CreateAssistant(ctx context.Context, a Assistant) (Assistant, error) {
	var out Assistant
	if err := c.post(ctx, "/assistant", a, &out); err != nil {
		return Assistant{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("vapi: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("vapi: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("vapi: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("vapi: decode response: %w", err)
		}
	}
	return nil
}
