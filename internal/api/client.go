// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the inference endpoint.
const (
	// DefaultTimeout is the default timeout for inference requests. Image
	// generation can take a while, so this is deliberately generous.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// StatusSuccess is the status value a well-formed successful response
	// carries. Anything else is an application-level failure.
	StatusSuccess = "success"
)

// sharedHTTPClient is the pooled HTTP client used for all inference requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common client errors.
var (
	// ErrNotConfigured indicates no endpoint URL is set.
	ErrNotConfigured = errors.New("inference endpoint not configured")

	// ErrEmptyResponse indicates the endpoint reported success but returned
	// no usable payload.
	ErrEmptyResponse = errors.New("empty response from endpoint")
)

// APIError represents an application-level error reported by the endpoint:
// an HTTP-level failure, or a 200 response whose status field is not
// "success". It is distinct from transport errors, which are returned as-is.
type APIError struct {
	Status     string // status field from the response body, if any
	HTTPStatus int    // HTTP status code
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("endpoint error [%s] (HTTP %d): %s", e.Status, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("endpoint error (HTTP %d): %s", e.HTTPStatus, e.Message)
}

// promptRequest is the wire format for both chat and image requests.
type promptRequest struct {
	Prompt string `json:"prompt"`
}

// promptResponse is the wire format of the endpoint's reply. Exactly one of
// Text and ImageURL is populated on success, depending on the request kind.
type promptResponse struct {
	Status   string `json:"status"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}

// Client talks to the inference endpoint. One POST per request, no retries:
// the caller owns any fallback behavior.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// NewClient creates a client for the given endpoint base URL. If the URL is
// empty, the client is still created but requests fail with ErrNotConfigured.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		userAgent:  "webchat/0.1.0",
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// IsConfigured returns true if the client has an endpoint URL.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// Chat sends a prompt to the chat endpoint and returns the generated text.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := c.post(ctx, c.baseURL+"/chat", prompt)
	if err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", ErrEmptyResponse
	}
	return resp.Text, nil
}

// Image sends a prompt to the image endpoint and returns the generated
// image's URL.
func (c *Client) Image(ctx context.Context, prompt string) (string, error) {
	resp, err := c.post(ctx, c.baseURL+"/image", prompt)
	if err != nil {
		return "", err
	}
	if resp.ImageURL == "" {
		return "", ErrEmptyResponse
	}
	return resp.ImageURL, nil
}

// post performs one request against the endpoint and decodes the reply.
func (c *Client) post(ctx context.Context, url, prompt string) (*promptResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(promptRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("endpoint request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp promptResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, &APIError{HTTPStatus: httpResp.StatusCode, Message: httpResp.Status}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK || resp.Status != StatusSuccess {
		msg := resp.Message
		if msg == "" {
			msg = httpResp.Status
		}
		return nil, &APIError{
			Status:     resp.Status,
			HTTPStatus: httpResp.StatusCode,
			Message:    msg,
		}
	}

	return &resp, nil
}
