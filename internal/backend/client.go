// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the DRAVIS backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client. Every failure
// crossing the client boundary is one of these; callers never see raw
// transport errors.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is against the sentinel errors below.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeSemantic
)

// Sentinel errors for easy checking.
var (
	ErrBackendDown = &ClientError{Type: ErrTypeConnection, Message: "DRAVIS backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsBackendDown reports whether an error indicates the backend is unreachable.
func IsBackendDown(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return errors.Is(err, ErrBackendDown)
}

// IsTimeout reports whether an error is a timeout.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the DRAVIS backend base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// RateLimit caps outbound requests per second (default: 10)
	RateLimit rate.Limit

	// RateBurst is the limiter burst size (default: 5)
	RateBurst int
}

// DefaultConfig returns the default client configuration.
//
// The HTTP client carries no timeout of its own; a hung call completes or
// fails with the transport. Callers that want bounds pass a context.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://127.0.0.1:8000",
		RateLimit: 10,
		RateBurst: 5,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the DRAVIS backend.
//
// Each operation issues exactly one HTTP call and returns either a typed
// result or a normalized *ClientError. There are no retries. The Client
// owns no application state; callers are responsible for cache
// invalidation after mutating calls.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10
	}
	if config.RateBurst == 0 {
		config.RateBurst = 5
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(config.RateLimit, config.RateBurst),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// SetBaseURL repoints the client, e.g. after a config hot-reload.
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.config.BaseURL = baseURL
	}
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

func (c *Client) url(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

// do runs a request through the rate limiter and normalizes transport
// failures. Callers own the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "request canceled while rate limited", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, ErrBackendDown
	}
	return resp, nil
}

// postJSON issues a JSON POST and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// decodeResponse maps non-2xx statuses and decode failures into
// normalized errors. The backend reports errors as {"detail": ...} or
// {"error": ...}; both are surfaced in the message.
func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.message() != "" {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: apiErr.message()}
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "request failed: " + resp.Status}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// apiError is the backend's error envelope.
type apiError struct {
	Detail string `json:"detail"`
	Err    string `json:"error"`
}

func (e apiError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Err
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health verifies that the backend is reachable and responding.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.getJSON(ctx, "/api/healthcheck", nil)
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends a chat message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, message string, useDocuments bool, mode Mode) (*ChatResult, error) {
	req := chatRequest{
		Message:      message,
		UseDocuments: useDocuments,
		Mode:         string(mode),
	}

	var resp chatResponse
	if err := c.postJSON(ctx, "/api/chat", req, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, &ClientError{Type: ErrTypeSemantic, Message: resp.Error}
	}

	return &ChatResult{Response: resp.Response}, nil
}

// =============================================================================
// PIN OPERATIONS
// =============================================================================

// PinExists reports whether a PIN is configured on the backend.
func (c *Client) PinExists(ctx context.Context) (bool, error) {
	var resp pinExistsResponse
	if err := c.getJSON(ctx, "/api/pin/exists", &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// SetPin configures the shared 4-digit PIN.
func (c *Client) SetPin(ctx context.Context, pin string) (bool, error) {
	var resp successResponse
	if err := c.postJSON(ctx, "/api/pin/set", pinRequest{Pin: pin}, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// VerifyPin checks a candidate PIN against the configured one.
// A false result is a semantic outcome, not an error.
func (c *Client) VerifyPin(ctx context.Context, pin string) (bool, error) {
	var resp pinVerifyResponse
	if err := c.postJSON(ctx, "/api/pin/verify", pinRequest{Pin: pin}, &resp); err != nil {
		return false, err
	}
	return resp.Verified, nil
}

// =============================================================================
// HISTORY EXPORT
// =============================================================================

// ExportHistory downloads the server-side chat history dump as raw bytes.
// The caller is responsible for naming and writing the file.
func (c *Client) ExportHistory(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/chat/export"), nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "export failed: " + resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read export", Cause: err}
	}
	return data, nil
}
