// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package noesis provides the HTTP client for the NOESIS chat backend.
package noesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the NOESIS backend client.
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

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNotFound    = &ClientError{Type: ErrTypeNotFound, Message: "conversation not found"}
)

// IsUnreachable reports whether err means the backend could not be reached.
func IsUnreachable(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeUnreachable
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTimeout
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the NOESIS backend.
// It provides the streaming generation call and the conversation directory
// operations.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// streamClient carries no overall timeout; a generation stream stays
	// open as long as the server keeps producing tokens. Cancellation is
	// the caller's context.
	streamClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultClientConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		streamClient: &http.Client{},
	}
}

// newRequest builds a request with the standard headers. Every request gets a
// fresh X-Request-ID so backend logs can be correlated per call.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// wrapTransportError maps transport-level failures onto the sentinel errors.
func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable", Cause: err}
}

// =============================================================================
// STREAMING GENERATION
// =============================================================================

// StreamMessage sends a generation request and delivers each decoded stream
// event to fn, in order, from the calling goroutine. It returns when the
// stream terminates.
//
// A nil return means the stream ended normally (terminal record or EOF); fn
// has then received a final EventEnd. A non-nil return means the transport
// failed or ctx was cancelled mid-stream; events delivered before the failure
// stand, and no EventEnd follows.
func (c *Client) StreamMessage(ctx context.Context, msg MessageRequest, fn func(StreamEvent)) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/message", bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	return drain(ctx, resp.Body, NewDecoder(msg.ConversationID != ""), fn)
}

// =============================================================================
// CONVERSATION DIRECTORY
// =============================================================================

// ListConversations retrieves all conversations known to the backend.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to list conversations: " + resp.Status,
		}
	}

	var conversations []Conversation
	if err := json.NewDecoder(resp.Body).Decode(&conversations); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return conversations, nil
}

// CreateConversation asks the backend to allocate a new conversation and
// returns its id.
func (c *Client) CreateConversation(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/conversations", bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to create conversation: " + resp.Status,
		}
	}

	var created conversationCreated
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if created.ConversationID == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "backend returned empty conversation id"}
	}
	return created.ConversationID, nil
}

// ConversationMessages retrieves the full message history of a conversation.
func (c *Client) ConversationMessages(ctx context.Context, id string) ([]HistoryEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/conversations/"+id+"/messages", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to load conversation: " + resp.Status,
		}
	}

	var result conversationMessages
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return result.Messages, nil
}

// DeleteConversation removes a conversation from the backend.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/conversations/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "failed to delete conversation: " + resp.Status,
		}
	}
}
