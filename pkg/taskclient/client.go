// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taskclient is a Go client for the Taskly HTTP API.

A [Client] performs the unauthenticated calls (register, login) and returns a
[Session] that carries the account and its token explicitly. Nothing is stored
globally; dropping the Session is logging out.
*/
package taskclient

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

const defaultTimeout = 10 * time.Second

// Client talks to a Taskly server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for the server at baseURL (without the /api suffix).
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Register creates an account and returns a logged-in session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Resume builds a session from a token obtained earlier.
func (c *Client) Resume(token string) *Session {
	return &Session{client: c, token: token}
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (*Session, error) {
	var result authResult
	if err := c.do(ctx, http.MethodPost, path, "", payload, &result); err != nil {
		return nil, err
	}

	account := result.Account
	return &Session{client: c, token: result.Token, account: &account}, nil
}

// do sends a JSON request and decodes the envelope's data into target.
func (c *Client) do(ctx context.Context, method, path, token string, payload, target any) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	return decode(resp, target)
}

// decode reads the envelope once and returns an [*APIError] for failures.
func decode(resp *http.Response, target any) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var payload envelope
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    CodeInternal,
			Message: fmt.Sprintf("unexpected response: %s", http.StatusText(resp.StatusCode)),
		}
	}

	if !payload.Success || resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    payload.Code,
			Message: payload.Error,
			Details: payload.Details,
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(payload.Data, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
