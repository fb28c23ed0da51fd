// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/api"
	"github.com/taibuivan/taskly/internal/core/task"
	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/config"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/users/auth"
)

// # Fixture

type harness struct {
	handler  http.Handler
	tokens   *sec.TokenService
	accounts *auth.MemoryAccountRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService("e2e-secret", "taskly.test")
	require.NoError(t, err)

	accounts := auth.NewMemoryAccountRepository()
	guard := auth.NewGuard(tokens, accounts, nil)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
	}, logger)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(accounts, tokens, time.Hour, logger), guard),
		Tasks:     task.NewHandler(task.NewService(task.NewMemoryRepository(), logger)),
		Guard:     guard,
	}

	cfg := &config.Config{ServerPort: "0", Environment: "test", TokenTTL: time.Hour}

	return &harness{
		handler:  api.NewRouter(ctx, cfg, logger, handlers),
		tokens:   tokens,
		accounts: accounts,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type session struct {
	Account struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"account"`
	Token string `json:"token"`
}

type taskView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (h *harness) call(t *testing.T, method, path, token string, payload any) (int, envelope) {
	t.Helper()

	var body io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	return recorder.Code, decoded
}

func (h *harness) register(t *testing.T, username, email string) session {
	t.Helper()
	status, body := h.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, status, body.Error)

	var result session
	require.NoError(t, json.Unmarshal(body.Data, &result))
	return result
}

func (h *harness) createTask(t *testing.T, token string, payload map[string]any) taskView {
	t.Helper()
	status, body := h.call(t, http.MethodPost, "/api/tasks", token, payload)
	require.Equal(t, http.StatusCreated, status, body.Error)

	var created taskView
	require.NoError(t, json.Unmarshal(body.Data, &created))
	return created
}

func decodeList(t *testing.T, body envelope) []taskView {
	t.Helper()
	var listed []taskView
	require.NoError(t, json.Unmarshal(body.Data, &listed))
	return listed
}

// # Authentication

/*
TestAuth_RegisterLoginMe covers the happy path across the three auth endpoints.
*/
func TestAuth_RegisterLoginMe(t *testing.T) {
	h := newHarness(t)
	registered := h.register(t, "alice", "Alice@Example.com")

	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice@example.com", registered.Account.Email)

	status, body := h.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ALICE@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body.Data), "password")

	status, body = h.call(t, http.MethodGet, "/api/auth/me", registered.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), registered.Account.ID)
}

/*
TestAuth_DuplicateEmail verifies the conflict and that the first account keeps working.
*/
func TestAuth_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	first := h.register(t, "alice", "alice@example.com")

	status, body := h.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.False(t, body.Success)

	status, _ = h.call(t, http.MethodGet, "/api/tasks", first.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

/*
TestAuth_LoginFailuresIndistinguishable compares unknown email and wrong password.
*/
func TestAuth_LoginFailuresIndistinguishable(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice", "alice@example.com")

	unknownStatus, unknown := h.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "hunter22",
	})
	wrongStatus, wrong := h.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "not-it",
	})

	assert.Equal(t, http.StatusUnauthorized, unknownStatus)
	assert.Equal(t, unknownStatus, wrongStatus)
	assert.Equal(t, unknown, wrong)
	assert.Equal(t, "AUTHENTICATION_FAILED", wrong.Code)
}

/*
TestGuard_RejectsRequests verifies every unusable token yields the same 401.
*/
func TestGuard_RejectsRequests(t *testing.T) {
	h := newHarness(t)
	registered := h.register(t, "alice", "alice@example.com")

	expired, err := h.tokens.GenerateAccessToken(registered.Account.ID, -time.Minute)
	require.NoError(t, err)

	foreign, err := sec.NewTokenService("another-secret", "taskly.test")
	require.NoError(t, err)
	forged, err := foreign.GenerateAccessToken(registered.Account.ID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"absent", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expired},
		{"forged", forged},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.call(t, http.MethodGet, "/api/tasks", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHENTICATED", body.Code)
			messages = append(messages, body.Error)
		})
	}

	for _, message := range messages {
		assert.Equal(t, messages[0], message)
	}
}

/*
TestGuard_VanishedAccount rejects a valid token whose account no longer exists.
*/
func TestGuard_VanishedAccount(t *testing.T) {
	h := newHarness(t)
	registered := h.register(t, "alice", "alice@example.com")

	h.accounts.Delete(registered.Account.ID)

	status, body := h.call(t, http.MethodGet, "/api/tasks", registered.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body.Code)
}

/*
TestGuard_StorageFailure surfaces an account lookup failure as a 500.
*/
func TestGuard_StorageFailure(t *testing.T) {
	h := newHarness(t)
	registered := h.register(t, "alice", "alice@example.com")

	h.accounts.FailWith(errors.New("pool exhausted"))

	status, body := h.call(t, http.MethodGet, "/api/tasks", registered.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, body.Error, "pool")
}

// # Tasks

/*
TestTasks_CrossAccountIsolation verifies B cannot observe or mutate A's task.
*/
func TestTasks_CrossAccountIsolation(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice", "alice@example.com")
	bob := h.register(t, "bob", "bob@example.com")

	owned := h.createTask(t, alice.Token, map[string]any{"title": "Private"})

	status, body := h.call(t, http.MethodGet, "/api/tasks", bob.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeList(t, body))

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var payload any
		if method == http.MethodPatch {
			payload = map[string]any{"completed": true}
		}
		status, body := h.call(t, method, "/api/tasks/"+owned.ID, bob.Token, payload)
		assert.Equal(t, http.StatusNotFound, status, method)
		assert.Equal(t, "NOT_FOUND", body.Code, method)
	}

	status, body = h.call(t, http.MethodGet, "/api/tasks/"+owned.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"completed":false`)
}

/*
TestTasks_FilterAndSort covers the A/B/C scenario end to end.
*/
func TestTasks_FilterAndSort(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice", "alice@example.com")

	h.createTask(t, alice.Token, map[string]any{"title": "A"})
	h.createTask(t, alice.Token, map[string]any{"title": "B", "completed": true})
	h.createTask(t, alice.Token, map[string]any{"title": "C"})

	status, body := h.call(t, http.MethodGet, "/api/tasks?completed=false&sortBy=title&sortOrder=asc", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)

	listed := decodeList(t, body)
	require.Len(t, listed, 2)
	assert.Equal(t, "A", listed[0].Title)
	assert.Equal(t, "C", listed[1].Title)
}

/*
TestTasks_PartialUpdateAndDoubleDelete covers the update round trip and deletion.
*/
func TestTasks_PartialUpdateAndDoubleDelete(t *testing.T) {
	h := newHarness(t)
	alice := h.register(t, "alice", "alice@example.com")
	created := h.createTask(t, alice.Token, map[string]any{"title": "Report", "description": "Q3"})

	status, body := h.call(t, http.MethodPatch, "/api/tasks/"+created.ID, alice.Token, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"title":"Report"`)
	assert.Contains(t, string(body.Data), `"description":"Q3"`)
	assert.Contains(t, string(body.Data), `"completed":true`)

	status, body = h.call(t, http.MethodDelete, "/api/tasks/"+created.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Task deleted"}`, string(body.Data))

	status, body = h.call(t, http.MethodDelete, "/api/tasks/"+created.ID, alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

// # Infrastructure

/*
TestRouter_Envelopes verifies probes and unknown routes share the envelope.
*/
func TestRouter_Envelopes(t *testing.T) {
	h := newHarness(t)

	status, body := h.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)

	status, body = h.call(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"ready"`)

	status, body = h.call(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

/*
TestReadiness_Unavailable reports 503 in the error envelope and keeps probe
errors out of the response body.
*/
func TestReadiness_Unavailable(t *testing.T) {
	cause := errors.New("postgres: ping failed: failed to connect to host=10.0.3.7 user=taskly database=taskly_prod")

	_, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return cause },
		CheckCache:    func(context.Context) error { return nil },
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	raw := recorder.Body.String()
	for _, leaked := range []string{"10.0.3.7", "taskly_prod", "ping failed"} {
		assert.NotContains(t, raw, leaked)
	}

	var body struct {
		Success bool                `json:"success"`
		Error   string              `json:"error"`
		Code    string              `json:"code"`
		Data    json.RawMessage     `json:"data"`
		Details []apperr.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.False(t, body.Success)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Code)
	assert.NotEmpty(t, body.Error)
	assert.Nil(t, body.Data)
	assert.Equal(t, []apperr.FieldError{{Field: "postgres", Message: "unavailable"}}, body.Details)
}
