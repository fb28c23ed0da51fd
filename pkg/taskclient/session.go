// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taskclient

import (
	"context"
	"net/http"
	"net/url"
)

// Session is an authenticated view of the API for one account.
type Session struct {
	client  *Client
	token   string
	account *Account
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.token }

// Account returns the account captured at login, or nil for a resumed session.
func (s *Session) Account() *Account { return s.account }

// Me fetches the account behind the token and caches it on the session.
func (s *Session) Me(ctx context.Context) (*Account, error) {
	var account Account
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, &account); err != nil {
		return nil, err
	}
	s.account = &account
	return &account, nil
}

// ListTasks returns the account's tasks matching params.
func (s *Session) ListTasks(ctx context.Context, params ListParams) ([]Task, error) {
	tasks := []Task{}
	if err := s.do(ctx, http.MethodGet, "/api/tasks"+params.encode(), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches one task.
func (s *Session) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := s.do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task.
func (s *Session) CreateTask(ctx context.Context, input NewTask) (*Task, error) {
	var task Task
	if err := s.do(ctx, http.MethodPost, "/api/tasks", input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update.
func (s *Session) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*Task, error) {
	var task Task
	if err := s.do(ctx, http.MethodPatch, taskPath(id), update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task. A second delete returns an error satisfying [IsNotFound].
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func (s *Session) do(ctx context.Context, method, path string, payload, target any) error {
	return s.client.do(ctx, method, path, s.token, payload, target)
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}
