// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taskclient

import (
	"encoding/json"
	"net/url"
	"time"
)

// Account is the public projection of a Taskly account.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task mirrors the task resource returned by the API.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask is the payload for [Session.CreateTask].
type NewTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TaskUpdate is a partial update. Nil fields are not sent; ClearDueDate sends
// an explicit null and wins over DueDate.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
}

// MarshalJSON emits only the fields that should change.
func (update TaskUpdate) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if update.Title != nil {
		body["title"] = *update.Title
	}
	if update.Description != nil {
		body["description"] = *update.Description
	}
	if update.Completed != nil {
		body["completed"] = *update.Completed
	}
	switch {
	case update.ClearDueDate:
		body["dueDate"] = nil
	case update.DueDate != nil:
		body["dueDate"] = update.DueDate.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(body)
}

// ListParams are the optional list filters. Empty fields are omitted.
type ListParams struct {
	Status    string // completed, pending, all...
	Search    string
	SortBy    string // createdAt, dueDate, title, status
	SortOrder string // asc, desc
}

func (params ListParams) encode() string {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("status", params.Status)
	set("search", params.Search)
	set("sortBy", params.SortBy)
	set("sortOrder", params.SortOrder)

	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// authResult is the payload of register and login.
type authResult struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details []FieldError    `json:"details"`
}
