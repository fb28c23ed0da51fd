// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package task manages the personal task lists of Taskly accounts.

Every operation is scoped to the account resolved by the authentication guard.
A task owned by another account is indistinguishable from one that does not
exist: both are reported as NOT_FOUND.

# Core Responsibility

  - Entity: Defines the [Task] and its partial update [Patch].
  - Query: Translates list parameters into [ListOptions] via lookup tables.
  - Storage: PostgreSQL and in-memory implementations of [Repository].
*/
package task

import "time"

// # Core Entities

// Task is a single to-do item. Completion is boolean; richer status words are
// accepted only as list filter aliases.
type Task struct {
	ID          string     `json:"id"` // UUIDv7
	OwnerID     string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateInput holds the fields a client may set on a new task.
type CreateInput struct {
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
}

// Patch enumerates the mutable fields of a task. A nil pointer means "leave
// unchanged"; ClearDueDate removes the due date and wins over DueDate.
type Patch struct {
	Title        *string
	Description  *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch.Title == nil &&
		patch.Description == nil &&
		patch.Completed == nil &&
		patch.DueDate == nil &&
		!patch.ClearDueDate
}

// Apply copies the present fields onto task.
func (patch Patch) Apply(task *Task) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		due := *patch.DueDate
		task.DueDate = &due
	}
}

// # Field Limits

const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
	FieldDueDate     = "dueDate"
)

// MsgDeleted confirms a successful deletion.
const MsgDeleted = "Task deleted"
