// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"time"
)

// # Task Data Access

// Repository defines the data access contract for tasks.
//
// Every method except Create takes the owner and matches on (id, owner)
// jointly, so a foreign task yields apperr NOT_FOUND exactly like a missing one.
type Repository interface {

	/*
		Create persists a new task. ID and timestamps are assigned by the caller.

		Parameters:
		  - context: context.Context
		  - task: *Task

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, task *Task) error

	/*
		List returns the owner's tasks filtered and ordered by options.

		Ordering ties are broken by ID ascending. Tasks without a due date come
		last when sorting by due date, in either direction.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - options: ListOptions (already normalized)

		Returns:
		  - []*Task: Never nil
		  - error: Database retrieval failures
	*/
	List(context context.Context, ownerID string, options ListOptions) ([]*Task, error)

	// FindByID returns one of the owner's tasks.
	FindByID(context context.Context, ownerID, id string) (*Task, error)

	/*
		Update applies the patch in a single atomic statement and returns the
		resulting task.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - id: string
		  - patch: Patch (non-empty)
		  - updatedAt: time.Time

		Returns:
		  - *Task: Updated entity
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, ownerID, id string, patch Patch, updatedAt time.Time) (*Task, error)

	// Delete permanently removes one of the owner's tasks.
	Delete(context context.Context, ownerID, id string) error
}
