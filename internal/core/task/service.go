// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/platform/validate"
	"github.com/taibuivan/taskly/pkg/uuid"
)

// Service implements the owner-scoped task use cases.
//
// The owner always comes from the authentication guard as a [sec.Principal];
// no method accepts an account ID from the client.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new task [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

/*
Create validates and stores a new task for the owner.

Parameters:
  - context: context.Context
  - owner: *sec.Principal
  - input: CreateInput

Returns:
  - *Task: The created task
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, owner *sec.Principal, input CreateInput) (*Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	validateTitle(validator, input.Title)
	validator.MaxLen(FieldDescription, input.Description, DescriptionMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.timestamp()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     owner.AccountID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		DueDate:     normalizeDue(input.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repository.Create(context, task); err != nil {
		return nil, fmt.Errorf("task_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "task_created",
		slog.String("task_id", task.ID),
		slog.String("owner_id", owner.AccountID),
	)

	return task, nil
}

// List returns the owner's tasks filtered and ordered by options.
func (service *Service) List(context context.Context, owner *sec.Principal, options ListOptions) ([]*Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	tasks, err := service.repository.List(context, owner.AccountID, options.Normalize())
	if err != nil {
		return nil, fmt.Errorf("task_service_list_failed: %w", err)
	}

	return tasks, nil
}

// Get returns one of the owner's tasks.
func (service *Service) Get(context context.Context, owner *sec.Principal, id string) (*Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	task, err := service.repository.FindByID(context, owner.AccountID, id)
	if err != nil {
		return nil, fmt.Errorf("task_service_get_failed: %w", err)
	}

	return task, nil
}

/*
Update applies a partial update to one of the owner's tasks.

Description: Only fields present in the patch change. An empty patch returns
the task unchanged, still enforcing ownership.

Parameters:
  - context: context.Context
  - owner: *sec.Principal
  - id: string
  - patch: Patch

Returns:
  - *Task: The updated task
  - error: Validation, NotFound or storage failures
*/
func (service *Service) Update(context context.Context, owner *sec.Principal, id string, patch Patch) (*Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
		validateTitle(validator, title)
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		patch.Description = &description
		validator.MaxLen(FieldDescription, description, DescriptionMaxLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return service.Get(context, owner, id)
	}

	patch.DueDate = normalizeDue(patch.DueDate)

	task, err := service.repository.Update(context, owner.AccountID, id, patch, service.timestamp())
	if err != nil {
		return nil, fmt.Errorf("task_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "task_updated",
		slog.String("task_id", task.ID),
		slog.String("owner_id", owner.AccountID),
	)

	return task, nil
}

// Delete permanently removes one of the owner's tasks. Deleting twice yields NOT_FOUND.
func (service *Service) Delete(context context.Context, owner *sec.Principal, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}

	if err := service.repository.Delete(context, owner.AccountID, id); err != nil {
		return fmt.Errorf("task_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "task_deleted",
		slog.String("task_id", id),
		slog.String("owner_id", owner.AccountID),
	)

	return nil
}

// # Helpers

func requireOwner(owner *sec.Principal) error {
	if owner == nil || owner.AccountID == "" {
		return apperr.Unauthenticated("Authentication required")
	}
	return nil
}

func validateTitle(validator *validate.Validator, title string) {
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, TitleMaxLength)
}

// timestamp returns the current time at the precision PostgreSQL stores.
func (service *Service) timestamp() time.Time {
	return service.now().UTC().Truncate(time.Microsecond)
}

func normalizeDue(due *time.Time) *time.Time {
	if due == nil {
		return nil
	}
	normalized := due.UTC().Truncate(time.Microsecond)
	return &normalized
}
