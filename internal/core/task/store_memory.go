// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/taskly/internal/platform/apperr"
)

// MemoryRepository is an in-process [Repository] with the same filtering and
// ordering semantics as [PostgresRepository].
type MemoryRepository struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	failWith error
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[string]*Task)}
}

// FailWith makes every subsequent call return err. Passing nil restores normal behavior.
func (repository *MemoryRepository) FailWith(err error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.failWith = err
}

// Create implements [Repository].
func (repository *MemoryRepository) Create(_ context.Context, task *Task) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return apperr.Internal(repository.failWith)
	}

	if _, found := repository.tasks[task.ID]; found {
		return apperr.Conflict("Task already exists")
	}

	repository.tasks[task.ID] = clone(task)
	return nil
}

// List implements [Repository].
func (repository *MemoryRepository) List(_ context.Context, ownerID string, options ListOptions) ([]*Task, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if repository.failWith != nil {
		return nil, apperr.Internal(repository.failWith)
	}

	options = options.Normalize()
	folder := cases.Fold()
	needle := folder.String(options.Search)

	tasks := []*Task{}
	for _, task := range repository.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if options.Completed != nil && task.Completed != *options.Completed {
			continue
		}
		if needle != "" &&
			!strings.Contains(folder.String(task.Title), needle) &&
			!strings.Contains(folder.String(task.Description), needle) {
			continue
		}
		tasks = append(tasks, clone(task))
	}

	slices.SortFunc(tasks, comparator(options))
	return tasks, nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, ownerID, id string) (*Task, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if repository.failWith != nil {
		return nil, apperr.Internal(repository.failWith)
	}

	task, found := repository.tasks[id]
	if !found || task.OwnerID != ownerID {
		return nil, apperr.NotFound("Task")
	}

	return clone(task), nil
}

// Update implements [Repository]. The write lock makes the patch atomic.
func (repository *MemoryRepository) Update(_ context.Context, ownerID, id string, patch Patch, updatedAt time.Time) (*Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, apperr.Internal(repository.failWith)
	}

	task, found := repository.tasks[id]
	if !found || task.OwnerID != ownerID {
		return nil, apperr.NotFound("Task")
	}

	patch.Apply(task)
	task.UpdatedAt = updatedAt

	return clone(task), nil
}

// Delete implements [Repository].
func (repository *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return apperr.Internal(repository.failWith)
	}

	task, found := repository.tasks[id]
	if !found || task.OwnerID != ownerID {
		return apperr.NotFound("Task")
	}

	delete(repository.tasks, id)
	return nil
}

// # Helpers

// comparator orders tasks like the ORDER BY clause of the PostgreSQL repository.
func comparator(options ListOptions) func(a, b *Task) int {
	sign := -1
	if options.SortOrder == SortAsc {
		sign = 1
	}

	return func(a, b *Task) int {
		var result int

		switch options.SortBy {
		case SortDueDate:
			// Missing due dates sort last regardless of direction.
			switch {
			case a.DueDate == nil && b.DueDate == nil:
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			default:
				result = sign * a.DueDate.Compare(*b.DueDate)
			}
		case SortTitle:
			result = sign * strings.Compare(a.Title, b.Title)
		case SortCompleted:
			result = sign * compareBool(a.Completed, b.Completed)
		default:
			result = sign * a.CreatedAt.Compare(b.CreatedAt)
		}

		if result != 0 {
			return result
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func clone(task *Task) *Task {
	copied := *task
	if task.DueDate != nil {
		due := *task.DueDate
		copied.DueDate = &due
	}
	return &copied
}
