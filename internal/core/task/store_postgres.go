// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/database/schema"
	"github.com/taibuivan/taskly/internal/platform/dberr"
	"github.com/taibuivan/taskly/pkg/uuid"
)

var taskColumns = schema.Task.ColumnList()

// sortColumns maps a sort key onto its ORDER BY expression. Titles compare
// bytewise so that the order does not depend on the database locale.
var sortColumns = map[SortKey]string{
	SortCreatedAt: schema.Task.CreatedAt,
	SortDueDate:   schema.Task.DueDate,
	SortTitle:     schema.Task.Title + ` COLLATE "C"`,
	SortCompleted: schema.Task.Completed,
}

var (
	insertTaskQuery = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.Task.Table, taskColumns)

	selectTaskQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		taskColumns, schema.Task.Table, schema.Task.ID, schema.Task.OwnerID)

	deleteTaskQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Task.Table, schema.Task.ID, schema.Task.OwnerID)
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// # Task Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new task row.
func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	_, err := repository.pool.Exec(context, insertTaskQuery,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Task", "postgres_task_repo_create_failed", "Task already exists")
	}

	return nil
}

/*
List builds a filtered, ordered query over the owner's tasks.

Description: Search uses ILIKE over title and description with LIKE
wildcards escaped, so user input always matches literally.

Parameters:
  - context: context.Context
  - ownerID: string
  - options: ListOptions

Returns:
  - []*Task: Ordered tasks, empty when none match
  - error: Database failures
*/
func (repository *PostgresRepository) List(context context.Context, ownerID string, options ListOptions) ([]*Task, error) {
	var queryBuilder strings.Builder
	args := []any{ownerID}

	fmt.Fprintf(&queryBuilder, `SELECT %s FROM %s WHERE %s = $1`, taskColumns, schema.Task.Table, schema.Task.OwnerID)

	if options.Completed != nil {
		args = append(args, *options.Completed)
		fmt.Fprintf(&queryBuilder, ` AND %s = $%d`, schema.Task.Completed, len(args))
	}

	if options.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(options.Search)+"%")
		fmt.Fprintf(&queryBuilder, ` AND (%[1]s ILIKE $%[3]d ESCAPE '\' OR %[2]s ILIKE $%[3]d ESCAPE '\')`,
			schema.Task.Title, schema.Task.Description, len(args))
	}

	queryBuilder.WriteString(orderBy(options.Normalize()))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "postgres_task_repo_list_failed", "")
	}

	tasks, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "postgres_task_repo_list_scan_failed", "")
	}

	if tasks == nil {
		tasks = []*Task{}
	}

	return tasks, nil
}

// FindByID retrieves one of the owner's tasks.
func (repository *PostgresRepository) FindByID(context context.Context, ownerID, id string) (*Task, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Task")
	}

	rows, err := repository.pool.Query(context, selectTaskQuery, id, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "postgres_task_repo_find_failed", "")
	}

	task, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "postgres_task_repo_find_failed", "")
	}

	return task, nil
}

/*
Update applies only the fields present in the patch with one statement.

Description: The (id, owner_id) predicate and the column assignments run in a
single UPDATE ... RETURNING, so no read-modify-write window exists.

Parameters:
  - context: context.Context
  - ownerID: string
  - id: string
  - patch: Patch
  - updatedAt: time.Time

Returns:
  - *Task: Row as stored after the update
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, ownerID, id string, patch Patch, updatedAt time.Time) (*Task, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Task")
	}

	args := []any{id, ownerID, updatedAt}
	assignments := []string{schema.Task.UpdatedAt + " = $3"}

	set := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set(schema.Task.Title, *patch.Title)
	}
	if patch.Description != nil {
		set(schema.Task.Description, *patch.Description)
	}
	if patch.Completed != nil {
		set(schema.Task.Completed, *patch.Completed)
	}
	if patch.ClearDueDate {
		assignments = append(assignments, schema.Task.DueDate+" = NULL")
	} else if patch.DueDate != nil {
		set(schema.Task.DueDate, *patch.DueDate)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1 AND %s = $2 RETURNING %s`,
		schema.Task.Table, strings.Join(assignments, ", "), schema.Task.ID, schema.Task.OwnerID, taskColumns)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "postgres_task_repo_update_failed", "")
	}

	task, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if err != nil {
		return nil, dberr.Wrap(err, "Task", "postgres_task_repo_update_failed", "")
	}

	return task, nil
}

// Delete removes one of the owner's tasks. Zero affected rows means NOT_FOUND.
func (repository *PostgresRepository) Delete(context context.Context, ownerID, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Task")
	}

	tag, err := repository.pool.Exec(context, deleteTaskQuery, id, ownerID)
	if err != nil {
		return dberr.Wrap(err, "Task", "postgres_task_repo_delete_failed", "")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}

	return nil
}

// # Helpers

func orderBy(options ListOptions) string {
	direction := "DESC"
	if options.SortOrder == SortAsc {
		direction = "ASC"
	}

	clause := fmt.Sprintf(" ORDER BY %s %s", sortColumns[options.SortBy], direction)
	if options.SortBy == SortDueDate {
		clause += " NULLS LAST"
	}

	return clause + ", " + schema.Task.ID + " ASC"
}

func scanTask(row pgx.CollectableRow) (*Task, error) {
	task := &Task{}
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}
