// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TaskTable represents the 'tasks' table
type TaskTable struct {
	Table       string
	ID          string
	OwnerID     string
	Title       string
	Description string
	Completed   string
	DueDate     string
	CreatedAt   string
	UpdatedAt   string
}

// Task is the schema definition for tasks
var Task = TaskTable{
	Table:       "tasks",
	ID:          "id",
	OwnerID:     "owner_id",
	Title:       "title",
	Description: "description",
	Completed:   "completed",
	DueDate:     "due_date",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all column names in scan order
func (t TaskTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Description, t.Completed,
		t.DueDate, t.CreatedAt, t.UpdatedAt,
	}
}

// ColumnList returns Columns joined for use in a SELECT list
func (t TaskTable) ColumnList() string {
	return columnList(t.Columns())
}
