// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/core/task"
)

/*
TestParseListOptions_Status maps every status alias onto the completion filter.
*/
func TestParseListOptions_Status(t *testing.T) {
	tests := []struct {
		status string
		want   *bool
	}{
		{"completed", ptr(true)},
		{"done", ptr(true)},
		{"terminé", ptr(true)},
		{"TERMINÉ", ptr(true)},
		{"pending", ptr(false)},
		{"todo", ptr(false)},
		{"à faire", ptr(false)},
		{"en cours", ptr(false)},
		{"false", ptr(false)},
		{"all", nil},
		{"whatever", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			options := task.ParseListOptions(url.Values{"status": {tt.status}})
			assert.Equal(t, tt.want, options.Completed)
		})
	}
}

/*
TestParseListOptions_CompletedParam verifies the boolean parameter and its precedence.
*/
func TestParseListOptions_CompletedParam(t *testing.T) {
	options := task.ParseListOptions(url.Values{"completed": {"true"}})
	require.NotNil(t, options.Completed)
	assert.True(t, *options.Completed)

	// A recognized status wins.
	options = task.ParseListOptions(url.Values{"completed": {"true"}, "status": {"todo"}})
	require.NotNil(t, options.Completed)
	assert.False(t, *options.Completed)

	options = task.ParseListOptions(url.Values{"completed": {"maybe"}})
	assert.Nil(t, options.Completed)
}

/*
TestParseListOptions_Sort verifies sort lookups and defaults.
*/
func TestParseListOptions_Sort(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		wantKey   task.SortKey
		wantOrder task.SortOrder
	}{
		{"defaults", "", "", task.SortCreatedAt, task.SortDesc},
		{"title_asc", "title", "asc", task.SortTitle, task.SortAsc},
		{"status_alias", "status", "desc", task.SortCompleted, task.SortDesc},
		{"due_date_mixed_case", "DueDate", "ASC", task.SortDueDate, task.SortAsc},
		{"unknown_values", "priority", "sideways", task.SortCreatedAt, task.SortDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := task.ParseListOptions(url.Values{
				"sortBy":    {tt.sortBy},
				"sortOrder": {tt.sortOrder},
			})
			assert.Equal(t, tt.wantKey, options.SortBy)
			assert.Equal(t, tt.wantOrder, options.SortOrder)
		})
	}
}

/*
TestParseListOptions_Search trims the search term.
*/
func TestParseListOptions_Search(t *testing.T) {
	options := task.ParseListOptions(url.Values{"search": {"  milk "}})
	assert.Equal(t, "milk", options.Search)
}

func ptr[T any](v T) *T { return &v }
