// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"net/url"
	"strconv"
	"strings"
)

// # Sorting

// SortKey selects the column a task list is ordered by.
type SortKey string

const (
	SortCreatedAt SortKey = "createdAt"
	SortDueDate   SortKey = "dueDate"
	SortTitle     SortKey = "title"
	SortCompleted SortKey = "completed"
)

// SortOrder selects the direction of a task list.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions configures a task listing. The zero value lists every task,
// newest first.
type ListOptions struct {
	Completed *bool
	Search    string
	SortBy    SortKey
	SortOrder SortOrder
}

// # Lookup Tables

// sortKeys maps the sortBy query value onto a sort key. "status" is the
// client-facing name of the completion flag.
var sortKeys = map[string]SortKey{
	"createdat": SortCreatedAt,
	"duedate":   SortDueDate,
	"title":     SortTitle,
	"status":    SortCompleted,
	"completed": SortCompleted,
}

var sortOrders = map[string]SortOrder{
	"asc":  SortAsc,
	"desc": SortDesc,
}

// statusFilters maps the status query value onto a completion filter. The
// three-state vocabulary of the web client collapses onto the boolean: "en
// cours" (in progress) counts as not completed. "all" is deliberately absent.
var statusFilters = map[string]bool{
	"completed": true,
	"done":      true,
	"terminé":   true,
	"true":      true,

	"pending":  false,
	"todo":     false,
	"active":   false,
	"à faire":  false,
	"en cours": false,
	"false":    false,
}

// # Parsing

// ParseListOptions reads status, completed, search, sortBy and sortOrder from
// a query string. Unknown values are ignored rather than rejected.
func ParseListOptions(values url.Values) ListOptions {
	var options ListOptions

	if completed, found := statusFilters[normalizeToken(values.Get("status"))]; found {
		options.Completed = &completed
	} else if completed, err := strconv.ParseBool(values.Get("completed")); err == nil {
		options.Completed = &completed
	}

	options.Search = strings.TrimSpace(values.Get("search"))
	options.SortBy = sortKeys[normalizeToken(values.Get("sortBy"))]
	options.SortOrder = sortOrders[normalizeToken(values.Get("sortOrder"))]

	return options.Normalize()
}

// Normalize replaces unset or unknown sort fields with the defaults: creation
// time, descending.
func (options ListOptions) Normalize() ListOptions {
	switch options.SortBy {
	case SortCreatedAt, SortDueDate, SortTitle, SortCompleted:
	default:
		options.SortBy = SortCreatedAt
	}
	if options.SortOrder != SortAsc {
		options.SortOrder = SortDesc
	}
	return options
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
