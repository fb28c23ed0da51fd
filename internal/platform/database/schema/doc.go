// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns created by data/migrations.
//
// Repositories build their SQL from these descriptors so a renamed column is a
// one-line change here and in the migration.
package schema

import "strings"

// columnList joins column names for SELECT, INSERT and RETURNING clauses.
func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}
