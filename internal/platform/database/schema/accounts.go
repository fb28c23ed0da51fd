// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AccountTable represents the 'accounts' table
type AccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// Account is the schema definition for accounts
var Account = AccountTable{
	Table:        "accounts",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	PasswordHash: "password_hash",
	CreatedAt:    "created_at",
}

// Columns returns all column names in scan order
func (t AccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.PasswordHash, t.CreatedAt}
}

// ColumnList returns Columns joined for use in a SELECT list
func (t AccountTable) ColumnList() string {
	return columnList(t.Columns())
}
