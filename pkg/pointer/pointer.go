// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional values.

Partial updates model "field absent" as a nil pointer, so callers building
patches need a concise way to take the address of a literal.
*/
package pointer

// To returns a pointer to the provided value (e.g. pointer.To(true)).
func To[T any](v T) *T {
	return &v
}
