// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Principal is the account resolved from a verified session token.
//
// It is what the authentication guard attaches to the request context and
// what every task operation is scoped to. It never carries credentials.
type Principal struct {
	AccountID string
	Username  string
	Email     string
}
