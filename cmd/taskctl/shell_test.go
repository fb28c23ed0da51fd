// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/api"
	"github.com/taibuivan/taskly/internal/core/task"
	"github.com/taibuivan/taskly/internal/platform/config"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/users/auth"
	"github.com/taibuivan/taskly/pkg/taskclient"
)

// newTestShell returns a shell bound to an in-memory server whose prompts are
// answered from the given inputs in order.
func newTestShell(t *testing.T, inputs ...string) (*Shell, *bytes.Buffer) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService("shell-secret", "taskly.test")
	require.NoError(t, err)
	accounts := auth.NewMemoryAccountRepository()
	guard := auth.NewGuard(tokens, accounts, nil)
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)

	server := httptest.NewServer(api.NewRouter(ctx, &config.Config{Environment: "test"}, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(accounts, tokens, time.Hour, logger), guard),
		Tasks:     task.NewHandler(task.NewService(task.NewMemoryRepository(), logger)),
		Guard:     guard,
	}))
	t.Cleanup(server.Close)

	out := &bytes.Buffer{}
	shell := NewShell(taskclient.New(server.URL), out)

	queue := inputs
	next := func(string) (string, error) {
		if len(queue) == 0 {
			return "", errors.New("no scripted input left")
		}
		value := queue[0]
		queue = queue[1:]
		return value, nil
	}
	shell.readLine = next
	shell.readPassword = next

	return shell, out
}

/*
TestParseArgs verifies quoting rules.
*/
func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"list status=done", []string{"list", "status=done"}},
		{`add "Buy milk" today`, []string{"add", "Buy milk", "today"}},
		{`list search="a b"`, []string{"list", "search=a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseArgs(tt.input))
		})
	}
}

/*
TestShell_Workflow registers, adds, completes and removes tasks by list position.
*/
func TestShell_Workflow(t *testing.T) {
	shell, out := newTestShell(t, "alice", "alice@example.com", "hunter22")

	require.NoError(t, shell.Execute("register"))
	assert.Contains(t, out.String(), "Welcome, alice.")

	require.NoError(t, shell.Execute(`add "Buy milk"`))
	require.NoError(t, shell.Execute("add Walk the dog"))
	assert.Contains(t, out.String(), `Added "Walk the dog"`)

	out.Reset()
	require.NoError(t, shell.Execute("list sort=title order=asc"))
	assert.Regexp(t, `1\s+\[ \]\s+Buy milk`, out.String())
	assert.Contains(t, out.String(), "Walk the dog")

	out.Reset()
	require.NoError(t, shell.Execute("done 1"))
	assert.Contains(t, out.String(), `"Buy milk" is now completed.`)

	out.Reset()
	require.NoError(t, shell.Execute("list status=pending"))
	assert.NotContains(t, out.String(), "Buy milk")
	assert.Contains(t, out.String(), "Walk the dog")

	out.Reset()
	require.NoError(t, shell.Execute("rm #1"))
	assert.Contains(t, out.String(), "Task deleted.")

	out.Reset()
	require.NoError(t, shell.Execute("list status=pending"))
	assert.Contains(t, out.String(), "No tasks.")

	out.Reset()
	require.NoError(t, shell.Execute("whoami"))
	assert.Contains(t, out.String(), "alice <alice@example.com>")
}

/*
TestShell_Guards covers logged-out commands, unknown commands and exit.
*/
func TestShell_Guards(t *testing.T) {
	shell, out := newTestShell(t)

	require.NoError(t, shell.Execute("list"))
	assert.Contains(t, out.String(), "Not logged in.")

	require.NoError(t, shell.Execute("frobnicate"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	require.NoError(t, shell.Execute("help"))
	assert.Contains(t, out.String(), "login")

	assert.ErrorIs(t, shell.Execute("exit"), errExit)
}

/*
TestShell_Errors covers bad credentials, missing tasks and stale sessions.
*/
func TestShell_Errors(t *testing.T) {
	shell, out := newTestShell(t,
		"alice", "alice@example.com", "hunter22",
		"alice@example.com", "wrong-password",
	)

	require.NoError(t, shell.Execute("register"))
	require.NoError(t, shell.Execute("logout"))

	out.Reset()
	require.NoError(t, shell.Execute("login"))
	assert.Contains(t, out.String(), "AUTHENTICATION_FAILED")
	assert.Nil(t, shell.session)

	shell.session = shell.client.Resume("expired")
	out.Reset()
	require.NoError(t, shell.Execute("list"))
	assert.Contains(t, out.String(), "Session expired.")
	assert.Nil(t, shell.session)
}

/*
TestShell_MissingTask reports absent tasks and invalid positions.
*/
func TestShell_MissingTask(t *testing.T) {
	shell, out := newTestShell(t, "bob", "bob@example.com", "hunter22")
	require.NoError(t, shell.Execute("register"))

	out.Reset()
	require.NoError(t, shell.Execute("done 0190b3a4-ffff-7fff-8fff-ffffffffffff"))
	assert.Contains(t, out.String(), "task not found")

	out.Reset()
	require.NoError(t, shell.Execute("rm 3"))
	assert.Contains(t, out.String(), "run 'list' first")
}
