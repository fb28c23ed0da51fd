// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package api_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/taskly/internal/api"
	"github.com/taibuivan/taskly/internal/core/task"
	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/config"
	"github.com/taibuivan/taskly/internal/platform/migration"
	pgstore "github.com/taibuivan/taskly/internal/platform/postgres"
	redisstore "github.com/taibuivan/taskly/internal/platform/redis"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/users/auth"
	"github.com/taibuivan/taskly/pkg/pointer"
	"github.com/taibuivan/taskly/pkg/uuid"
)

const migrationsPath = "../../data/migrations"

// startContainer runs image and returns host:port for the given container port.
func startContainer(t *testing.T, request testcontainers.ContainerRequest, port string) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, mappedPort.Port())
}

type stack struct {
	harness  *harness
	accounts *auth.PostgresAccountRepository
	tasks    *task.PostgresRepository
	cache    *auth.RedisAccountCache
}

// newStack starts PostgreSQL and Redis, migrates, and wires the real stores.
func newStack(t *testing.T) *stack {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	postgresAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "taskly",
			"POSTGRES_PASSWORD": "taskly",
			"POSTGRES_DB":       "taskly",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")

	redisAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379/tcp")

	dsn := fmt.Sprintf("postgres://taskly:taskly@%s/taskly?sslmode=disable", postgresAddr)

	require.NoError(t, migration.RunUp(dsn, migrationsPath, logger))
	t.Cleanup(func() { _ = migration.RunDown(dsn, migrationsPath, logger) })

	pool, err := pgstore.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	rdb, err := redisstore.NewClient(ctx, "redis://"+redisAddr+"/0", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	tokens, err := sec.NewTokenService("integration-secret", "taskly.test")
	require.NoError(t, err)

	accounts := auth.NewAccountRepository(pool)
	tasks := task.NewPostgresRepository(pool)
	cache := auth.NewAccountCache(rdb)
	guard := auth.NewGuard(tokens, accounts, cache)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, logger)

	router := api.NewRouter(ctx, &config.Config{Environment: "test"}, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(accounts, tokens, time.Hour, logger), guard),
		Tasks:     task.NewHandler(task.NewService(tasks, logger)),
		Guard:     guard,
	})

	return &stack{
		harness:  &harness{handler: router, tokens: tokens},
		accounts: accounts,
		tasks:    tasks,
		cache:    cache,
	}
}

/*
TestIntegration_EndToEnd runs the core scenarios against PostgreSQL and Redis.
*/
func TestIntegration_EndToEnd(t *testing.T) {
	s := newStack(t)
	h := s.harness
	ctx := context.Background()

	status, _ := h.call(t, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, status)

	alice := h.register(t, "alice", "Alice@Example.com")
	bob := h.register(t, "bob", "bob@example.com")

	t.Run("duplicate_email_conflict", func(t *testing.T) {
		status, body := h.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alice2", "email": "alice@example.com", "password": "hunter22",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "CONFLICT", body.Code)
	})

	t.Run("guard_populates_cache", func(t *testing.T) {
		status, _ := h.call(t, http.MethodGet, "/api/tasks", alice.Token, nil)
		require.Equal(t, http.StatusOK, status)

		principal, err := s.cache.Get(ctx, alice.Account.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", principal.Username)
	})

	t.Run("filter_and_sort", func(t *testing.T) {
		h.createTask(t, alice.Token, map[string]any{"title": "A"})
		h.createTask(t, alice.Token, map[string]any{"title": "B", "completed": true})
		h.createTask(t, alice.Token, map[string]any{"title": "C"})

		status, body := h.call(t, http.MethodGet, "/api/tasks?status=todo&sortBy=title&sortOrder=asc", alice.Token, nil)
		require.Equal(t, http.StatusOK, status)

		listed := decodeList(t, body)
		require.Len(t, listed, 2)
		assert.Equal(t, "A", listed[0].Title)
		assert.Equal(t, "C", listed[1].Title)
	})

	t.Run("isolation_and_double_delete", func(t *testing.T) {
		owned := h.createTask(t, alice.Token, map[string]any{"title": "Private"})

		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			status, _ := h.call(t, method, "/api/tasks/"+owned.ID, bob.Token, nil)
			assert.Equal(t, http.StatusNotFound, status, method)
		}

		status, body := h.call(t, http.MethodPatch, "/api/tasks/"+owned.ID, alice.Token, map[string]any{"completed": true})
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(body.Data), `"title":"Private"`)

		status, _ = h.call(t, http.MethodDelete, "/api/tasks/"+owned.ID, alice.Token, nil)
		assert.Equal(t, http.StatusOK, status)
		status, _ = h.call(t, http.MethodDelete, "/api/tasks/"+owned.ID, alice.Token, nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = h.call(t, http.MethodGet, "/api/tasks/not-a-uuid", alice.Token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

/*
TestIntegration_Repositories exercises SQL paths that the HTTP layer does not reach directly.
*/
func TestIntegration_Repositories(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	account := &auth.Account{
		ID:           uuid.New(),
		Username:     "carol",
		Email:        "carol@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
	require.NoError(t, s.accounts.Create(ctx, account))
	assert.False(t, account.CreatedAt.IsZero())

	t.Run("unique_violation_is_conflict", func(t *testing.T) {
		duplicate := *account
		duplicate.ID = uuid.New()
		duplicate.Username = "carol2"

		err := s.accounts.Create(ctx, &duplicate)
		assert.True(t, apperr.Is(err, apperr.CodeConflict))
	})

	t.Run("account_lookups", func(t *testing.T) {
		found, err := s.accounts.FindByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)

		exists, err := s.accounts.ExistsByUsernameOrEmail(ctx, "carol", "nobody@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = s.accounts.FindByID(ctx, "garbage")
		assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	})

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	due := base.Add(72 * time.Hour)
	seed := []*task.Task{
		{Title: "Pay 100% of rent", Description: "before friday"},
		{Title: "pay_bills", Description: "Electricity", DueDate: &due},
		{Title: "Read", Description: "A book about PAYMENTS"},
	}
	for offset, item := range seed {
		item.ID = uuid.New()
		item.OwnerID = account.ID
		item.CreatedAt = base.Add(time.Duration(offset) * time.Minute)
		item.UpdatedAt = item.CreatedAt
		require.NoError(t, s.tasks.Create(ctx, item))
	}

	titles := func(tasks []*task.Task) []string {
		out := []string{}
		for _, item := range tasks {
			out = append(out, item.Title)
		}
		return out
	}

	t.Run("search_escapes_wildcards", func(t *testing.T) {
		listed, err := s.tasks.List(ctx, account.ID, task.ListOptions{Search: "%"}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, []string{"Pay 100% of rent"}, titles(listed))

		listed, err = s.tasks.List(ctx, account.ID, task.ListOptions{Search: "_"}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, []string{"pay_bills"}, titles(listed))
	})

	t.Run("search_is_case_insensitive_across_fields", func(t *testing.T) {
		listed, err := s.tasks.List(ctx, account.ID, task.ListOptions{Search: "pay"}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, []string{"Read", "pay_bills", "Pay 100% of rent"}, titles(listed))
	})

	t.Run("due_date_nulls_last", func(t *testing.T) {
		listed, err := s.tasks.List(ctx, account.ID, task.ListOptions{SortBy: task.SortDueDate, SortOrder: task.SortDesc})
		require.NoError(t, err)
		assert.Equal(t, "pay_bills", listed[0].Title)
	})

	t.Run("update_and_clear_due_date", func(t *testing.T) {
		target := seed[1]
		updated, err := s.tasks.Update(ctx, account.ID, target.ID, task.Patch{
			Completed:    pointer.To(true),
			ClearDueDate: true,
		}, base.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Nil(t, updated.DueDate)
		assert.Equal(t, target.Description, updated.Description)
		assert.True(t, updated.UpdatedAt.Equal(base.Add(time.Hour)))

		_, err = s.tasks.Update(ctx, uuid.New(), target.ID, task.Patch{Completed: pointer.To(false)}, base)
		assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	})
}
