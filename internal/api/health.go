// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/constants"
	"github.com/taibuivan/taskly/internal/platform/respond"
)

// readinessTimeout bounds every dependency probe.
const readinessTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
//
// A nil checker is skipped; Redis is optional.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(context.Context) error

	// CheckCache pings the Redis client.
	CheckCache func(context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name string `json:"name"`
	IsOK bool   `json:"ok"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus: "ok",
		"version":             constants.AppVersion,
	})
}

// readiness handles GET /ready (Readiness probe).
//
// A failing probe yields a SERVICE_UNAVAILABLE envelope naming the dependency.
// Probe errors are logged and never written to the response.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	probeCtx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	results := make([]checkResult, 0, 2)
	var (
		failures []apperr.FieldError
		causes   []error
	)

	probe := func(name string, check func(context.Context) error) {
		if check == nil {
			return
		}
		err := check(probeCtx)
		results = append(results, checkResult{Name: name, IsOK: err == nil})
		if err == nil {
			return
		}

		failures = append(failures, apperr.FieldError{Field: name, Message: "unavailable"})
		causes = append(causes, fmt.Errorf("%s: %w", name, err))
		handler.logger.ErrorContext(probeCtx, "readiness_check_failed",
			slog.String("dependency", name),
			slog.Any("error", err),
		)
	}

	probe("postgres", handler.dependencies.CheckDatabase)
	probe("redis", handler.dependencies.CheckCache)

	if len(failures) > 0 {
		respond.Error(writer, request, apperr.Unavailable(errors.Join(causes...), failures...))
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldStatus: "ready",
		constants.FieldChecks: results,
	})
}
