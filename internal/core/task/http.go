// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/taskly/internal/platform/request"
	"github.com/taibuivan/taskly/internal/platform/respond"
	"github.com/taibuivan/taskly/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for task operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new task [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with task endpoints.
//
// The router must be mounted behind the authentication guard.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTasks)
	router.Post("/", handler.createTask)
	router.Get("/{id}", handler.getTask)
	router.Patch("/{id}", handler.updateTask)
	router.Delete("/{id}", handler.deleteTask)

	return router
}

// # Request Payloads

// dueDateLayouts are the accepted ISO 8601 forms, most specific first.
var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// optionalDate distinguishes an absent key, an explicit null and a value.
type optionalDate struct {
	Present bool
	Null    bool
	Invalid bool
	Value   time.Time
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for present keys.
func (date *optionalDate) UnmarshalJSON(data []byte) error {
	date.Present = true

	if bytes.Equal(data, []byte("null")) {
		date.Null = true
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		date.Invalid = true
		return nil
	}

	if raw == "" {
		date.Null = true
		return nil
	}

	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			date.Value = parsed
			return nil
		}
	}

	date.Invalid = true
	return nil
}

func (date optionalDate) pointer() *time.Time {
	if !date.Present || date.Null || date.Invalid {
		return nil
	}
	value := date.Value
	return &value
}

func (date optionalDate) err() error {
	if date.Invalid {
		return validate.FieldError(FieldDueDate, "Must be an ISO 8601 date")
	}
	return nil
}

type createRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Completed   bool         `json:"completed"`
	DueDate     optionalDate `json:"dueDate"`
}

type updateRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Completed   *bool        `json:"completed"`
	DueDate     optionalDate `json:"dueDate"`
}

func (input updateRequest) patch() Patch {
	return Patch{
		Title:        input.Title,
		Description:  input.Description,
		Completed:    input.Completed,
		DueDate:      input.DueDate.pointer(),
		ClearDueDate: input.DueDate.Present && input.DueDate.Null,
	}
}

// # Task Endpoints

/*
GET /api/tasks.

Description: Lists the caller's tasks.

Request:
  - status: string (completed, done, terminé, pending, todo, en cours, all...)
  - completed: bool
  - search: string (case-insensitive, title or description)
  - sortBy: createdAt | dueDate | title | status
  - sortOrder: asc | desc

Response:
  - 200: []Task
  - 401: UNAUTHENTICATED
*/
func (handler *Handler) listTasks(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tasks, err := handler.service.List(request.Context(), owner, ParseListOptions(request.URL.Query()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tasks)
}

/*
POST /api/tasks.

Response:
  - 201: Task
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) createTask(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.DueDate.err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.service.Create(request.Context(), owner, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		DueDate:     input.DueDate.pointer(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, task)
}

// getTask handles GET /api/tasks/{id}.
func (handler *Handler) getTask(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.service.Get(request.Context(), owner, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
PATCH /api/tasks/{id}.

Description: Applies only the keys present in the body. "dueDate": null
removes the due date.

Response:
  - 200: Task
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND (absent or owned by another account)
*/
func (handler *Handler) updateTask(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.DueDate.err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.service.Update(request.Context(), owner, requestutil.Param(request, "id"), input.patch())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
DELETE /api/tasks/{id}.

Response:
  - 200: {"message": "Task deleted"}
  - 404: NOT_FOUND
*/
func (handler *Handler) deleteTask(writer http.ResponseWriter, request *http.Request) {
	owner, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), owner, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgDeleted)
}
