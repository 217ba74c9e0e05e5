package handler

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/smarttasker-api/internal/middleware"
	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ServeHTTP routes /api/tasks/ and /api/tasks/{id}/
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/tasks")
	path = strings.Trim(path, "/")

	if strings.Contains(path, "/") {
		WriteDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	// /api/tasks/{id}/
	if taskID := path; taskID != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, taskID)
		case http.MethodPut:
			h.handleUpdate(w, r, taskID, false)
		case http.MethodPatch:
			h.handleUpdate(w, r, taskID, true)
		case http.MethodDelete:
			h.handleDelete(w, r, taskID)
		default:
			WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
		}
		return
	}

	// /api/tasks/
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// taskRequest mirrors the writable task fields. A "user" field in the body
// is ignored; the owner always comes from the request identity.
type taskRequest struct {
	Title       model.Nullable[string] `json:"title"`
	Description model.Nullable[string] `json:"description"`
	DueDate     model.Nullable[string] `json:"due_date"`
	Completed   model.Nullable[bool]   `json:"completed"`
	Priority    model.Nullable[string] `json:"priority"`
	Status      model.Nullable[string] `json:"status"`
}

func (req taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		Priority:    req.Priority,
		Status:      req.Status,
	}
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetUser(r)

	tasks, err := h.svc.List(r.Context(), owner)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetUser(r)

	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.svc.Create(r.Context(), owner, req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleGetByID(w http.ResponseWriter, r *http.Request, taskID string) {
	owner, _ := middleware.GetUser(r)

	task, err := h.svc.GetByID(r.Context(), owner, taskID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, taskID string, partial bool) {
	owner, _ := middleware.GetUser(r)

	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.svc.Update(r.Context(), owner, taskID, req.input(), partial)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, taskID string) {
	owner, _ := middleware.GetUser(r)

	if err := h.svc.Delete(r.Context(), owner, taskID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
