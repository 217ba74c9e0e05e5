package handler

import (
	"net/http"

	"github.com/jaekwang-park/smarttasker-api/internal/middleware"
	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

type eventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	AllDay      *bool   `json:"all_day"`
}

func (h *EventHandler) handleList(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetUser(r)

	events, err := h.svc.List(r.Context(), owner)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, events)
}

func (h *EventHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetUser(r)

	var req eventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.svc.Create(r.Context(), owner, service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		AllDay:      req.AllDay,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, event)
}
