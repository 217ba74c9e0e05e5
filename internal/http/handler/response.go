package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

const maxBodySize = 1 << 20 // 1 MB

const msgInternal = "Internal server error."

type ErrorResponse struct {
	Error string `json:"error"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

func WriteDetail(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, DetailResponse{Detail: detail})
}

// WriteMethodNotAllowed rejects r and advertises the allowed methods.
func WriteMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	WriteDetail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %q not allowed.", r.Method))
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	WriteError(w, http.StatusInternalServerError, msgInternal)
}

// decodeJSON reads a JSON body into v. It writes a 400 and returns false on
// malformed input. An empty body decodes as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	WriteDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
	return false
}

// handleServiceError maps resource service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		WriteDetail(w, http.StatusNotFound, "Not found.")
	default:
		writeInternalError(w, r, err)
	}
}
