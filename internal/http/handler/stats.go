package handler

import (
	"context"
	"net/http"

	"github.com/jaekwang-park/smarttasker-api/internal/middleware"
	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

// StatsHandler serves the read-only aggregate endpoints.
type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Dashboard() http.Handler {
	return aggregate(h.svc.Dashboard)
}

func (h *StatsHandler) Calendar() http.Handler {
	return aggregate(h.svc.Calendar)
}

func (h *StatsHandler) Insights() http.Handler {
	return aggregate(h.svc.Insights)
}

func (h *StatsHandler) TaskStats() http.Handler {
	return aggregate(h.svc.TaskStats)
}

func aggregate[T any](fn func(ctx context.Context, owner model.User) (T, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteMethodNotAllowed(w, r, http.MethodGet)
			return
		}

		owner, _ := middleware.GetUser(r)
		result, err := fn(r.Context(), owner)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, result)
	})
}
