package http

import (
	"net/http"

	"github.com/jaekwang-park/smarttasker-api/internal/http/handler"
	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

type Services struct {
	Tasks  *service.TaskService
	Events *service.EventService
	Stats  *service.StatsService
	Auth   *service.AuthService
}

func NewRouter(svcs Services) http.Handler {
	mux := http.NewServeMux()

	// Health check - outside /api for load balancer compatibility
	mux.Handle("/health", handler.NewHealthHandler())

	auth := handler.NewAuthHandler(svcs.Auth)
	handleExact(mux, "/auth/login", auth.Login())
	handleExact(mux, "/api/token/refresh", auth.Refresh())
	handleExact(mux, "/api/auth/register", auth.Register())
	handleExact(mux, "/api/auth/logout", auth.Logout())
	handleExact(mux, "/api/auth/forgot-password", auth.ForgotPassword())
	mux.Handle("/api/auth/reset-password/", auth.ResetPassword())

	tasks := handler.NewTaskHandler(svcs.Tasks)
	mux.Handle("/api/tasks", tasks)
	mux.Handle("/api/tasks/", tasks)

	handleExact(mux, "/api/events", handler.NewEventHandler(svcs.Events))

	stats := handler.NewStatsHandler(svcs.Stats)
	handleExact(mux, "/api/dashboard", stats.Dashboard())
	handleExact(mux, "/api/calendar", stats.Calendar())
	handleExact(mux, "/api/insights", stats.Insights())
	handleExact(mux, "/api/task-stats", stats.TaskStats())

	return mux
}

// handleExact registers h for p with and without a trailing slash.
func handleExact(mux *http.ServeMux, p string, h http.Handler) {
	mux.Handle(p, h)
	mux.Handle(p+"/{$}", h)
}
