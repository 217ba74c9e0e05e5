package middleware

import (
	"context"
	"net/http"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

type contextKey string

const userKey contextKey = "user"

func SetUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the user resolved for r, if any.
func GetUser(r *http.Request) (model.User, bool) {
	u, ok := r.Context().Value(userKey).(model.User)
	return u, ok
}

func GetUserID(r *http.Request) string {
	u, _ := GetUser(r)
	return u.ID
}
