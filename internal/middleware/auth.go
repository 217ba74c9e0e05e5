package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/jaekwang-park/smarttasker-api/internal/auth"
	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

var (
	// ErrNoCredentials is returned when a request carries no bearer token.
	ErrNoCredentials = errors.New("authentication credentials were not provided")
	// ErrUnauthenticated wraps any rejected credential.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// IdentityResolver decides which user a request acts as.
type IdentityResolver interface {
	Resolve(r *http.Request) (model.User, error)
}

// Authenticator resolves an access token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.User, error)
}

// FirstUserFinder returns the earliest-created user.
type FirstUserFinder interface {
	FirstUser(ctx context.Context) (model.User, error)
}

// TokenResolver reads "Authorization: Bearer <access token>".
type TokenResolver struct {
	authenticator Authenticator
}

func NewTokenResolver(a Authenticator) *TokenResolver {
	return &TokenResolver{authenticator: a}
}

func (t *TokenResolver) Resolve(r *http.Request) (model.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return model.User{}, ErrNoCredentials
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return model.User{}, fmt.Errorf("%w: invalid authorization header format", ErrUnauthenticated)
	}

	user, err := t.authenticator.Authenticate(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return model.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return model.User{}, err
	}
	return user, nil
}

// FirstUserResolver acts as the earliest-created user on every request.
// Only for local test environments.
type FirstUserResolver struct {
	finder FirstUserFinder
}

func NewFirstUserResolver(f FirstUserFinder) *FirstUserResolver {
	return &FirstUserResolver{finder: f}
}

func (f *FirstUserResolver) Resolve(r *http.Request) (model.User, error) {
	return f.finder.FirstUser(r.Context())
}

type Auth struct {
	resolver IdentityResolver
}

func NewAuth(resolver IdentityResolver) (*Auth, error) {
	if resolver == nil {
		return nil, fmt.Errorf("middleware: IdentityResolver is required")
	}
	return &Auth{resolver: resolver}, nil
}

// IsPublicPath reports whether p can be served without an identity.
func IsPublicPath(p string) bool {
	cleanPath := path.Clean(p)
	switch cleanPath {
	case "/health",
		"/auth/login",
		"/api/token/refresh",
		"/api/auth/register",
		"/api/auth/forgot-password":
		return true
	}
	return strings.HasPrefix(cleanPath, "/api/auth/reset-password/")
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.resolver.Resolve(r)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoCredentials):
				writeAuthError(w, http.StatusUnauthorized, map[string]string{
					"detail": "Authentication credentials were not provided.",
				})
			case errors.Is(err, ErrUnauthenticated):
				body := map[string]string{"detail": "Given token not valid for any token type"}
				if info, ok := auth.LookupError(err); ok {
					body["code"] = info.Code
				}
				writeAuthError(w, http.StatusUnauthorized, body)
			default:
				slog.ErrorContext(r.Context(), "identity resolution failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError, map[string]string{
					"error": "Internal server error.",
				})
			}
			return
		}

		ctx := SetUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthError(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
