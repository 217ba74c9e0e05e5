package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

// AuthHandler handles account and token requests.
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register() http.Handler { return requirePost(h.handleRegister) }

func (h *AuthHandler) Login() http.Handler { return requirePost(h.handleLogin) }

func (h *AuthHandler) Refresh() http.Handler { return requirePost(h.handleRefresh) }

func (h *AuthHandler) Logout() http.Handler { return requirePost(h.handleLogout) }

func (h *AuthHandler) ForgotPassword() http.Handler { return requirePost(h.handleForgotPassword) }

// ResetPassword serves /api/auth/reset-password/{uidb64}/{token}/
func (h *AuthHandler) ResetPassword() http.Handler { return requirePost(h.handleResetPassword) }

func requirePost(handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteMethodNotAllowed(w, r, http.MethodPost)
			return
		}
		handler(w, r)
	})
}

// --- DTOs ---

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

// --- Handlers ---

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, registerResponse{
		Message:  "Signup successful.",
		Username: user.Username,
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := h.svc.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	access, err := h.svc.Refresh(r.Context(), req.Refresh)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, refreshResponse{Access: access})
}

// handleLogout does not revoke anything; tokens stay valid until expiry.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful."})
}

func (h *AuthHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: "If this email exists, a reset link was sent."})
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/auth/reset-password/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		WriteDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	password := req.Password
	if password == "" {
		password = req.NewPassword
	}

	err := h.svc.ResetPassword(r.Context(), service.ResetPasswordInput{
		UIDB64:   parts[0],
		Token:    parts[1],
		Password: password,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password reset successful."})
}

type authErrorInfo struct {
	err    error
	status int
	// detail selects {"detail": msg} instead of {"error": msg}.
	detail  bool
	message string
}

// authErrors is checked in order; the first match wins.
var authErrors = []authErrorInfo{
	{service.ErrMissingFields, http.StatusBadRequest, false, "All fields are required."},
	{service.ErrUsernameTaken, http.StatusBadRequest, false, "Username already taken."},
	{service.ErrEmailTaken, http.StatusBadRequest, false, "Email already registered."},
	{service.ErrEmailRequired, http.StatusBadRequest, false, "Email is required."},
	{service.ErrPasswordRequired, http.StatusBadRequest, false, "Password is required."},
	{service.ErrPasswordTooShort, http.StatusBadRequest, false, "Password must be at least 8 characters long."},
	{service.ErrPasswordTooLong, http.StatusBadRequest, false, "Password must be at most 72 bytes long."},
	{service.ErrInvalidResetLink, http.StatusBadRequest, false, "Invalid reset link."},
	{service.ErrInvalidResetToken, http.StatusBadRequest, false, "Invalid or expired reset link."},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, true, "No active account found with the given credentials"},
	{service.ErrUnauthorized, http.StatusUnauthorized, true, "Token is invalid or expired"},
}

// handleAuthError maps service errors to fixed client messages. Unknown
// errors are logged and returned as a generic 500.
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		WriteJSON(w, http.StatusBadRequest, verr.Fields)
		return
	}

	for _, info := range authErrors {
		if !errors.Is(err, info.err) {
			continue
		}
		if info.status == http.StatusUnauthorized {
			slog.InfoContext(r.Context(), "auth rejected", "path", r.URL.Path, "reason", err.Error())
		}
		if info.detail {
			WriteDetail(w, info.status, info.message)
		} else {
			WriteError(w, info.status, info.message)
		}
		return
	}

	writeInternalError(w, r, err)
}
