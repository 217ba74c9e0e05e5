package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jaekwang-park/smarttasker-api/internal/auth"
	"github.com/jaekwang-park/smarttasker-api/internal/mail"
	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/repository"
)

const (
	MinPasswordLength = 8

	resetSubject = "SmartTasker Password Reset"
)

type AuthConfig struct {
	FrontendURL string
	MailFrom    string
}

// AuthService handles account registration, login and password recovery.
type AuthService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	resets *auth.ResetTokens
	mailer mail.Sender
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenManager,
	resets *auth.ResetTokens,
	mailer mail.Sender,
	cfg AuthConfig,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		resets: resets,
		mailer: mailer,
		cfg:    cfg,
		now:    now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type ResetPasswordInput struct {
	UIDB64   string
	Token    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (model.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return model.User{}, ErrMissingFields
	}
	if len(input.Password) > auth.MaxPasswordBytes {
		return model.User{}, ErrPasswordTooLong
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return model.User{}, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("failed to look up username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return model.User{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.User{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (auth.TokenPair, error) {
	v := newValidator()
	v.check(input.Username != "", "username", msgRequired)
	v.check(input.Password != "", "password", msgRequired)
	if err := v.err(); err != nil {
		return auth.TokenPair{}, err
	}

	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.hasher.CompareDummy(input.Password)
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, input.Password)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !ok || !user.IsActive {
		return auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return auth.TokenPair{}, err
	}

	if err := s.users.SetLastLogin(ctx, user.ID, s.now()); err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to record last login: %w", err)
	}
	return pair, nil
}

// Refresh returns a new access token. Token failures wrap both
// ErrUnauthorized and the underlying auth error.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", &ValidationError{Fields: map[string]string{"refresh": msgRequired}}
	}

	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		if _, ok := auth.LookupError(err); ok {
			return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return "", err
	}
	return access, nil
}

// Authenticate resolves an access token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (model.User, error) {
	userID, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return model.User{}, fmt.Errorf("%w: user is inactive", ErrUnauthorized)
	}
	return user, nil
}

// FirstUser returns the earliest-created account.
func (s *AuthService) FirstUser(ctx context.Context) (model.User, error) {
	user, err := s.users.First(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("no users exist: %w", ErrNotFound)
		}
		return model.User{}, fmt.Errorf("failed to get first user: %w", err)
	}
	return user, nil
}

// ForgotPassword mails a reset link when email belongs to an account. An
// unknown email is not an error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	token, err := s.resets.Make(user)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s/%s/",
		strings.TrimRight(s.cfg.FrontendURL, "/"), auth.EncodeUID(user.ID), token)

	err = s.mailer.Send(ctx, mail.Message{
		Subject: resetSubject,
		Body:    "Click here to reset your password:\n" + link,
		From:    s.cfg.MailFrom,
		To:      []string{user.Email},
	})
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if input.Password == "" {
		return ErrPasswordRequired
	}
	if len([]rune(input.Password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(input.Password) > auth.MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	userID, err := auth.DecodeUID(input.UIDB64)
	if err != nil {
		return ErrInvalidResetLink
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidResetLink
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.resets.Check(user, input.Token); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResetToken, err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}
