package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

const resetPurpose = "password_reset"

type resetClaims struct {
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// ResetTokens issues password-reset tokens. A token stays valid until it
// expires or the user's password or last login changes, whichever is first.
type ResetTokens struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

func NewResetTokens(secret string, timeout time.Duration) *ResetTokens {
	return &ResetTokens{secret: []byte(secret), timeout: timeout, now: time.Now}
}

// WithClock returns a copy of r that reads time from now.
func (r *ResetTokens) WithClock(now func() time.Time) *ResetTokens {
	c := *r
	c.now = now
	return &c
}

func (r *ResetTokens) Make(u model.User) (string, error) {
	now := r.now()
	claims := resetClaims{
		Purpose:     resetPurpose,
		Fingerprint: ComputeFingerprint(r.secret, u),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.timeout)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// Check validates token against the user's current state.
func (r *ResetTokens) Check(u model.User, token string) error {
	var claims resetClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.now),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(u.ID),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Purpose != resetPurpose {
		return ErrWrongToken
	}
	if !hmac.Equal([]byte(claims.Fingerprint), []byte(ComputeFingerprint(r.secret, u))) {
		return ErrInvalidToken
	}
	return nil
}
