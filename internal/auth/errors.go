package auth

import "errors"

// Sentinel errors for token operations.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongToken   = errors.New("wrong token type")
)

// ErrorInfo maps a sentinel error to its HTTP status and error code.
type ErrorInfo struct {
	Status int
	Code   string
}

// errorMap maps sentinel errors to their HTTP status codes and error codes.
var errorMap = map[error]ErrorInfo{
	ErrInvalidToken: {Status: 401, Code: "token_not_valid"},
	ErrExpiredToken: {Status: 401, Code: "token_not_valid"},
	ErrWrongToken:   {Status: 401, Code: "token_not_valid"},
}

// LookupError checks if the given error matches any known token sentinel error
// and returns the corresponding ErrorInfo. Returns false if no match.
func LookupError(err error) (ErrorInfo, bool) {
	for sentinel, info := range errorMap {
		if errors.Is(err, sentinel) {
			return info, true
		}
	}
	return ErrorInfo{}, false
}
