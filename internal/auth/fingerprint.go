package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

// ComputeFingerprint binds a token to the parts of a user's state that must
// invalidate it when they change.
// Formula: Base64URL(HMAC_SHA256(secret, id + ":" + passwordHash + ":" + lastLoginUnix))
func ComputeFingerprint(secret []byte, u model.User) string {
	lastLogin := ""
	if u.LastLogin != nil {
		lastLogin = strconv.FormatInt(u.LastLogin.UTC().UnixNano(), 10)
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(u.ID + ":" + u.PasswordHash + ":" + lastLogin))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
