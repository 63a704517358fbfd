// Package csrf derives the csrf_hmac claim carried by service tokens.
package csrf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

var ErrEmptySecret = errors.New("csrf secret must not be empty")

// NewToken returns a fresh random CSRF token.
func NewToken() string {
	return uuid.NewString()
}

// Sign returns hex(HMAC-SHA256(secret, token)).
func Sign(token, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether sum is the HMAC of token under secret, in constant time.
func Verify(token, sum, secret string) bool {
	expected, err := Sign(token, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(sum))
}
