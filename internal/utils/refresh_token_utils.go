package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintToken returns the SHA256 hex digest that is persisted in place of a raw token.
func FingerprintToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// MatchesFingerprint reports whether token hashes to the stored fingerprint.
// A nil fingerprint means the session was cleared and never matches.
func MatchesFingerprint(token string, stored *string) bool {
	if stored == nil || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(FingerprintToken(token)), []byte(*stored)) == 1
}
