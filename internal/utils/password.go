package utils

import (
	"strings"

	"github.com/weqtian/user_center/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt. Every call uses a fresh salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plaintext password with a stored bcrypt hash.
// A mismatch or a garbled bcrypt-shaped hash yields false. A hash that is not
// a bcrypt encoding at all yields apperrors.ErrInvalidHashFormat.
func VerifyPassword(password, hash string) (bool, error) {
	if !looksLikeBcrypt(hash) {
		return false, apperrors.ErrInvalidHashFormat
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// mismatch, truncated hash or bad cost all fail verification
		return false, nil
	}
	return true, nil
}

func looksLikeBcrypt(hash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$", "$2$"} {
		if strings.HasPrefix(hash, prefix) {
			return true
		}
	}
	return false
}
