package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CheckPassword compares a candidate password against the stored admin
// hash. Bcrypt hashes (the "$2" prefix) are verified with bcrypt; anything
// else is treated as the legacy hex-encoded SHA-256 digest. Both paths
// compare in constant time.
func CheckPassword(candidate, storedHash string) bool {
	if strings.HasPrefix(storedHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
	}
	digest := HashPasswordSHA256(candidate)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedHash)) == 1
}

// HashPassword returns a bcrypt hash suitable for storing as
// admin_password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// HashPasswordSHA256 returns the legacy hex-encoded SHA-256 digest.
func HashPasswordSHA256(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
