package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

var hashSalt string

// InitHashSalt loads the hashing salt from LOG_HASH_SALT. Call once at
// startup, before anything logs a hashed ID.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// HashUserID creates a privacy-preserving hash of a Telegram user ID so user
// activity can be correlated in logs without exposing the real ID.
func HashUserID(userID int64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d:%s", userID, hashSalt))
	return hex.EncodeToString(sum[:])[:8]
}

// SanitizeText redacts user-provided text while preserving its length for
// debugging.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}
	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}
	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
