package accounts

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken derives the storage key from a bearer token. Plaintext tokens
// are never persisted; they are shown once at creation time.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
