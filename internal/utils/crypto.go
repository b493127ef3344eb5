// internal/utils/crypto.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashFields hashes the fields joined by a unit separator so that adjacent
// values cannot run into each other.
func HashFields(fields ...string) string {
	return HashString(strings.Join(fields, "\x1f"))
}
