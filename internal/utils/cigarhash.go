package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// NewCigarHash derives the 64-character hex content hash that identifies
// a stick for its whole life. The digest covers the product and size
// plus a random salt, so two sticks of the same product intaken at the
// same moment still get distinct hashes.
func NewCigarHash(productID, sizeID uint64) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := sha256.Sum256(fmt.Appendf(salt, "%d|%d|%d", productID, sizeID, time.Now().UTC().UnixNano()))
	return hex.EncodeToString(sum[:]), nil
}

// ValidCigarHash reports whether s is a well-formed content hash:
// exactly 64 lower-case hex characters.
func ValidCigarHash(s string) bool {
	if len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
