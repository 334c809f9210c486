package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// GetHostname returns the machine hostname, or "unknown" if it cannot be
// determined.
func GetHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}

// HashContent returns the SHA-256 hex digest of data.
func HashContent(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// QuickHash is a cheap checksum over at most the first 4KB of data, used
// for change detection where a cryptographic hash is overkill.
func QuickHash(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var hash uint32
	for i, b := range data {
		hash = (hash << 5) + hash + uint32(b)
		if i > 4096 {
			break
		}
	}
	return fmt.Sprintf("%x", hash)
}
