package sunat

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash huella SHA-256 en hexadecimal (64 caracteres) del XML serializado.
func ContentHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
