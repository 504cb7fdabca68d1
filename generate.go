package linkgate

import (
	"crypto/rand"
	"fmt"
	"io"
)

// idAlphabet is the 62-symbol alphabet token ids are drawn from.
const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// IDLength is the length of every generated token id.
const IDLength = 8

// idByteCeiling is the largest multiple of len(idAlphabet) that fits in a
// byte. Bytes at or above it are rejected so every alphabet symbol is
// equally likely.
const idByteCeiling = byte(len(idAlphabet) * (256 / len(idAlphabet)))

// TokenGenerator produces opaque token ids from a cryptographically
// secure random source. No uniqueness check is performed against
// storage; at 62^8 the collision probability is negligible for the
// expected volume, and issuance retries on the rare conflict.
type TokenGenerator struct {
	rand io.Reader
}

// NewTokenGenerator returns a generator backed by crypto/rand.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{rand: rand.Reader}
}

// NewTokenGeneratorWithSource returns a generator reading random bytes
// from the given source. Tests use this to script outputs.
func NewTokenGeneratorWithSource(source io.Reader) *TokenGenerator {
	return &TokenGenerator{rand: source}
}

// Generate returns a new token id. Each character is selected uniformly
// via rejection sampling rather than a plain modulo reduction, which
// would skew toward the start of the alphabet.
func (g *TokenGenerator) Generate() (string, error) {
	id := make([]byte, 0, IDLength)
	buf := make([]byte, 2*IDLength)
	for len(id) < IDLength {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= idByteCeiling {
				continue
			}
			id = append(id, idAlphabet[int(b)%len(idAlphabet)])
			if len(id) == IDLength {
				break
			}
		}
	}
	return string(id), nil
}
