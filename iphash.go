package linkgate

import (
	"crypto/sha256"
	"encoding/hex"
)

// Unknown is the placeholder stored when a client address (or other
// request attribute) could not be determined.
const Unknown = "unknown"

// ipHashLen is the number of hex characters kept from the digest.
const ipHashLen = 16

// HashIP derives a non-reversible identifier from a raw client address.
// The salt is process-wide configuration; without it the output cannot
// be mapped back to an address. Unknown or empty addresses pass through
// as Unknown so they remain recognizable in event listings.
func HashIP(rawAddr, salt string) string {
	if rawAddr == "" || rawAddr == Unknown {
		return Unknown
	}
	sum := sha256.Sum256([]byte(rawAddr + salt))
	return hex.EncodeToString(sum[:])[:ipHashLen]
}
