// Package digest implements the 32-bit mixing function used for every
// content address and proof of work in the ledger. It is not a
// cryptographic hash and collisions are expected.
package digest

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	// Seed is both the initial accumulator and the per-character multiplier.
	Seed uint32 = 828930167

	// Sentinel is the fixed digest of a genesis header and the prev hash of
	// the first block in a chain.
	Sentinel = "00000000"

	// Size is the length of every digest in hex characters.
	Size = 8

	rotate = 13
)

// Sum returns the lowercase, zero padded 8 hex character digest of text.
// Characters are consumed as unicode code points.
func Sum(text string) string {
	return fmt.Sprintf("%08x", Sum32(text))
}

// Sum32 is Sum before hex formatting.
func Sum32(text string) uint32 {
	acc := Seed
	for _, c := range text {
		acc ^= uint32(c) * Seed
		acc *= Seed
	}

	return bits.RotateLeft32(acc, rotate)
}

// HasLeadingZeros reports whether h starts with at least n '0' characters.
func HasLeadingZeros(h string, n int) bool {
	if n <= 0 {
		return true
	}
	if len(h) < n {
		return false
	}

	return strings.Count(h[:n], "0") == n
}

// IsValid reports whether h looks like a digest produced by Sum.
func IsValid(h string) bool {
	if len(h) != Size {
		return false
	}
	for _, c := range h {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}

	return true
}
