package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// DeriveSeed folds a base seed and a list of names into a new seed.
// Empty names are skipped, so DeriveSeed(s) == DeriveSeed(s, "").
// The result is always non-negative.
func DeriveSeed(base int32, names ...string) int32 {
	var data strings.Builder
	data.WriteString(strconv.FormatInt(int64(base), 10))
	for _, name := range names {
		if name == "" {
			continue
		}
		data.WriteByte(0)
		data.WriteString(name)
	}

	sum := sha256.Sum256([]byte(data.String()))
	folded := binary.BigEndian.Uint32(sum[:4])
	return int32(folded & math.MaxInt32)
}
