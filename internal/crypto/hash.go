package crypto

import (
	"crypto/sha256"
	"hash"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"bee/internal/domain"
)

// HashSize is the output size of Hash.
const HashSize = sha256.Size

// Hash returns the 256-bit hash of the concatenation of parts.
func Hash(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// NewLevelHash returns the hash whose output is no = l/4 octets: the 256-bit
// hash for level 128, the sponge hash otherwise.
func NewLevelHash(l domain.Level) (hash.Hash, error) {
	switch l {
	case domain.Level128:
		return sha256.New(), nil
	case domain.Level192:
		return sha3.New384(), nil
	case domain.Level256:
		return sha3.New512(), nil
	}
	return nil, errors.Wrapf(domain.ErrBadParams, "no hash for level %d", int(l))
}

// LevelHash hashes the concatenation of parts with NewLevelHash(l).
func LevelHash(l domain.Level, parts ...[]byte) ([]byte, error) {
	h, err := NewLevelHash(l)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil), nil
}
