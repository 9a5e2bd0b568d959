package crypto

import (
	"crypto/sha256"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"bee/internal/domain"
)

// MinIter is the smallest PBKDF2 iteration count accepted.
const MinIter = 10000

// PBKDF2 derives a 32-octet key from pwd and salt.
func PBKDF2(pwd, salt []byte, iter int) ([]byte, error) {
	if iter < MinIter {
		return nil, errors.Wrapf(domain.ErrBadParams, "pbkdf2 with %d iterations", iter)
	}
	if len(salt) == 0 {
		return nil, errors.Wrap(domain.ErrBadInput, "empty salt")
	}
	return pbkdf2.Key(pwd, salt, iter, KeySize, sha256.New), nil
}
