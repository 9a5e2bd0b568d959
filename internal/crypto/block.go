package crypto

import (
	"crypto/cipher"

	"github.com/pkg/errors"
	bsaes "gitlab.com/yawning/bsaes.git"

	"bee/internal/domain"
)

const (
	// BlockSize is the block size of the cipher in octets.
	BlockSize = 16
	// KeySize is the key size of the cipher in octets.
	KeySize = 32
)

// NewBlock returns the block cipher keyed with a 32-octet key.
func NewBlock(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, errors.Wrapf(domain.ErrBadInput, "cipher key of %d octets", len(key))
	}
	b, err := bsaes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to key block cipher")
	}
	return b, nil
}

func xorBlock(dst, a, b []byte) {
	for i := 0; i < BlockSize; i++ {
		dst[i] = a[i] ^ b[i]
	}
}
