package crypto

import (
	"crypto/cipher"

	"github.com/pkg/errors"

	"bee/internal/domain"
)

// CFBEncrypt encrypts src under key with the 16-octet iv.
func CFBEncrypt(key, iv, src []byte) ([]byte, error) {
	b, err := newIVBlock(key, iv)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(src))
	cipher.NewCFBEncrypter(b, iv).XORKeyStream(dst, src)
	return dst, nil
}

// CFBDecrypt inverts CFBEncrypt.
func CFBDecrypt(key, iv, src []byte) ([]byte, error) {
	b, err := newIVBlock(key, iv)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(src))
	cipher.NewCFBDecrypter(b, iv).XORKeyStream(dst, src)
	return dst, nil
}

// NewCTR returns a counter-mode keystream for streaming encryption.
func NewCTR(key, iv []byte) (cipher.Stream, error) {
	b, err := newIVBlock(key, iv)
	if err != nil {
		return nil, err
	}
	return cipher.NewCTR(b, iv), nil
}

func newIVBlock(key, iv []byte) (cipher.Block, error) {
	if len(iv) != BlockSize {
		return nil, errors.Wrapf(domain.ErrBadInput, "iv of %d octets", len(iv))
	}
	return NewBlock(key)
}
