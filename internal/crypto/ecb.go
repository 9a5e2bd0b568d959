package crypto

import (
	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/util/memzero"
)

// ECBEncrypt encrypts src (at least one block) under key. Lengths that are not
// a multiple of the block size are handled by ciphertext stealing, so the
// output is exactly as long as the input.
func ECBEncrypt(key, src []byte) ([]byte, error) {
	if len(src) < BlockSize {
		return nil, errors.Wrapf(domain.ErrBadInput, "ecb input of %d octets", len(src))
	}
	b, err := NewBlock(key)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(src))
	full := len(src) / BlockSize * BlockSize
	for i := 0; i < full; i += BlockSize {
		b.Encrypt(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	if r := len(src) - full; r > 0 {
		// Steal the tail of the last full ciphertext block.
		last := full - BlockSize
		var buf [BlockSize]byte
		copy(buf[:], src[full:])
		copy(buf[r:], dst[last+r:last+BlockSize])
		copy(dst[full:], dst[last:last+r])
		b.Encrypt(dst[last:last+BlockSize], buf[:])
		memzero.Zero(buf[:])
	}
	return dst, nil
}

// ECBDecrypt inverts ECBEncrypt.
func ECBDecrypt(key, src []byte) ([]byte, error) {
	if len(src) < BlockSize {
		return nil, errors.Wrapf(domain.ErrBadInput, "ecb input of %d octets", len(src))
	}
	b, err := NewBlock(key)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(src))
	full := len(src) / BlockSize * BlockSize
	r := len(src) - full
	end := full
	if r > 0 {
		end = full - BlockSize
	}
	for i := 0; i < end; i += BlockSize {
		b.Decrypt(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	if r > 0 {
		last := full - BlockSize
		var buf [BlockSize]byte
		b.Decrypt(buf[:], src[last:last+BlockSize])
		copy(dst[full:], buf[:r])
		var y [BlockSize]byte
		copy(y[:], src[full:])
		copy(y[r:], buf[r:])
		b.Decrypt(dst[last:last+BlockSize], y[:])
		memzero.ZeroAll(buf[:], y[:])
	}
	return dst, nil
}
