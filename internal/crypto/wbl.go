package crypto

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/util/memzero"
)

// WBLEncrypt applies the wide-block transform to src, which must consist of at
// least two whole blocks. With n blocks it runs 2n rounds of
//
//	s = r1 ^ ... ^ r(n-1);  rn ^= E(s) ^ <i>;  (r1..rn) = (r2..rn, s)
func WBLEncrypt(key, src []byte) ([]byte, error) {
	n, err := wblBlocks(src)
	if err != nil {
		return nil, err
	}
	b, err := NewBlock(key)
	if err != nil {
		return nil, err
	}
	r := append([]byte(nil), src...)
	var s, e, ctr [BlockSize]byte
	for i := 1; i <= 2*n; i++ {
		copy(s[:], r[:BlockSize])
		for j := 1; j < n-1; j++ {
			xorBlock(s[:], s[:], r[j*BlockSize:])
		}
		b.Encrypt(e[:], s[:])
		binary.LittleEndian.PutUint64(ctr[:], uint64(i))
		last := r[(n-1)*BlockSize:]
		xorBlock(last, last, e[:])
		xorBlock(last, last, ctr[:])
		copy(r, r[BlockSize:])
		copy(r[(n-1)*BlockSize:], s[:])
	}
	memzero.ZeroAll(s[:], e[:])
	return r, nil
}

// WBLDecrypt inverts WBLEncrypt.
func WBLDecrypt(key, src []byte) ([]byte, error) {
	n, err := wblBlocks(src)
	if err != nil {
		return nil, err
	}
	b, err := NewBlock(key)
	if err != nil {
		return nil, err
	}
	r := append([]byte(nil), src...)
	var s, e, ctr [BlockSize]byte
	for i := 2 * n; i >= 1; i-- {
		copy(s[:], r[(n-1)*BlockSize:])
		copy(r[BlockSize:], r[:(n-1)*BlockSize])
		// r[1..n-2] now hold r2..r(n-1); recover r1 from s.
		copy(r[:BlockSize], s[:])
		for j := 1; j < n-1; j++ {
			xorBlock(r[:BlockSize], r[:BlockSize], r[j*BlockSize:])
		}
		b.Encrypt(e[:], s[:])
		binary.LittleEndian.PutUint64(ctr[:], uint64(i))
		last := r[(n-1)*BlockSize:]
		xorBlock(last, last, e[:])
		xorBlock(last, last, ctr[:])
	}
	memzero.ZeroAll(s[:], e[:])
	return r, nil
}

func wblBlocks(src []byte) (int, error) {
	if len(src) < 2*BlockSize || len(src)%BlockSize != 0 {
		return 0, errors.Wrapf(domain.ErrBadInput, "wide-block input of %d octets", len(src))
	}
	return len(src) / BlockSize, nil
}
