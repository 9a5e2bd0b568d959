package crypto

import (
	"github.com/pkg/errors"

	"bee/internal/domain"
)

const (
	// KRPLevelSize is the size of the key-replacement level in octets.
	KRPLevelSize = 12
	// KRPHeaderSize is the size of the key-replacement header in octets.
	KRPHeaderSize = 16
)

// KRP replaces key with a new 32-octet key bound to level and header. The
// output is CMAC_key(0x01 || level || header) || CMAC_key(0x02 || level || header).
func KRP(key, level, header []byte) ([]byte, error) {
	if len(level) != KRPLevelSize || len(header) != KRPHeaderSize {
		return nil, errors.Wrapf(domain.ErrBadInput,
			"krp level/header of %d/%d octets", len(level), len(header))
	}
	out := make([]byte, 0, KeySize)
	for ctr := byte(1); len(out) < KeySize; ctr++ {
		h, err := NewMAC(key)
		if err != nil {
			return nil, err
		}
		h.Write([]byte{ctr})
		h.Write(level)
		h.Write(header)
		out = h.Sum(out)
	}
	return out[:KeySize], nil
}
