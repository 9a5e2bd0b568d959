package crypto

import (
	"crypto/subtle"
	"hash"

	"github.com/aead/cmac"
	"github.com/pkg/errors"
)

// MACSize is the size of authentication tags in octets.
const MACSize = 8

// NewMAC returns a streaming CMAC keyed with a 32-octet key. Its Sum does not
// reset the state, so tags can be taken at intermediate points.
func NewMAC(key []byte) (hash.Hash, error) {
	b, err := NewBlock(key)
	if err != nil {
		return nil, err
	}
	h, err := cmac.New(b)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mac")
	}
	return h, nil
}

// MAC returns the MACSize-octet tag of the concatenation of parts.
func MAC(key []byte, parts ...[]byte) ([]byte, error) {
	h, err := NewMAC(key)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)[:MACSize], nil
}

// VerifyMAC compares tag with the tag of parts in constant time.
func VerifyMAC(key, tag []byte, parts ...[]byte) (bool, error) {
	want, err := MAC(key, parts...)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(want, tag) == 1, nil
}
