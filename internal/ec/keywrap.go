package ec

import (
	"io"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/util/memzero"
)

var wrapHeader [crypto.KWPHeaderSize]byte

// WrapSize returns the size of a wrapped key of keyLen octets.
func (c *Curve) WrapSize(keyLen int) int {
	return c.PointSize() + keyLen + crypto.KWPOverhead
}

// KeyWrap wraps key for the holder of pub:
//
//	θ ← [1, q-1], R = θ·G, kek = Hash(<θ·Q>x)
//	ekey = <R> || KWP_kek(key, 0^128)
func (c *Curve) KeyWrap(key, pub []byte, rng io.Reader) ([]byte, error) {
	if len(key) < 16 {
		return nil, errors.Wrapf(domain.ErrBadInput, "key of %d octets", len(key))
	}
	q, err := c.DecodePubkey(pub)
	if err != nil {
		return nil, err
	}
	theta, err := c.RandScalar(rng)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(theta)

	r := c.BaseMul(theta)
	s := c.Mul(theta, q)
	defer s.Wipe()
	sx := c.EncodeX(s)
	defer memzero.Zero(sx)
	kek := crypto.Hash(sx)
	defer memzero.Zero(kek)

	blob, err := crypto.KWPWrap(kek, key, wrapHeader[:])
	if err != nil {
		return nil, err
	}
	return append(c.Encode(r), blob...), nil
}

// KeyUnwrap inverts KeyWrap with the private key priv.
func (c *Curve) KeyUnwrap(ekey, priv []byte, rng io.Reader) ([]byte, error) {
	if len(ekey) < c.WrapSize(16) {
		return nil, errors.Wrapf(domain.ErrBadInput, "wrapped key of %d octets", len(ekey))
	}
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(d)
	r, err := c.Decode(ekey[:c.PointSize()])
	if err != nil {
		return nil, err
	}
	s, err := c.MulBlind(d, r, rng)
	if err != nil {
		return nil, err
	}
	defer s.Wipe()
	sx := c.EncodeX(s)
	defer memzero.Zero(sx)
	kek := crypto.Hash(sx)
	defer memzero.Zero(kek)

	return crypto.KWPUnwrap(kek, ekey[c.PointSize():], wrapHeader[:])
}
