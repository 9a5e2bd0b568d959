package ec

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/util/memzero"
)

// GenerateKey returns a fresh private key and its public key.
func (c *Curve) GenerateKey(rng io.Reader) (priv, pub []byte, err error) {
	d, err := c.RandScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	defer memzero.ZeroInt(d)
	return c.EncodeScalar(d), c.Encode(c.BaseMul(d)), nil
}

// PublicKey derives the public key of priv.
func (c *Curve) PublicKey(priv []byte) ([]byte, error) {
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(d)
	return c.Encode(c.BaseMul(d)), nil
}

// DecodePubkey parses a public key. Malformed keys yield domain.ErrBadPubkey.
func (c *Curve) DecodePubkey(pub []byte) (Point, error) {
	if len(pub) != c.PointSize() {
		return Point{}, errors.Wrapf(domain.ErrBadPubkey, "public key of %d octets", len(pub))
	}
	p, err := c.Decode(pub)
	if err != nil {
		return Point{}, errors.Wrap(domain.ErrBadPubkey, err.Error())
	}
	return p, nil
}

// ValidateKeypair checks that pub is the public key of priv.
func (c *Curve) ValidateKeypair(priv, pub []byte) error {
	want, err := c.PublicKey(priv)
	if err != nil {
		return err
	}
	if !EqualEncoded(want, pub) {
		return errors.Wrap(domain.ErrBadPubkey, "public key does not match private key")
	}
	return nil
}

// MulBlind returns d·p computed as (d+r)·p + (-r)·p for a random r, so the
// long-term scalar never enters a scalar multiplication directly.
func (c *Curve) MulBlind(d *big.Int, p Point, rng io.Reader) (Point, error) {
	r, err := c.RandScalar(rng)
	if err != nil {
		return Point{}, err
	}
	defer memzero.ZeroInt(r)

	d1 := new(big.Int).Add(d, r)
	d1.Mod(d1, c.Q)
	defer memzero.ZeroInt(d1)
	d2 := new(big.Int).Sub(c.Q, r)
	defer memzero.ZeroInt(d2)

	a := c.Mul(d1, p)
	b := c.Mul(d2, p)
	defer a.Wipe()
	defer b.Wipe()
	return c.Add(a, b), nil
}
