package ec

import (
	"crypto/subtle"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/util/memzero"
)

// SigSize returns the signature size, 3l/8 octets.
func (c *Curve) SigSize() int { return int(c.Level)/8 + c.No }

// Sign signs msg with priv.
//
//	H  = LevelHash(msg) mod q
//	R  = k·G
//	s0 = first l/8 octets of Hash(<R>x || H)
//	s1 = (k - H - (s0 + 2^l)·d) mod q
//
// The signature is s0 || s1.
func (c *Curve) Sign(priv, msg []byte, rng io.Reader) ([]byte, error) {
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(d)
	hb, err := crypto.LevelHash(c.Level, msg)
	if err != nil {
		return nil, err
	}
	h := c.ReduceHash(hb)

	k, err := c.RandScalar(rng)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(k)
	r := c.BaseMul(k)
	s0 := crypto.Hash(c.EncodeX(r), hb)[:int(c.Level)/8]

	s1 := new(big.Int).Sub(k, h)
	s1 = c.Implicit(s1, c.LowBits(s0), d)
	sig := append(append([]byte(nil), s0...), c.EncodeScalar(s1)...)
	memzero.ZeroInt(s1)
	return sig, nil
}

// Verify checks sig over msg under pub. A bad signature yields domain.ErrAuth.
func (c *Curve) Verify(pub, msg, sig []byte) error {
	q, err := c.DecodePubkey(pub)
	if err != nil {
		return err
	}
	if len(sig) != c.SigSize() {
		return errors.Wrapf(domain.ErrAuth, "signature of %d octets", len(sig))
	}
	n := int(c.Level) / 8
	s0, s1b := sig[:n], sig[n:]
	s1 := leToInt(s1b)
	if s1.Cmp(c.Q) >= 0 {
		return errors.Wrap(domain.ErrAuth, "signature out of range")
	}
	hb, err := crypto.LevelHash(c.Level, msg)
	if err != nil {
		return err
	}
	h := c.ReduceHash(hb)

	e := new(big.Int).Add(c.twoL, c.LowBits(s0))
	r := c.MulAdd(s1.Add(s1, h), c.G, e, q)
	if r.IsInfinity() {
		return errors.Wrap(domain.ErrAuth, "signature verification")
	}
	t := crypto.Hash(c.EncodeX(r), hb)[:n]
	if subtle.ConstantTimeCompare(t, s0) != 1 {
		return errors.Wrap(domain.ErrAuth, "signature verification")
	}
	return nil
}
