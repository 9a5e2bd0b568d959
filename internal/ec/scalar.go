package ec

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/util/memzero"
)

// maxDraws bounds rejection sampling so a broken source cannot spin forever.
const maxDraws = 64

// RandScalar draws k uniformly from [1, q-1].
func (c *Curve) RandScalar(rng io.Reader) (*big.Int, error) {
	if rng == nil {
		return nil, errors.Wrap(domain.ErrBadRng, "no random source")
	}
	buf := make([]byte, c.No)
	defer memzero.Zero(buf)
	for i := 0; i < maxDraws; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, errors.Wrap(domain.ErrBadRng, err.Error())
		}
		k := leToInt(buf)
		if k.Sign() > 0 && k.Cmp(c.Q) < 0 {
			return k, nil
		}
		memzero.ZeroInt(k)
	}
	return nil, errors.Wrap(domain.ErrBadRng, "rejection sampling exhausted")
}

// DecodeScalar parses a private scalar and checks 0 < d < q.
func (c *Curve) DecodeScalar(b []byte) (*big.Int, error) {
	if len(b) != c.No {
		return nil, errors.Wrapf(domain.ErrBadPrivkey, "scalar of %d octets", len(b))
	}
	d := leToInt(b)
	if d.Sign() == 0 || d.Cmp(c.Q) >= 0 {
		memzero.ZeroInt(d)
		return nil, errors.Wrap(domain.ErrBadPrivkey, "scalar out of range")
	}
	return d, nil
}

// DecodeResidue parses a scalar that may be zero, checking only d < q.
func (c *Curve) DecodeResidue(b []byte) (*big.Int, error) {
	if len(b) != c.No {
		return nil, errors.Wrapf(domain.ErrBadInput, "scalar of %d octets", len(b))
	}
	d := leToInt(b)
	if d.Cmp(c.Q) >= 0 {
		return nil, errors.Wrap(domain.ErrBadInput, "scalar out of range")
	}
	return d, nil
}

// EncodeScalar returns k mod q as no octets, little-endian.
func (c *Curve) EncodeScalar(k *big.Int) []byte {
	out := make([]byte, c.No)
	kk := new(big.Int).Mod(k, c.Q)
	intToLE(out, kk)
	memzero.ZeroInt(kk)
	return out
}

// ReduceHash interprets h as a little-endian integer modulo q.
func (c *Curve) ReduceHash(h []byte) *big.Int {
	return new(big.Int).Mod(leToInt(h), c.Q)
}

// LowBits returns the integer of the first l/8 octets of h, little-endian.
func (c *Curve) LowBits(h []byte) *big.Int {
	return leToInt(h[:int(c.Level)/8])
}

// Implicit returns (u - (2^l + t)·d) mod q.
func (c *Curve) Implicit(u, t, d *big.Int) *big.Int {
	e := new(big.Int).Add(c.twoL, t)
	e.Mul(e, d)
	s := new(big.Int).Sub(u, e)
	memzero.ZeroInt(e)
	return s.Mod(s, c.Q)
}

func leToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	x := new(big.Int).SetBytes(be)
	memzero.Zero(be)
	return x
}

// intToLE writes x into out, little-endian; x must fit.
func intToLE(out []byte, x *big.Int) {
	x.FillBytes(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
}
