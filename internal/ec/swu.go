package ec

import (
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/util/memzero"
)

var zeroKey [crypto.KeySize]byte

// SWU maps a no-octet message to a curve point.
//
// The message, extended with a zero block, is passed through the wide-block
// transform under the zero key and read as a little-endian element u of
// GF(p). The point is then the simplified Shallue-van de Woestijne-Ulas map
// of u with Z = -1 (t = -u²), which is valid because p ≡ 3 (mod 4) makes -1 a
// non-residue.
func (c *Curve) SWU(msg []byte) (Point, error) {
	if len(msg) != c.No {
		return Point{}, errors.Wrapf(domain.ErrBadInput, "swu message of %d octets", len(msg))
	}
	buf := make([]byte, c.No+crypto.BlockSize)
	copy(buf, msg)
	h, err := crypto.WBLEncrypt(zeroKey[:], buf)
	if err != nil {
		return Point{}, err
	}
	u := new(big.Int).Mod(leToInt(h), c.P)
	memzero.ZeroAll(buf, h)
	return c.mapSWU(u)
}

func (c *Curve) mapSWU(u *big.Int) (Point, error) {
	p := c.P
	mod := func(x *big.Int) *big.Int { return x.Mod(x, p) }

	u2 := mod(new(big.Int).Mul(u, u))
	den := mod(new(big.Int).Sub(new(big.Int).Mul(u2, u2), u2))

	// x1 = (-b/a)(1 + 1/(u^4 - u^2)), or -b/a when the denominator vanishes.
	aInv := new(big.Int).ModInverse(c.A, p)
	if aInv == nil {
		return Point{}, errors.Wrap(domain.ErrBadParams, "a is not invertible")
	}
	x1 := mod(new(big.Int).Mul(new(big.Int).Neg(c.B), aInv))
	if den.Sign() != 0 {
		inv := new(big.Int).ModInverse(den, p)
		inv.Add(inv, big.NewInt(1))
		x1 = mod(x1.Mul(x1, inv))
	}

	x, y := x1, c.sqrtRHS(x1)
	if y == nil {
		x = mod(new(big.Int).Mul(new(big.Int).Neg(u2), x1))
		y = c.sqrtRHS(x)
		if y == nil {
			return Point{}, errors.Wrap(domain.ErrBadParams, "swu produced no point")
		}
	}
	if y.Bit(0) != u.Bit(0) {
		y.Sub(p, y)
		mod(y)
	}
	pt := Point{X: x, Y: y}
	if !c.IsOnCurve(pt) {
		return Point{}, errors.Wrap(domain.ErrBadParams, "swu point not on curve")
	}
	return pt, nil
}

// sqrtRHS returns a square root of x³ + ax + b, or nil.
func (c *Curve) sqrtRHS(x *big.Int) *big.Int {
	rhs := new(big.Int).Mul(x, x)
	rhs.Add(rhs, c.A)
	rhs.Mul(rhs, x)
	rhs.Add(rhs, c.B)
	rhs.Mod(rhs, c.P)
	return new(big.Int).ModSqrt(rhs, c.P)
}
