package ec

import (
	"crypto/subtle"
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/util/memzero"
)

// Point is an affine point. The point at infinity is (0, 0) as in
// crypto/elliptic.
type Point struct {
	X, Y *big.Int
}

// Infinity returns the point at infinity.
func Infinity() Point { return Point{X: new(big.Int), Y: new(big.Int)} }

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.X == nil || p.Y == nil || (p.X.Sign() == 0 && p.Y.Sign() == 0)
}

// Equal reports whether p and o are the same point.
func (p Point) Equal(o Point) bool {
	if p.IsInfinity() || o.IsInfinity() {
		return p.IsInfinity() && o.IsInfinity()
	}
	return p.X.Cmp(o.X) == 0 && p.Y.Cmp(o.Y) == 0
}

// Wipe zeroes the coordinates.
func (p Point) Wipe() {
	memzero.ZeroInt(p.X)
	memzero.ZeroInt(p.Y)
}

// IsOnCurve reports whether p is a finite point satisfying the curve equation.
// With cofactor 1 this also places p in the prime-order group.
func (c *Curve) IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return false
	}
	return c.E.IsOnCurve(p.X, p.Y)
}

// Encode returns x || y, little-endian.
func (c *Curve) Encode(p Point) []byte {
	out := make([]byte, 2*c.No)
	intToLE(out[:c.No], p.X)
	intToLE(out[c.No:], p.Y)
	return out
}

// EncodeX returns the x-coordinate, little-endian.
func (c *Curve) EncodeX(p Point) []byte {
	out := make([]byte, c.No)
	intToLE(out, p.X)
	return out
}

// Decode parses an encoded point and checks it lies on the curve.
func (c *Curve) Decode(b []byte) (Point, error) {
	if len(b) != 2*c.No {
		return Point{}, errors.Wrapf(domain.ErrBadPoint, "point of %d octets", len(b))
	}
	p := Point{X: leToInt(b[:c.No]), Y: leToInt(b[c.No:])}
	if p.X.Cmp(c.P) >= 0 || p.Y.Cmp(c.P) >= 0 || !c.IsOnCurve(p) {
		return Point{}, errors.Wrap(domain.ErrBadPoint, "point not on curve")
	}
	return p, nil
}

// DecodeAll splits b into points and decodes each of them.
func (c *Curve) DecodeAll(b []byte) ([]Point, error) {
	size := c.PointSize()
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.Wrapf(domain.ErrBadInput, "point list of %d octets", len(b))
	}
	out := make([]Point, 0, len(b)/size)
	for off := 0; off < len(b); off += size {
		p, err := c.Decode(b[off : off+size])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// EncodeAll concatenates the encodings of ps.
func (c *Curve) EncodeAll(ps []Point) []byte {
	out := make([]byte, 0, len(ps)*c.PointSize())
	for _, p := range ps {
		out = append(out, c.Encode(p)...)
	}
	return out
}

// Add returns p + o.
func (c *Curve) Add(p, o Point) Point {
	x, y := c.E.Add(orZero(p.X), orZero(p.Y), orZero(o.X), orZero(o.Y))
	return Point{X: x, Y: y}
}

// Neg returns -p.
func (c *Curve) Neg(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	return Point{X: new(big.Int).Set(p.X), Y: new(big.Int).Sub(c.P, p.Y)}
}

// Sub returns p - o.
func (c *Curve) Sub(p, o Point) Point { return c.Add(p, c.Neg(o)) }

// Mul returns k·p. k is reduced modulo q.
func (c *Curve) Mul(k *big.Int, p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	kk := new(big.Int).Mod(k, c.Q)
	defer memzero.ZeroInt(kk)
	kb := kk.Bytes()
	defer memzero.Zero(kb)
	x, y := c.E.ScalarMult(p.X, p.Y, kb)
	return Point{X: x, Y: y}
}

// BaseMul returns k·G.
func (c *Curve) BaseMul(k *big.Int) Point {
	kk := new(big.Int).Mod(k, c.Q)
	defer memzero.ZeroInt(kk)
	kb := kk.Bytes()
	defer memzero.Zero(kb)
	x, y := c.E.ScalarBaseMult(kb)
	return Point{X: x, Y: y}
}

// MulAdd returns a·p + b·o.
func (c *Curve) MulAdd(a *big.Int, p Point, b *big.Int, o Point) Point {
	return c.Add(c.Mul(a, p), c.Mul(b, o))
}

// EqualEncoded compares two encodings in constant time.
func EqualEncoded(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}
