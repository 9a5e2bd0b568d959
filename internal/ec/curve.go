package ec

import (
	"crypto/elliptic"
	"math/big"
	"sync"

	"github.com/ProtonMail/go-crypto/brainpool"

	"bee/internal/domain"
)

// Curve is an immutable curve context for one security level.
type Curve struct {
	Level domain.Level
	// No is the size of a scalar or coordinate in octets.
	No int

	E      elliptic.Curve
	P      *big.Int
	A      *big.Int
	B      *big.Int
	Q      *big.Int
	G      Point
	twoL   *big.Int // 2^l
	params *elliptic.CurveParams
}

var (
	curvesOnce sync.Once
	curves     map[domain.Level]*Curve
)

func initCurves() {
	curves = map[domain.Level]*Curve{
		domain.Level128: newCurve(domain.Level128, brainpool.P256t1()),
		domain.Level192: newCurve(domain.Level192, brainpool.P384t1()),
		domain.Level256: newCurve(domain.Level256, brainpool.P512t1()),
	}
}

func newCurve(l domain.Level, e elliptic.Curve) *Curve {
	params := e.Params()
	a := new(big.Int).Sub(params.P, big.NewInt(3))
	return &Curve{
		Level:  l,
		No:     l.No(),
		E:      e,
		P:      params.P,
		A:      a,
		B:      params.B,
		Q:      params.N,
		G:      Point{X: params.Gx, Y: params.Gy},
		twoL:   new(big.Int).Lsh(big.NewInt(1), uint(l)),
		params: params,
	}
}

// Standard returns the standard curve for level l.
func Standard(l domain.Level) (*Curve, error) {
	if err := l.Check(); err != nil {
		return nil, err
	}
	curvesOnce.Do(initCurves)
	return curves[l], nil
}

// MustStandard is Standard for levels known to be valid.
func MustStandard(l domain.Level) *Curve {
	c, err := Standard(l)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the curve name.
func (c *Curve) Name() string { return c.params.Name }

// PointSize is the size of an encoded point in octets.
func (c *Curve) PointSize() int { return 2 * c.No }

// TwoL returns a fresh copy of 2^l.
func (c *Curve) TwoL() *big.Int { return new(big.Int).Set(c.twoL) }
