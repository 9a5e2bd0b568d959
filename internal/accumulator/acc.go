package accumulator

import (
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/util/memzero"
)

func curveOf(l domain.Level) (*ec.Curve, error) {
	return ec.Standard(l)
}

// Init returns the initial accumulator. With a name the single point is
// SWU(Hash_l(name)), otherwise r·G for a random r.
func Init(l domain.Level, name []byte, rng io.Reader) ([]byte, error) {
	c, err := curveOf(l)
	if err != nil {
		return nil, err
	}
	if name != nil {
		h, err := crypto.LevelHash(l, name)
		if err != nil {
			return nil, err
		}
		p, err := c.SWU(h)
		if err != nil {
			return nil, err
		}
		return c.Encode(p), nil
	}
	r, err := c.RandScalar(rng)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(r)
	return c.Encode(c.BaseMul(r)), nil
}

// Len returns the number of points in acc.
func Len(l domain.Level, acc []byte) int {
	return len(acc) / (2 * l.No())
}

// Add multiplies every point of acc by priv and appends the former first
// point.
func Add(l domain.Level, acc, priv []byte) ([]byte, error) {
	c, err := curveOf(l)
	if err != nil {
		return nil, err
	}
	pts, err := c.DecodeAll(acc)
	if err != nil {
		return nil, err
	}
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(d)

	out := make([]ec.Point, 0, len(pts)+1)
	for _, p := range pts {
		out = append(out, c.Mul(d, p))
	}
	out = append(out, pts[0])
	return c.EncodeAll(out), nil
}

// AddProofSize returns the size of an addition proof.
func AddProofSize(l domain.Level) int { return 2 * l.No() }

// ProveAdd proves that next = Add(acc, priv): every point of acc was
// multiplied by one scalar. The proof is c || s with R_i = k·acc[i],
// c = H(acc, next, R) and s = k - c·priv.
func ProveAdd(l domain.Level, acc, next, priv []byte, rng io.Reader) ([]byte, error) {
	c, err := curveOf(l)
	if err != nil {
		return nil, err
	}
	pts, err := c.DecodeAll(acc)
	if err != nil {
		return nil, err
	}
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(d)
	k, err := c.RandScalar(rng)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(k)

	commits := make([]ec.Point, len(pts))
	for i, p := range pts {
		commits[i] = c.Mul(k, p)
	}
	ch := challenge(c, "acc-add", acc, next, c.EncodeAll(commits))
	s := new(big.Int).Mul(ch, d)
	s.Sub(k, s)
	s.Mod(s, c.Q)
	defer memzero.ZeroInt(s)
	return append(c.EncodeScalar(ch), c.EncodeScalar(s)...), nil
}

// VerifyAdd checks that next extends acc by one member. Malformed points
// yield domain.ErrBadPoint, a failing proof domain.ErrAuth.
func VerifyAdd(l domain.Level, proof, acc, next []byte) error {
	c, err := curveOf(l)
	if err != nil {
		return err
	}
	pts, err := c.DecodeAll(acc)
	if err != nil {
		return err
	}
	nextPts, err := c.DecodeAll(next)
	if err != nil {
		return err
	}
	if len(nextPts) != len(pts)+1 {
		return errors.Wrapf(domain.ErrBadFile, "accumulator grows from %d to %d points", len(pts), len(nextPts))
	}
	if !nextPts[len(pts)].Equal(pts[0]) {
		return errors.Wrap(domain.ErrAuth, "last point is not the former head")
	}
	if len(proof) != AddProofSize(l) {
		return errors.Wrapf(domain.ErrAuth, "addition proof of %d octets", len(proof))
	}
	ch, err := c.DecodeResidue(proof[:c.No])
	if err != nil {
		return errors.Wrap(domain.ErrAuth, "addition proof challenge out of range")
	}
	s, err := c.DecodeResidue(proof[c.No:])
	if err != nil {
		return errors.Wrap(domain.ErrAuth, "addition proof response out of range")
	}

	commits := make([]ec.Point, len(pts))
	for i, p := range pts {
		commits[i] = c.MulAdd(s, p, ch, nextPts[i])
	}
	if challenge(c, "acc-add", acc, next, c.EncodeAll(commits)).Cmp(ch) != 0 {
		return errors.Wrap(domain.ErrAuth, "addition proof does not verify")
	}
	return nil
}

// challenge hashes parts into a scalar with the sponge, domain-separated by
// label and the curve level.
func challenge(c *ec.Curve, label string, parts ...[]byte) *big.Int {
	prg := crypto.NewPrg([]byte(label))
	var lvl [2]byte
	binary.LittleEndian.PutUint16(lvl[:], uint16(c.Level))
	prg.Absorb(lvl[:])
	prg.Absorb(parts...)
	return c.ReduceHash(prg.Squeeze(c.No + 8))
}
