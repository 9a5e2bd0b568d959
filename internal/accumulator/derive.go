package accumulator

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/util/memzero"
)

var derLabel = []byte("acc-der")

// derBase returns the point P = SWU(Hash_l(acc || "acc-der")) that membership
// public keys are taken over.
func derBase(c *ec.Curve, acc []byte) (ec.Point, error) {
	h, err := crypto.LevelHash(c.Level, acc, derLabel)
	if err != nil {
		return ec.Point{}, err
	}
	return c.SWU(h)
}

// Der returns the membership public key priv·P of acc, l/2 octets.
func Der(l domain.Level, acc, priv []byte) ([]byte, error) {
	c, err := curveOf(l)
	if err != nil {
		return nil, err
	}
	if _, err := c.DecodeAll(acc); err != nil {
		return nil, err
	}
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(d)
	p, err := derBase(c, acc)
	if err != nil {
		return nil, err
	}
	return c.Encode(c.Mul(d, p)), nil
}

// DerProofSize returns the size of a membership proof for an accumulator of
// m points.
func DerProofSize(l domain.Level, m int) int { return 2 * l.No() * (m - 1) }

// Position returns the index j >= 1 with priv·acc[j] = acc[0], or
// domain.ErrBadPrivkey if priv is not a member.
func Position(l domain.Level, acc, priv []byte) (int, error) {
	c, err := curveOf(l)
	if err != nil {
		return 0, err
	}
	pts, err := c.DecodeAll(acc)
	if err != nil {
		return 0, err
	}
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return 0, err
	}
	defer memzero.ZeroInt(d)
	return position(c, pts, d)
}

func position(c *ec.Curve, pts []ec.Point, d *big.Int) (int, error) {
	for j := 1; j < len(pts); j++ {
		if c.Mul(d, pts[j]).Equal(pts[0]) {
			return j, nil
		}
	}
	return 0, errors.Wrap(domain.ErrBadPrivkey, "key is not a member of the accumulator")
}

// ProveDer proves knowledge of priv with pub = Der(acc, priv) and
// priv·acc[j] = acc[0] for some hidden j. adata, if any, is bound into the
// proof. The proof is an OR-composition of discrete-log-equality proofs,
// one pair (c_j, s_j) per position j = 1..m-1.
func ProveDer(l domain.Level, acc, priv, adata []byte, rng io.Reader) ([]byte, error) {
	c, err := curveOf(l)
	if err != nil {
		return nil, err
	}
	pts, err := c.DecodeAll(acc)
	if err != nil {
		return nil, err
	}
	if len(pts) < 2 {
		return nil, errors.Wrap(domain.ErrBadInput, "accumulator has no members")
	}
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(d)
	me, err := position(c, pts, d)
	if err != nil {
		return nil, err
	}
	base, err := derBase(c, acc)
	if err != nil {
		return nil, err
	}
	pub := c.Mul(d, base)

	m := len(pts)
	cs := make([]*big.Int, m)
	ss := make([]*big.Int, m)
	commits := make([]ec.Point, 0, 2*(m-1))
	k, err := c.RandScalar(rng)
	if err != nil {
		return nil, err
	}
	defer memzero.ZeroInt(k)

	sum := new(big.Int)
	for j := 1; j < m; j++ {
		if j == me {
			commits = append(commits, c.Mul(k, base), c.Mul(k, pts[j]))
			continue
		}
		if cs[j], err = c.RandScalar(rng); err != nil {
			return nil, err
		}
		if ss[j], err = c.RandScalar(rng); err != nil {
			return nil, err
		}
		sum.Add(sum, cs[j])
		commits = append(commits,
			c.MulAdd(ss[j], base, cs[j], pub),
			c.MulAdd(ss[j], pts[j], cs[j], pts[0]))
	}

	ch := challenge(c, "acc-der", acc, c.Encode(pub), adata, c.EncodeAll(commits))
	cs[me] = new(big.Int).Sub(ch, sum)
	cs[me].Mod(cs[me], c.Q)
	ss[me] = new(big.Int).Mul(cs[me], d)
	ss[me].Sub(k, ss[me])
	ss[me].Mod(ss[me], c.Q)
	defer memzero.ZeroInt(ss[me])

	proof := make([]byte, 0, DerProofSize(l, m))
	for j := 1; j < m; j++ {
		proof = append(proof, c.EncodeScalar(cs[j])...)
		proof = append(proof, c.EncodeScalar(ss[j])...)
	}
	return proof, nil
}

// VerifyDer checks a membership proof for pub over acc and adata. Any
// failure, including a malformed pub or proof, yields domain.ErrAuth.
func VerifyDer(l domain.Level, acc, pub, adata, proof []byte) error {
	c, err := curveOf(l)
	if err != nil {
		return err
	}
	pts, err := c.DecodeAll(acc)
	if err != nil {
		return err
	}
	m := len(pts)
	if m < 2 || len(proof) != DerProofSize(l, m) {
		return errors.Wrapf(domain.ErrAuth, "membership proof of %d octets", len(proof))
	}
	q, err := c.Decode(pub)
	if err != nil {
		return errors.Wrap(domain.ErrAuth, err.Error())
	}
	base, err := derBase(c, acc)
	if err != nil {
		return err
	}

	sum := new(big.Int)
	commits := make([]ec.Point, 0, 2*(m-1))
	for j := 1; j < m; j++ {
		off := 2 * c.No * (j - 1)
		cj, err := c.DecodeResidue(proof[off : off+c.No])
		if err != nil {
			return errors.Wrap(domain.ErrAuth, "membership proof challenge out of range")
		}
		sj, err := c.DecodeResidue(proof[off+c.No : off+2*c.No])
		if err != nil {
			return errors.Wrap(domain.ErrAuth, "membership proof response out of range")
		}
		sum.Add(sum, cj)
		commits = append(commits, c.MulAdd(sj, base, cj, q), c.MulAdd(sj, pts[j], cj, pts[0]))
	}
	sum.Mod(sum, c.Q)
	if challenge(c, "acc-der", acc, pub, adata, c.EncodeAll(commits)).Cmp(sum) != 0 {
		return errors.Wrap(domain.ErrAuth, "membership proof does not verify")
	}
	return nil
}
