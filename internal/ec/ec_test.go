package ec_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
)

var levels = []domain.Level{domain.Level128, domain.Level192, domain.Level256}

func TestStandard_Parameters(t *testing.T) {
	for _, l := range levels {
		c, err := ec.Standard(l)
		require.NoError(t, err)
		require.Equal(t, l.No(), c.No)
		require.Equal(t, 2*int(l), c.P.BitLen())
		require.True(t, c.IsOnCurve(c.G))

		// q·G is the point at infinity.
		x, y := c.E.ScalarBaseMult(c.Q.Bytes())
		require.Zero(t, x.Sign())
		require.Zero(t, y.Sign())

		// (q-1)·G = -G.
		qm1 := new(big.Int).Sub(c.Q, big.NewInt(1))
		require.True(t, c.BaseMul(qm1).Equal(c.Neg(c.G)))
	}

	_, err := ec.Standard(domain.Level(160))
	require.True(t, errors.Is(err, domain.ErrBadParams))
}

func TestPoint_EncodeDecode(t *testing.T) {
	c := ec.MustStandard(domain.Level128)
	rng := crypto.NewSeededPrg([]byte("points"))
	priv, pub, err := c.GenerateKey(rng)
	require.NoError(t, err)
	require.Len(t, priv, 32)
	require.Len(t, pub, 64)

	p, err := c.Decode(pub)
	require.NoError(t, err)
	require.Equal(t, pub, c.Encode(p))

	bad := append([]byte(nil), pub...)
	bad[0] ^= 1
	_, err = c.Decode(bad)
	require.True(t, errors.Is(err, domain.ErrBadPoint))

	_, err = c.Decode(pub[:63])
	require.True(t, errors.Is(err, domain.ErrBadPoint))

	_, err = c.DecodePubkey(bad)
	require.True(t, errors.Is(err, domain.ErrBadPubkey))

	require.NoError(t, c.ValidateKeypair(priv, pub))
}

func TestScalar_Ranges(t *testing.T) {
	c := ec.MustStandard(domain.Level128)
	_, err := c.DecodeScalar(make([]byte, 32))
	require.True(t, errors.Is(err, domain.ErrBadPrivkey))

	_, err = c.DecodeScalar(c.EncodeScalar(big.NewInt(5))[:31])
	require.True(t, errors.Is(err, domain.ErrBadPrivkey))

	// Vector private key from the key-agreement scenarios.
	priv, _ := hex.DecodeString("1F66B5B84B7339674533F0329C74F21834281FED0732429E0C79235FC273E269")
	d, err := c.DecodeScalar(priv)
	require.NoError(t, err)
	require.Equal(t, priv, c.EncodeScalar(d))
}

func TestRandScalar_BrokenSource(t *testing.T) {
	c := ec.MustStandard(domain.Level128)
	_, err := c.RandScalar(nil)
	require.True(t, errors.Is(err, domain.ErrBadRng))

	_, err = c.RandScalar(zeroReader{})
	require.True(t, errors.Is(err, domain.ErrBadRng))
}

type zeroReader struct{}

func (zeroReader) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	return len(b), nil
}

func TestSWU_OnCurve(t *testing.T) {
	rng := crypto.NewSeededPrg([]byte("swu"))
	for _, l := range levels {
		c := ec.MustStandard(l)
		for i := 0; i < 16; i++ {
			msg := rng.Squeeze(c.No)
			p, err := c.SWU(msg)
			require.NoError(t, err)
			require.True(t, c.IsOnCurve(p))

			again, err := c.SWU(msg)
			require.NoError(t, err)
			require.True(t, p.Equal(again))
		}
		p, err := c.SWU(make([]byte, c.No))
		require.NoError(t, err)
		require.True(t, c.IsOnCurve(p))

		_, err = c.SWU(make([]byte, c.No-1))
		require.True(t, errors.Is(err, domain.ErrBadInput))
	}
}

func TestMulBlind_MatchesMul(t *testing.T) {
	c := ec.MustStandard(domain.Level192)
	rng := crypto.NewSeededPrg([]byte("blind"))
	d, err := c.RandScalar(rng)
	require.NoError(t, err)
	p, err := c.MulBlind(d, c.G, rng)
	require.NoError(t, err)
	require.True(t, p.Equal(c.BaseMul(d)))
}

func TestSign_Verify(t *testing.T) {
	rng := crypto.NewSeededPrg([]byte("sign"))
	for _, l := range levels {
		c := ec.MustStandard(l)
		priv, pub, err := c.GenerateKey(rng)
		require.NoError(t, err)
		msg := []byte("accumulator entry")

		sig, err := c.Sign(priv, msg, rng)
		require.NoError(t, err)
		require.Len(t, sig, 3*int(l)/8)
		require.NoError(t, c.Verify(pub, msg, sig))

		require.True(t, errors.Is(c.Verify(pub, []byte("other"), sig), domain.ErrAuth))
		sig[len(sig)-1] ^= 0x10
		require.True(t, errors.Is(c.Verify(pub, msg, sig), domain.ErrAuth))
	}
}

func TestKeyWrap_RoundTrip(t *testing.T) {
	rng := crypto.NewSeededPrg([]byte("wrap"))
	for _, l := range levels {
		c := ec.MustStandard(l)
		priv, pub, err := c.GenerateKey(rng)
		require.NoError(t, err)
		key := rng.Squeeze(32)

		ekey, err := c.KeyWrap(key, pub, rng)
		require.NoError(t, err)
		require.Len(t, ekey, 2*c.No+16+32)

		got, err := c.KeyUnwrap(ekey, priv, rng)
		require.NoError(t, err)
		require.Equal(t, key, got)

		other, _, err := c.GenerateKey(rng)
		require.NoError(t, err)
		_, err = c.KeyUnwrap(ekey, other, rng)
		require.True(t, errors.Is(err, domain.ErrAuth))
	}
}
