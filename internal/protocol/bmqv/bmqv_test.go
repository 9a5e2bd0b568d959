package bmqv_test

import (
	"encoding/hex"
	"net"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/protocol/bake"
	"bee/internal/protocol/bmqv"
)

const vectorPriv = "1F66B5B84B7339674533F0329C74F21834281FED0732429E0C79235FC273E269"

type sides struct {
	c      *ec.Curve
	privA  []byte
	privB  []byte
	certA  bake.Cert
	certB  bake.Cert
	settin bake.Settings
}

func newSides(t *testing.T, kca, kcb bool) sides {
	t.Helper()
	c := ec.MustStandard(domain.Level128)
	rng := crypto.NewSeededPrg([]byte("bmqv"))
	privA, pubA, err := c.GenerateKey(rng)
	require.NoError(t, err)
	privB, pubB, err := c.GenerateKey(rng)
	require.NoError(t, err)
	return sides{
		c: c, privA: privA, privB: privB,
		certA: bake.NewRawCert(pubA), certB: bake.NewRawCert(pubB),
		settin: bake.Settings{Helloa: []byte("a"), Hellob: []byte("b"), Kca: kca, Kcb: kcb, Rng: rng},
	}
}

func (s sides) start(t *testing.T) (*bmqv.Session, *bmqv.Session) {
	t.Helper()
	sa, sb := s.settin, s.settin
	sa.Rng = crypto.NewSeededPrg([]byte("side a"))
	sb.Rng = crypto.NewSeededPrg([]byte("side b"))
	a, err := bmqv.Start(s.c, sa, s.privA, s.certA)
	require.NoError(t, err)
	b, err := bmqv.Start(s.c, sb, s.privB, s.certB)
	require.NoError(t, err)
	return a, b
}

func TestBMQV_SameVectorKeyBothConfirmations(t *testing.T) {
	c := ec.MustStandard(domain.Level128)
	priv, err := hex.DecodeString(vectorPriv)
	require.NoError(t, err)
	pub, err := c.PublicKey(priv)
	require.NoError(t, err)
	cert := bake.NewRawCert(pub)
	settings := bake.Settings{Kca: true, Kcb: true, Rng: crypto.NewSeededPrg(priv)}

	a, err := bmqv.Start(c, settings, priv, cert)
	require.NoError(t, err)
	settings.Rng = crypto.NewSeededPrg([]byte("b"))
	b, err := bmqv.Start(c, settings, priv, cert)
	require.NoError(t, err)

	m1, err := b.Step2()
	require.NoError(t, err)
	require.Len(t, m1, 64)
	m2, err := a.Step3(m1, cert)
	require.NoError(t, err)
	require.Len(t, m2, 64+8)
	m3, err := b.Step4(m2, cert)
	require.NoError(t, err)
	require.Len(t, m3, 8)
	require.NoError(t, a.Step5(m3))

	ka, err := a.Result()
	require.NoError(t, err)
	kb, err := b.Result()
	require.NoError(t, err)
	require.Len(t, ka, 32)
	require.Equal(t, ka, kb)
}

func TestBMQV_SymmetryAllFlags(t *testing.T) {
	for _, tc := range []struct{ kca, kcb bool }{{false, false}, {true, false}, {false, true}, {true, true}} {
		s := newSides(t, tc.kca, tc.kcb)
		a, b := s.start(t)

		m1, err := b.Step2()
		require.NoError(t, err)
		m2, err := a.Step3(m1, s.certB)
		require.NoError(t, err)
		m3, err := b.Step4(m2, s.certA)
		require.NoError(t, err)
		if tc.kcb {
			require.NoError(t, a.Step5(m3))
		} else {
			require.Empty(t, m3)
			require.True(t, errors.Is(a.Step5(m3), domain.ErrBadLogic))
		}

		ka, err := a.Result()
		require.NoError(t, err)
		kb, err := b.Result()
		require.NoError(t, err)
		require.Equal(t, ka, kb, "kca=%v kcb=%v", tc.kca, tc.kcb)
	}
}

func TestBMQV_TamperedTagAndPoisoning(t *testing.T) {
	s := newSides(t, true, true)
	a, b := s.start(t)

	m1, err := b.Step2()
	require.NoError(t, err)
	m2, err := a.Step3(m1, s.certB)
	require.NoError(t, err)
	m2[len(m2)-1] ^= 1
	_, err = b.Step4(m2, s.certA)
	require.True(t, errors.Is(err, domain.ErrAuth))

	_, err = b.Step4(m2, s.certA)
	require.True(t, errors.Is(err, domain.ErrBadLogic))
	_, err = b.Result()
	require.True(t, errors.Is(err, domain.ErrBadLogic))
}

func TestBMQV_WrongCertificateFailsConfirmation(t *testing.T) {
	s := newSides(t, true, false)
	a, b := s.start(t)
	_, other, err := s.c.GenerateKey(crypto.NewSeededPrg([]byte("other")))
	require.NoError(t, err)

	m1, err := b.Step2()
	require.NoError(t, err)
	m2, err := a.Step3(m1, s.certB)
	require.NoError(t, err)
	_, err = b.Step4(m2, bake.NewRawCert(other))
	require.True(t, errors.Is(err, domain.ErrAuth))
}

func TestBMQV_BadPointAndOrder(t *testing.T) {
	s := newSides(t, false, false)
	a, b := s.start(t)

	require.True(t, errors.Is(a.Step5(nil), domain.ErrBadLogic))

	m1, err := b.Step2()
	require.NoError(t, err)
	_, err = b.Step2()
	require.True(t, errors.Is(err, domain.ErrBadLogic))

	m1[0] ^= 1
	_, err = a.Step3(m1, s.certB)
	require.True(t, errors.Is(err, domain.ErrBadPoint))

	_, err = bmqv.Start(s.c, s.settin, s.privA, bake.Cert{Data: []byte("junk"), Validate: bake.RawCert})
	require.True(t, errors.Is(err, domain.ErrBadCert))
}

func TestBMQV_RunOverPipe(t *testing.T) {
	s := newSides(t, true, true)
	a, b := s.start(t)
	connA, connB := net.Pipe()
	defer connA.Close()
	defer connB.Close()

	type result struct {
		key []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		k, err := bake.Run(bmqv.NewResponder(b, s.certA), bake.FramedTransport(connB))
		done <- result{k, err}
	}()
	ka, err := bake.Run(bmqv.NewInitiator(a, s.certB), bake.FramedTransport(connA))
	require.NoError(t, err)
	rb := <-done
	require.NoError(t, rb.err)
	require.Equal(t, ka, rb.key)
}
