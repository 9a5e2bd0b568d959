package bpace_test

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
	"bee/internal/protocol/bpace"
)

const (
	password = "B194BAC80A08F53B"
	seed     = "1F66B5B84B7339674533F0329C74F21834281FED0732429E0C79235FC273E269"
)

func start(t *testing.T, kca, kcb bool, pwdA, pwdB string) (*bpace.Session, *bpace.Session) {
	t.Helper()
	s, err := hex.DecodeString(seed)
	require.NoError(t, err)
	c := ec.MustStandard(domain.Level128)

	sa := bake.Settings{Kca: kca, Kcb: kcb, Rng: crypto.NewSeededPrg(append([]byte("a"), s...))}
	sb := bake.Settings{Kca: kca, Kcb: kcb, Rng: crypto.NewSeededPrg(append([]byte("b"), s...))}
	a, err := bpace.Start(c, sa, []byte(pwdA))
	require.NoError(t, err)
	b, err := bpace.Start(c, sb, []byte(pwdB))
	require.NoError(t, err)
	return a, b
}

func TestBPACE_NoConfirmation(t *testing.T) {
	a, b := start(t, false, false, password, password)

	m1, err := b.Step2()
	require.NoError(t, err)
	require.Len(t, m1, 16)
	m2, err := a.Step3(m1)
	require.NoError(t, err)
	require.Len(t, m2, 5*32/2)
	m3, err := b.Step4(m2)
	require.NoError(t, err)
	require.Len(t, m3, 64)
	m4, err := a.Step5(m3)
	require.NoError(t, err)
	require.Empty(t, m4)

	ka, err := a.Result()
	require.NoError(t, err)
	kb, err := b.Result()
	require.NoError(t, err)
	require.Len(t, ka, 32)
	require.Equal(t, ka, kb)
}

func TestBPACE_FlippedPointRejected(t *testing.T) {
	a, b := start(t, false, false, password, password)

	m1, err := b.Step2()
	require.NoError(t, err)
	m2, err := a.Step3(m1)
	require.NoError(t, err)
	m2[len(m2)-1] ^= 0x01
	_, err = b.Step4(m2)
	require.True(t, errors.Is(err, domain.ErrBadPoint) || errors.Is(err, domain.ErrAuth), "%v", err)
}

func TestBPACE_Confirmations(t *testing.T) {
	for _, tc := range []struct{ kca, kcb bool }{{true, false}, {false, true}, {true, true}} {
		a, b := start(t, tc.kca, tc.kcb, password, password)

		m1, err := b.Step2()
		require.NoError(t, err)
		m2, err := a.Step3(m1)
		require.NoError(t, err)
		m3, err := b.Step4(m2)
		require.NoError(t, err)
		m4, err := a.Step5(m3)
		require.NoError(t, err)
		if tc.kca {
			require.Len(t, m4, 8)
			require.NoError(t, b.Step6(m4))
		} else {
			require.True(t, errors.Is(b.Step6(m4), domain.ErrBadLogic))
		}

		ka, err := a.Result()
		require.NoError(t, err)
		kb, err := b.Result()
		require.NoError(t, err)
		require.Equal(t, ka, kb)
	}
}

func TestBPACE_WrongPassword(t *testing.T) {
	a, b := start(t, true, true, password, "wrong")

	m1, err := b.Step2()
	require.NoError(t, err)
	m2, err := a.Step3(m1)
	require.NoError(t, err)
	m3, err := b.Step4(m2)
	if err != nil {
		require.True(t, errors.Is(err, domain.ErrBadPoint))
		return
	}
	_, err = a.Step5(m3)
	require.True(t, errors.Is(err, domain.ErrAuth) || errors.Is(err, domain.ErrBadPoint), "%v", err)
}

func TestBPACE_OutOfOrder(t *testing.T) {
	a, b := start(t, true, true, password, password)
	_, err := a.Step5(make([]byte, 72))
	require.True(t, errors.Is(err, domain.ErrBadLogic))
	_, err = b.Step4(make([]byte, 80))
	require.True(t, errors.Is(err, domain.ErrBadLogic))

	_, err = bpace.Start(ec.MustStandard(domain.Level128), bake.Settings{}, nil)
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestBPACE_RunOverPipe(t *testing.T) {
	for _, kca := range []bool{false, true} {
		a, b := start(t, kca, true, password, password)
		connA, connB := net.Pipe()

		errc := make(chan error, 1)
		keyc := make(chan []byte, 1)
		go func() {
			k, err := bake.Run(bpace.NewResponder(b), bake.FramedTransport(connB))
			keyc <- k
			errc <- err
		}()
		ka, err := bake.Run(bpace.NewInitiator(a), bake.FramedTransport(connA))
		require.NoError(t, err)
		require.NoError(t, <-errc)
		require.Equal(t, ka, <-keyc)
		connA.Close()
		connB.Close()
	}
}
