package bake_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/protocol/bake"
)

func TestKDF_MatchesReferenceChain(t *testing.T) {
	got, err := bake.KDF([]byte("password"), []byte("salt"), 0)
	require.NoError(t, err)

	y := crypto.Hash([]byte("passwordsalt"))
	want, err := crypto.KRP(y, bytes.Repeat([]byte{0xff}, 12), make([]byte, 16))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Len(t, got, 32)

	one, err := bake.KDF([]byte("password"), []byte("salt"), 1)
	require.NoError(t, err)
	require.NotEqual(t, got, one)
}

func TestDeriveKeys_Distinct(t *testing.T) {
	keys, err := bake.DeriveKeys([]byte("secret"), 3)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	require.NotEqual(t, keys[0], keys[1])
	require.NotEqual(t, keys[1], keys[2])

	k2, err := bake.KDF([]byte("secret"), bake.KDFIV, 2)
	require.NoError(t, err)
	require.Equal(t, k2, keys[2])
}

func TestTags(t *testing.T) {
	k1 := bytes.Repeat([]byte{7}, 32)
	ta, err := bake.TagA(k1, nil)
	require.NoError(t, err)
	tb, err := bake.TagB(k1, nil)
	require.NoError(t, err)
	require.Len(t, ta, bake.TagSize)
	require.NotEqual(t, ta, tb)

	require.NoError(t, bake.CheckTagA(k1, nil, ta))
	require.True(t, errors.Is(bake.CheckTagB(k1, nil, ta), domain.ErrAuth))
	require.True(t, errors.Is(bake.CheckTagA(k1, nil, ta[:4]), domain.ErrBadInput))
}

func TestStateExpect(t *testing.T) {
	require.NoError(t, bake.Started.Expect("step2", bake.Started))
	err := bake.Done.Expect("step2", bake.Started)
	require.True(t, errors.Is(err, domain.ErrBadLogic))
	require.Contains(t, err.Error(), "done")
}

func TestFramedTransport(t *testing.T) {
	var buf bytes.Buffer
	tr := bake.FramedTransport(&buf)
	require.NoError(t, tr.Send([]byte("hello")))
	require.NoError(t, tr.Send([]byte{}))
	require.Equal(t, []byte{0, 0, 0, 5}, buf.Bytes()[:4])

	msg, err := tr.Recv()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), msg)
	msg, err = tr.Recv()
	require.NoError(t, err)
	require.Empty(t, msg)

	_, err = tr.Recv()
	require.Error(t, err)

	buf.Write([]byte{0xff, 0xff, 0xff, 0xff})
	_, err = tr.Recv()
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestRawCert(t *testing.T) {
	c := ec.MustStandard(domain.Level128)
	_, pub, err := c.GenerateKey(crypto.NewSeededPrg([]byte("raw")))
	require.NoError(t, err)

	q, err := bake.NewRawCert(pub).PublicKey(c)
	require.NoError(t, err)
	require.Equal(t, pub, c.Encode(q))

	bad := append([]byte(nil), pub...)
	bad[0] ^= 1
	_, err = bake.NewRawCert(bad).PublicKey(c)
	require.True(t, errors.Is(err, domain.ErrBadCert))

	_, err = bake.Cert{Data: pub}.PublicKey(c)
	require.True(t, errors.Is(err, domain.ErrBadCert))
}
