package crypto_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/crypto"
	"bee/internal/domain"
)

func testKey(b byte) []byte { return bytes.Repeat([]byte{b}, crypto.KeySize) }

func TestECB_RoundTripWithStealing(t *testing.T) {
	key := testKey(7)
	rng := crypto.NewSeededPrg([]byte("ecb"))
	for _, n := range []int{16, 24, 32, 40, 64, 77} {
		src := rng.Squeeze(n)
		ct, err := crypto.ECBEncrypt(key, src)
		require.NoError(t, err)
		require.Len(t, ct, n)
		require.NotEqual(t, src, ct)

		pt, err := crypto.ECBDecrypt(key, ct)
		require.NoError(t, err)
		require.Equal(t, src, pt, "length %d", n)
	}

	_, err := crypto.ECBEncrypt(key, make([]byte, 15))
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestCFB_RoundTrip(t *testing.T) {
	key, iv := testKey(1), bytes.Repeat([]byte{0xff}, crypto.BlockSize)
	src := []byte("signed diffie-hellman payload of odd length")
	ct, err := crypto.CFBEncrypt(key, iv, src)
	require.NoError(t, err)
	pt, err := crypto.CFBDecrypt(key, iv, ct)
	require.NoError(t, err)
	require.Equal(t, src, pt)

	_, err = crypto.CFBEncrypt(key, iv[:8], src)
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestWBL_Invertible(t *testing.T) {
	key := make([]byte, crypto.KeySize)
	rng := crypto.NewSeededPrg([]byte("wbl"))
	for _, n := range []int{32, 48, 64, 80} {
		src := rng.Squeeze(n)
		ct, err := crypto.WBLEncrypt(key, src)
		require.NoError(t, err)
		require.NotEqual(t, src, ct)

		again, err := crypto.WBLEncrypt(key, src)
		require.NoError(t, err)
		require.Equal(t, ct, again)

		pt, err := crypto.WBLDecrypt(key, ct)
		require.NoError(t, err)
		require.Equal(t, src, pt)
	}
	_, err := crypto.WBLEncrypt(key, make([]byte, 40))
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestMAC_IntermediateSumKeepsState(t *testing.T) {
	key := testKey(3)
	h, err := crypto.NewMAC(key)
	require.NoError(t, err)
	h.Write([]byte("first part"))
	mid := h.Sum(nil)
	h.Write([]byte("second part"))
	full := h.Sum(nil)

	want, err := crypto.MAC(key, []byte("first part"))
	require.NoError(t, err)
	require.Equal(t, want, mid[:crypto.MACSize])

	want, err = crypto.MAC(key, []byte("first partsecond part"))
	require.NoError(t, err)
	require.Equal(t, want, full[:crypto.MACSize])

	ok, err := crypto.VerifyMAC(key, want, []byte("first part"), []byte("second part"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestKRP_BindsLevelAndHeader(t *testing.T) {
	key := testKey(9)
	level := bytes.Repeat([]byte{0xff}, crypto.KRPLevelSize)
	h0 := make([]byte, crypto.KRPHeaderSize)
	h1 := make([]byte, crypto.KRPHeaderSize)
	h1[0] = 1

	k0, err := crypto.KRP(key, level, h0)
	require.NoError(t, err)
	require.Len(t, k0, crypto.KeySize)
	k1, err := crypto.KRP(key, level, h1)
	require.NoError(t, err)
	require.NotEqual(t, k0, k1)

	again, err := crypto.KRP(key, level, h0)
	require.NoError(t, err)
	require.Equal(t, k0, again)

	_, err = crypto.KRP(key, level[:4], h0)
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestKWP_WrapUnwrap(t *testing.T) {
	kek := testKey(5)
	header := make([]byte, crypto.KWPHeaderSize)
	data := testKey(0x42)

	blob, err := crypto.KWPWrap(kek, data, header)
	require.NoError(t, err)
	require.Len(t, blob, len(data)+crypto.KWPOverhead)

	got, err := crypto.KWPUnwrap(kek, blob, header)
	require.NoError(t, err)
	require.Equal(t, data, got)

	blob[3] ^= 1
	_, err = crypto.KWPUnwrap(kek, blob, header)
	require.True(t, errors.Is(err, domain.ErrAuth))
	blob[3] ^= 1

	_, err = crypto.KWPUnwrap(testKey(6), blob, header)
	require.True(t, errors.Is(err, domain.ErrAuth))
}

func TestPBKDF2_IterationFloor(t *testing.T) {
	k, err := crypto.PBKDF2([]byte("zed"), []byte("saltsalt"), crypto.MinIter)
	require.NoError(t, err)
	require.Len(t, k, crypto.KeySize)

	_, err = crypto.PBKDF2([]byte("zed"), []byte("saltsalt"), crypto.MinIter-1)
	require.True(t, errors.Is(err, domain.ErrBadParams))
}

func TestLevelHash_Sizes(t *testing.T) {
	for _, l := range []domain.Level{domain.Level128, domain.Level192, domain.Level256} {
		h, err := crypto.LevelHash(l, []byte("name"))
		require.NoError(t, err)
		require.Len(t, h, l.No())
	}
	_, err := crypto.LevelHash(domain.Level(100), nil)
	require.True(t, errors.Is(err, domain.ErrBadParams))
}

func TestPrg_DeterministicAndRatcheting(t *testing.T) {
	a := crypto.NewSeededPrg([]byte("seed"))
	b := crypto.NewSeededPrg([]byte("seed"))
	require.Equal(t, a.Squeeze(48), b.Squeeze(48))

	first := a.Squeeze(16)
	require.Equal(t, first, b.Squeeze(16))

	a.Absorb([]byte("x"))
	b.Absorb([]byte("y"))
	require.NotEqual(t, a.Squeeze(16), b.Squeeze(16))

	c := crypto.NewSeededPrg([]byte("other"))
	require.NotEqual(t, crypto.NewSeededPrg([]byte("seed")).Squeeze(32), c.Squeeze(32))
}

func TestFingerprint(t *testing.T) {
	fp := crypto.Fingerprint([]byte("public key"))
	require.Len(t, fp, 2*crypto.FingerprintSize)
	require.Equal(t, fp, crypto.Fingerprint([]byte("public key")))
	require.NotEqual(t, fp, crypto.Fingerprint([]byte("public kez")))
}
