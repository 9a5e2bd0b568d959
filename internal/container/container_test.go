package container_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/cert"
	"bee/internal/container"
	"bee/internal/crypto"
	"bee/internal/der"
	"bee/internal/domain"
	"bee/internal/ec"
)

const vectorPriv = "1F66B5B84B7339674533F0329C74F21834281FED0732429E0C79235FC273E269"

func vectorKeys(t *testing.T) ([]byte, []byte) {
	t.Helper()
	priv, err := hex.DecodeString(vectorPriv)
	require.NoError(t, err)
	pub, err := ec.MustStandard(domain.Level128).PublicKey(priv)
	require.NoError(t, err)
	return priv, pub
}

func encrypt(t *testing.T, plain []byte, rcpt container.Recipient, opts container.Options) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, container.Encrypt(&out, bytes.NewReader(plain), rcpt, opts))
	return out.Bytes()
}

func decrypt(ct []byte, creds container.Credentials, opts container.Options) ([]byte, error) {
	var out bytes.Buffer
	err := container.Decrypt(&out, bytes.NewReader(ct), creds, opts)
	return out.Bytes(), err
}

func headerLen(t *testing.T, ct []byte) int {
	t.Helper()
	hdr, n, err := der.HeaderLen(ct)
	require.NoError(t, err)
	return hdr + n
}

func TestPWD_RoundTripAndTamper(t *testing.T) {
	rng := crypto.NewSeededPrg([]byte("pwd"))
	plain := crypto.NewSeededPrg([]byte("plain")).Squeeze(10000)
	opts := container.Options{Rng: rng}

	ct := encrypt(t, plain, container.PWDRecipient{Password: []byte("zed"), Iter: 10000}, opts)
	hl := headerLen(t, ct)
	require.Len(t, ct, hl+len(plain)+container.TagSize)

	got, err := decrypt(ct, container.PWDCredentials{Password: []byte("zed")}, opts)
	require.NoError(t, err)
	require.Equal(t, plain, got)

	for _, off := range []int{hl, hl + 4095, hl + 4096, len(ct) - 9, len(ct) - 1} {
		bad := append([]byte(nil), ct...)
		bad[off] ^= 0x01
		_, err := decrypt(bad, container.PWDCredentials{Password: []byte("zed")}, opts)
		require.True(t, errors.Is(err, domain.ErrBadFile), "offset %d: %v", off, err)
	}

	_, err = decrypt(ct, container.PWDCredentials{Password: []byte("zee")}, opts)
	require.True(t, errors.Is(err, domain.ErrAuth))

	_, err = decrypt(ct[:len(ct)-3], container.PWDCredentials{Password: []byte("zed")}, opts)
	require.True(t, errors.Is(err, domain.ErrBadFile))
}

func TestPKE_IntermediateTagsAndCertificate(t *testing.T) {
	priv, pub := vectorKeys(t)
	plain := crypto.NewSeededPrg([]byte("3mib")).Squeeze(3 << 20)
	opts := container.Options{Itag: 1, Rng: crypto.NewSeededPrg([]byte("pke"))}

	ct := encrypt(t, plain, container.PKERecipient{PubKey: pub, Cert: []byte("test")}, opts)
	require.Len(t, ct, headerLen(t, ct)+len(plain)+2*container.TagSize+container.TagSize)

	got, err := decrypt(ct, container.PKECredentials{PrivKey: priv}, opts)
	require.NoError(t, err)
	require.True(t, bytes.Equal(plain, got))

	require.NoError(t, container.Validate(bytes.NewReader(ct), container.PKECredentials{PrivKey: priv, Cert: []byte("test")}, opts))
	err = container.Validate(bytes.NewReader(ct), container.PKECredentials{PrivKey: priv, Cert: []byte("tesT")}, opts)
	require.True(t, errors.Is(err, domain.ErrBadCert))

	// Corrupt the first intermediate tag.
	bad := append([]byte(nil), ct...)
	bad[headerLen(t, ct)+1<<20] ^= 0x01
	out, err := decrypt(bad, container.PKECredentials{PrivKey: priv}, opts)
	require.True(t, errors.Is(err, domain.ErrBadFile))
	require.Len(t, out, 1<<20)
}

func TestIntermediateTagCount(t *testing.T) {
	_, pub := vectorKeys(t)
	rcpt := container.PKERecipient{PubKey: pub}
	for _, tc := range []struct{ size, tags int }{
		{0, 0},
		{1 << 20, 0},
		{1<<20 + 1, 1},
		{2 << 20, 1},
	} {
		plain := make([]byte, tc.size)
		ct := encrypt(t, plain, rcpt, container.Options{Itag: 1, Rng: crypto.NewSeededPrg([]byte("count"))})
		require.Len(t, ct, headerLen(t, ct)+tc.size+(tc.tags+1)*container.TagSize, "size %d", tc.size)
	}
}

func TestAdataIsBound(t *testing.T) {
	rng := crypto.NewSeededPrg([]byte("adata"))
	rcpt := container.PWDRecipient{Password: []byte("pw")}
	creds := container.PWDCredentials{Password: []byte("pw")}
	ct := encrypt(t, []byte("hello"), rcpt, container.Options{Adata: []byte("context"), Rng: rng})

	got, err := decrypt(ct, creds, container.Options{Adata: []byte("context")})
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	_, err = decrypt(ct, creds, container.Options{Adata: []byte("contexT")})
	require.True(t, errors.Is(err, domain.ErrBadFile))
	_, err = decrypt(ct, creds, container.Options{})
	require.True(t, errors.Is(err, domain.ErrBadFile))
}

func TestHeaderTamperAndInspect(t *testing.T) {
	priv, pub := vectorKeys(t)
	rng := crypto.NewSeededPrg([]byte("inspect"))
	ct := encrypt(t, []byte("payload"), container.PKERecipient{PubKey: pub, Cert: []byte("test")}, container.Options{Itag: 2, Rng: rng})

	info, err := container.Inspect(bytes.NewReader(ct))
	require.NoError(t, err)
	require.Equal(t, "pke", info.Kind)
	require.Equal(t, container.TagKeyloadPKE, info.Tag)
	require.Equal(t, domain.Level128, info.Level)
	require.Equal(t, uint(2), info.Itag)
	require.Equal(t, []byte("test"), info.Cert)
	require.Len(t, info.IV, 16)

	// 7F 4E 81 len, then the PKE keyload 7F 4B len 04 70 <ekey>.
	require.Equal(t, []byte{0x7f, 0x4e, 0x81}, ct[:3])
	require.Equal(t, []byte{0x7f, 0x4b}, ct[4:6])

	hl := headerLen(t, ct)
	iv := bytes.Index(ct[:hl], info.IV)
	require.Positive(t, iv)
	bad := append([]byte(nil), ct...)
	bad[iv] ^= 0x01
	_, err = decrypt(bad, container.PKECredentials{PrivKey: priv}, container.Options{})
	require.True(t, errors.Is(err, domain.ErrBadFile))

	bad = append([]byte(nil), ct...)
	bad[12] ^= 0x01 // ephemeral point of ekey
	_, err = decrypt(bad, container.PKECredentials{PrivKey: priv}, container.Options{})
	require.True(t, errors.Is(err, domain.ErrAuth) || errors.Is(err, domain.ErrBadFile), "%v", err)

	_, err = container.Inspect(bytes.NewReader([]byte{0x30, 0x00}))
	require.True(t, errors.Is(err, domain.ErrBadFile))
}

func TestPKE_CertificateValidator(t *testing.T) {
	c := ec.MustStandard(domain.Level128)
	rng := crypto.NewSeededPrg([]byte("validator"))
	caPriv, caPub, err := c.GenerateKey(rng)
	require.NoError(t, err)
	root, err := cert.SelfSigned("ca", caPriv, caPub, rng)
	require.NoError(t, err)
	priv, pub, err := c.GenerateKey(rng)
	require.NoError(t, err)
	leaf, err := cert.Issue("ca", caPriv, "bob", pub, rng)
	require.NoError(t, err)

	ct := encrypt(t, []byte("x"), container.PKERecipient{PubKey: pub, Cert: leaf.Encode()}, container.Options{Rng: rng})
	_, err = decrypt(ct, container.PKECredentials{PrivKey: priv, Validator: cert.Validator(root)}, container.Options{})
	require.NoError(t, err)

	other, _, err := c.GenerateKey(rng)
	require.NoError(t, err)
	_, err = decrypt(ct, container.PKECredentials{PrivKey: other, Validator: cert.Validator(root)}, container.Options{})
	require.True(t, errors.Is(err, domain.ErrBadCert))
}

func TestParams(t *testing.T) {
	var out bytes.Buffer
	err := container.Encrypt(&out, bytes.NewReader(nil), container.PWDRecipient{Password: []byte("p")}, container.Options{Itag: 1025})
	require.True(t, errors.Is(err, domain.ErrBadParams))
	err = container.Encrypt(&out, bytes.NewReader(nil), container.PWDRecipient{Password: []byte("p"), Iter: 9999}, container.Options{})
	require.True(t, errors.Is(err, domain.ErrBadParams))
	err = container.Encrypt(&out, bytes.NewReader(nil), container.PWDRecipient{Password: []byte("p")}, container.Options{Rng: bytes.NewReader(nil)})
	require.True(t, errors.Is(err, domain.ErrBadRng))
}
