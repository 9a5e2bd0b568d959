package container_test

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/domain"
	containersvc "bee/internal/services/container"
	"bee/internal/services/keys"
	"bee/internal/store"
)

const pass = "Str0ng-Passphrase!"

type fixture struct {
	dir  string
	keys *keys.Service
	svc  *containersvc.Service
	in   string
	data []byte
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	st := store.NewFileStore(filepath.Join(dir, "home"))
	data := make([]byte, 100_000)
	_, err := rand.Read(data)
	require.NoError(t, err)
	in := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(in, data, 0o600))
	return &fixture{
		dir:  dir,
		keys: keys.New(st, st, rand.Reader),
		svc:  containersvc.New(st, st, rand.Reader),
		in:   in,
		data: data,
	}
}

func (f *fixture) path(name string) string { return filepath.Join(f.dir, name) }

func TestPassword_RoundTrip(t *testing.T) {
	f := newFixture(t)
	to := domain.Addressee{Password: "B194BAC80A08F53B", Iter: 10000}
	require.NoError(t, f.svc.Encrypt(f.in, f.path("ct"), to, 1, []byte("ad")))

	info, err := f.svc.Inspect(f.path("ct"))
	require.NoError(t, err)
	require.Equal(t, "pwd", info.Kind)
	require.Equal(t, 10000, info.Iter)
	require.Equal(t, uint(1), info.Itag)

	as := domain.Opener{Password: "B194BAC80A08F53B"}
	require.NoError(t, f.svc.Validate(f.path("ct"), as))
	require.NoError(t, f.svc.Decrypt(f.path("ct"), f.path("out"), as, []byte("ad")))
	got, err := os.ReadFile(f.path("out"))
	require.NoError(t, err)
	require.True(t, bytes.Equal(f.data, got))
}

func TestPassword_WrongPasswordLeavesNoOutput(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.Encrypt(f.in, f.path("ct"), domain.Addressee{Password: "right"}, 0, nil))

	err := f.svc.Decrypt(f.path("ct"), f.path("out"), domain.Opener{Password: "wrong"}, nil)
	require.True(t, errors.Is(err, domain.ErrAuth))
	_, err = os.Stat(f.path("out"))
	require.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestPeer_WithCertificate(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.keys.Generate(pass, "ca", domain.Level128)
	require.NoError(t, err)
	_, _, err = f.keys.Generate(pass, "bob", domain.Level128)
	require.NoError(t, err)
	_, err = f.keys.SelfSign(pass, "ca")
	require.NoError(t, err)
	bobCert, err := f.keys.Issue(pass, "ca", "bob")
	require.NoError(t, err)

	to := domain.Addressee{Peer: "bob", WithCert: true}
	require.NoError(t, f.svc.Encrypt(f.in, f.path("ct"), to, 0, nil))

	info, err := f.svc.Inspect(f.path("ct"))
	require.NoError(t, err)
	require.Equal(t, "pke", info.Kind)
	require.Equal(t, domain.Level128, info.Level)
	require.Equal(t, bobCert, info.Cert)

	as := domain.Opener{Key: "bob", Passphrase: pass, Cert: "bob", Anchor: "ca"}
	require.NoError(t, f.svc.Decrypt(f.path("ct"), f.path("out"), as, nil))
	got, err := os.ReadFile(f.path("out"))
	require.NoError(t, err)
	require.True(t, bytes.Equal(f.data, got))

	// The header certificate must chain to the named anchor.
	as.Anchor = "bob"
	err = f.svc.Validate(f.path("ct"), as)
	require.True(t, errors.Is(err, domain.ErrBadCert))
}

func TestAddressing_Errors(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Encrypt(f.in, f.path("ct"), domain.Addressee{}, 0, nil)
	require.True(t, errors.Is(err, domain.ErrBadInput))
	err = f.svc.Encrypt(f.in, f.path("ct"), domain.Addressee{Password: "x", Peer: "y"}, 0, nil)
	require.True(t, errors.Is(err, domain.ErrBadInput))
	err = f.svc.Validate(f.in, domain.Opener{})
	require.True(t, errors.Is(err, domain.ErrBadInput))
}
