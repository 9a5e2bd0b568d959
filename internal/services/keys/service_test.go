package keys_test

import (
	"crypto/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/cert"
	"bee/internal/domain"
	"bee/internal/services/keys"
	"bee/internal/store"
)

const pass = "Str0ng-Passphrase!"

func newService(t *testing.T) *keys.Service {
	st := store.NewFileStore(t.TempDir())
	return keys.New(st, st, rand.Reader)
}

func TestGenerate_RejectsWeakPassphrase(t *testing.T) {
	svc := newService(t)
	_, _, err := svc.Generate("short", "alice", domain.Level128)
	require.Equal(t, keys.ErrWeakPassphrase, err)
}

func TestGenerate_PublicAndFingerprint(t *testing.T) {
	svc := newService(t)
	pk, fp, err := svc.Generate(pass, "alice", domain.Level192)
	require.NoError(t, err)
	require.Equal(t, domain.Level192, pk.Level)
	require.Len(t, pk.Pub, 2*domain.Level192.No())
	require.Len(t, string(fp), 20)

	got, err := svc.Public("alice")
	require.NoError(t, err)
	require.Equal(t, pk, got)

	fp2, err := svc.Fingerprint("alice")
	require.NoError(t, err)
	require.Equal(t, fp, fp2)
}

func TestCertificates(t *testing.T) {
	svc := newService(t)
	_, _, err := svc.Generate(pass, "ca", domain.Level128)
	require.NoError(t, err)
	_, _, err = svc.Generate(pass, "bob", domain.Level128)
	require.NoError(t, err)

	rootDER, err := svc.SelfSign(pass, "ca")
	require.NoError(t, err)
	bobDER, err := svc.Issue(pass, "ca", "bob")
	require.NoError(t, err)

	stored, err := svc.Cert("bob")
	require.NoError(t, err)
	require.Equal(t, bobDER, stored)

	root, err := cert.Parse(rootDER)
	require.NoError(t, err)
	bob, err := cert.Parse(bobDER)
	require.NoError(t, err)
	require.True(t, root.IsRoot())
	require.NoError(t, bob.CheckSignature(root))
	require.Equal(t, "bob", bob.Holder)
	require.Equal(t, "ca", bob.Issuer)
}

func TestIssue_LevelMismatch(t *testing.T) {
	svc := newService(t)
	_, _, err := svc.Generate(pass, "ca", domain.Level128)
	require.NoError(t, err)
	_, _, err = svc.Generate(pass, "carol", domain.Level256)
	require.NoError(t, err)

	_, err = svc.Issue(pass, "ca", "carol")
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestSelfSign_WrongPassphrase(t *testing.T) {
	svc := newService(t)
	_, _, err := svc.Generate(pass, "ca", domain.Level128)
	require.NoError(t, err)
	_, err = svc.SelfSign("Other-Passphrase1", "ca")
	require.True(t, errors.Is(err, domain.ErrAuth))
}

func TestImportCert(t *testing.T) {
	src := newService(t)
	_, _, err := src.Generate(pass, "ca", domain.Level128)
	require.NoError(t, err)
	der, err := src.SelfSign(pass, "ca")
	require.NoError(t, err)

	dst := newService(t)
	require.NoError(t, dst.ImportCert("their-ca", der))
	got, err := dst.Cert("their-ca")
	require.NoError(t, err)
	require.Equal(t, der, got)

	err = dst.ImportCert("junk", []byte{0x30, 0x01})
	require.Error(t, err)
}
