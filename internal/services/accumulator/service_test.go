package accumulator_test

import (
	"context"
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bee/internal/domain"
	accsvc "bee/internal/services/accumulator"
	"bee/internal/services/keys"
	"bee/internal/store"
)

const pass = "Str0ng-Passphrase!"

func ref(name string) domain.KeyRef { return domain.KeyRef{Name: name, Passphrase: pass} }

func setup(t *testing.T) (*accsvc.Service, string) {
	dir := t.TempDir()
	st := store.NewFileStore(filepath.Join(dir, "home"))
	ks := keys.New(st, st, rand.Reader)
	for _, n := range []string{"ca", "op", "m1", "m2"} {
		_, _, err := ks.Generate(pass, n, domain.Level128)
		require.NoError(t, err)
	}
	_, _, err := ks.Generate(pass, "big", domain.Level192)
	require.NoError(t, err)
	_, err = ks.SelfSign(pass, "ca")
	require.NoError(t, err)
	_, err = ks.Issue(pass, "ca", "op")
	require.NoError(t, err)
	return accsvc.New(st, st, rand.Reader), filepath.Join(dir, "acc.bin")
}

func TestLifecycle(t *testing.T) {
	svc, path := setup(t)
	ctx := context.Background()
	name := []byte("club")

	require.NoError(t, svc.Init(path, domain.Level128, name))
	require.Error(t, svc.Init(path, domain.Level128, name))

	require.NoError(t, svc.Add(path, ref("m1"), ref("op"), []string{"op"}))
	require.NoError(t, svc.Add(path, ref("m2"), ref("ca"), nil))
	require.NoError(t, svc.Validate(ctx, path, name, "ca", 2))

	pub, proof, err := svc.Prove(path, ref("m2"), []byte("ad"))
	require.NoError(t, err)
	der, err := svc.Der(path, ref("m2"))
	require.NoError(t, err)
	require.Equal(t, der, pub)

	require.NoError(t, svc.Verify(path, pub, []byte("ad"), proof))
	err = svc.Verify(path, pub, []byte("other"), proof)
	require.True(t, errors.Is(err, domain.ErrAuth))

	// A member added later changes the accumulator and the old proof stops verifying.
	_, _, err = svc.Prove(path, ref("m1"), nil)
	require.NoError(t, err)
	require.NoError(t, svc.Add(path, ref("op"), ref("ca"), nil))
	err = svc.Verify(path, pub, []byte("ad"), proof)
	require.Error(t, err)
}

func TestAdd_LevelMismatch(t *testing.T) {
	svc, path := setup(t)
	require.NoError(t, svc.Init(path, domain.Level128, nil))
	err := svc.Add(path, ref("big"), ref("ca"), nil)
	require.True(t, errors.Is(err, domain.ErrBadInput))
}

func TestValidate_WrongAnchor(t *testing.T) {
	svc, path := setup(t)
	require.NoError(t, svc.Init(path, domain.Level128, nil))
	require.NoError(t, svc.Add(path, ref("m1"), ref("ca"), nil))

	err := svc.Validate(context.Background(), path, nil, "op", 1)
	require.Error(t, err)
}
