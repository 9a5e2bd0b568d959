package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"bee/internal/app"
	"bee/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	v := viper.New()
	v.Set(app.HomeKey, home)

	cfg, err := app.LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home)
	require.Equal(t, domain.Level128, cfg.Level)
	require.Equal(t, 10000, cfg.Iter)
	require.Equal(t, uint(0), cfg.Itag)
	require.Equal(t, "-", cfg.LogPath)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("level: 192\nitag: 4\niter: 50000\n"), 0o600))
	t.Setenv("BEE_HOME", home)
	t.Setenv("BEE_ITER", "20000")

	cfg, err := app.LoadConfig(viper.New())
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home)
	require.Equal(t, domain.Level192, cfg.Level)
	require.Equal(t, uint(4), cfg.Itag)
	require.Equal(t, 20000, cfg.Iter)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	v := viper.New()
	v.Set(app.HomeKey, t.TempDir())
	v.Set(app.LevelKey, 100)
	_, err := app.LoadConfig(v)
	require.True(t, errors.Is(err, domain.ErrBadParams))

	v = viper.New()
	v.Set(app.HomeKey, t.TempDir())
	v.Set(app.IterKey, 10)
	_, err = app.LoadConfig(v)
	require.True(t, errors.Is(err, domain.ErrBadParams))
}

func TestNewWire_CreatesHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested", "home")
	w, err := app.NewWire(app.Config{Home: home, Level: domain.Level128})
	require.NoError(t, err)
	require.NotNil(t, w.Keys)
	require.NotNil(t, w.Sessions)
	info, err := os.Stat(home)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestInitLog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bee.log")
	c, err := app.InitLog(1, path)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	_, err = os.Stat(path)
	require.NoError(t, err)

	c, err = app.InitLog(0, "-")
	require.NoError(t, err)
	require.NoError(t, c.Close())
}
