package app

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"bee/internal/crypto"
	"bee/internal/domain"
)

// Configuration keys. Command-line flags bind to the same names.
const (
	HomeKey     = "home"
	LevelKey    = "level"
	IterKey     = "iter"
	ItagKey     = "itag"
	WorkersKey  = "workers"
	LogLevelKey = "logLevel"
	LogKey      = "log"
)

// EnvPrefix prefixes environment variables, e.g. BEE_HOME.
const EnvPrefix = "BEE"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string       // state directory, e.g. $HOME/.bee
	Level    domain.Level // default security level for new keys and accumulators
	Iter     int          // default PBKDF2 iteration count for password containers
	Itag     uint         // default intermediate tag period in MiB, 0 for none
	Workers  int          // accumulator validation workers, 0 for one per CPU
	LogLevel uint         // 0 warn, 1 info, 2 debug, 3 and above trace
	LogPath  string       // log file; empty or "-" logs to stderr
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(LevelKey, int(domain.Level128))
	v.SetDefault(IterKey, crypto.MinIter)
	v.SetDefault(ItagKey, 0)
	v.SetDefault(WorkersKey, 0)
	v.SetDefault(LogLevelKey, 0)
	v.SetDefault(LogKey, "-")
}

// LoadConfig resolves the home directory, merges <home>/config.yaml if it
// exists and returns the effective configuration.
func LoadConfig(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	home := v.GetString(HomeKey)
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to locate home directory")
		}
		home = filepath.Join(dir, ".bee")
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := Config{
		Home:     home,
		Level:    domain.Level(v.GetInt(LevelKey)),
		Iter:     v.GetInt(IterKey),
		Itag:     v.GetUint(ItagKey),
		Workers:  v.GetInt(WorkersKey),
		LogLevel: v.GetUint(LogLevelKey),
		LogPath:  v.GetString(LogKey),
	}
	if err := cfg.Level.Check(); err != nil {
		return Config{}, err
	}
	if cfg.Iter < crypto.MinIter {
		return Config{}, errors.Wrapf(domain.ErrBadParams, "iter %d is below %d", cfg.Iter, crypto.MinIter)
	}
	return cfg, nil
}
