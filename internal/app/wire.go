package app

import (
	"crypto/rand"
	"os"

	"github.com/pkg/errors"

	"bee/internal/domain"
	accsvc "bee/internal/services/accumulator"
	containersvc "bee/internal/services/container"
	keysvc "bee/internal/services/keys"
	sessionsvc "bee/internal/services/session"
	"bee/internal/store"
)

// Wire bundles all stores and services for the CLI.
type Wire struct {
	Config       Config
	Keys         domain.KeyService
	Containers   domain.ContainerService
	Accumulators domain.AccumulatorService
	Sessions     domain.SessionService
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create home directory")
	}

	// File-based stores
	fs := store.NewFileStore(cfg.Home)

	// High-level services
	return &Wire{
		Config:       cfg,
		Keys:         keysvc.New(fs, fs, rand.Reader),
		Containers:   containersvc.New(fs, fs, rand.Reader),
		Accumulators: accsvc.New(fs, fs, rand.Reader),
		Sessions:     sessionsvc.New(fs, fs, rand.Reader),
	}, nil
}
