package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/util/memzero"
)

const (
	keysDir  = "keys"
	certsDir = "certs"
)

// FileStore keeps keys and certificates under a home directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

func (s *FileStore) path(sub, name, ext string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.Wrapf(domain.ErrBadInput, "invalid name %q", name)
	}
	dir := filepath.Join(s.dir, sub)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrap(err, "failed to create store directory")
	}
	return filepath.Join(dir, name+ext), nil
}

// SaveKey seals kp under passphrase and records its public half.
func (s *FileStore) SaveKey(passphrase, name string, kp domain.KeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyPath, err := s.path(keysDir, name, ".key")
	if err != nil {
		return err
	}
	pubPath, err := s.path(keysDir, name, ".pub")
	if err != nil {
		return err
	}
	raw, err := json.Marshal(kp)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)
	N, r, p := scryptParamsDefault()
	ct, err := seal(passphrase, raw, []byte(name), N, r, p)
	if err != nil {
		return err
	}
	if err := writeFile(keyPath, ct, 0o600); err != nil {
		return err
	}
	return writeJSON(pubPath, domain.PublicKey{Name: name, Level: kp.Level, Pub: kp.Pub}, 0o644)
}

// LoadKey reads and opens the key pair called name.
func (s *FileStore) LoadKey(passphrase, name string) (domain.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyPath, err := s.path(keysDir, name, ".key")
	if err != nil {
		return domain.KeyPair{}, err
	}
	b, err := os.ReadFile(keyPath)
	if err != nil {
		return domain.KeyPair{}, errors.Wrapf(err, "failed to read key %q", name)
	}
	pt, err := open(passphrase, b, []byte(name))
	if err != nil {
		return domain.KeyPair{}, err
	}
	defer memzero.Zero(pt)
	var kp domain.KeyPair
	if err := json.Unmarshal(pt, &kp); err != nil {
		return domain.KeyPair{}, errors.Wrap(domain.ErrBadFormat, err.Error())
	}
	return kp, nil
}

// LoadPublic reads the public half of the key called name.
func (s *FileStore) LoadPublic(name string) (domain.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pubPath, err := s.path(keysDir, name, ".pub")
	if err != nil {
		return domain.PublicKey{}, err
	}
	var pk domain.PublicKey
	if err := readJSON(pubPath, &pk); err != nil {
		return domain.PublicKey{}, errors.Wrapf(err, "failed to read public key %q", name)
	}
	return pk, nil
}

// SaveCert stores a DER certificate under name.
func (s *FileStore) SaveCert(name string, der []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.path(certsDir, name, ".der")
	if err != nil {
		return err
	}
	return writeFile(p, der, 0o644)
}

// LoadCert reads the certificate called name.
func (s *FileStore) LoadCert(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.path(certsDir, name, ".der")
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read certificate %q", name)
	}
	return b, nil
}

// Compile-time assertions that FileStore implements the domain stores.
var (
	_ domain.KeyStore  = (*FileStore)(nil)
	_ domain.CertStore = (*FileStore)(nil)
)
