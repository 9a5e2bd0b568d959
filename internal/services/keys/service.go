package keys

import (
	"fmt"
	"io"
	"unicode"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"bee/internal/cert"
	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/util/memzero"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12

	logHeader = "keys"
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service generates, stores and certifies key pairs.
type Service struct {
	keys  domain.KeyStore
	certs domain.CertStore
	rng   io.Reader
}

// New returns a key service backed by the given stores. rng feeds key
// generation and signatures.
func New(ks domain.KeyStore, cs domain.CertStore, rng io.Reader) *Service {
	return &Service{keys: ks, certs: cs, rng: rng}
}

// Generate creates a key pair of level l, saves it under name encrypted with
// the passphrase, and returns its public half plus a short fingerprint.
func (s *Service) Generate(passphrase, name string, l domain.Level) (domain.PublicKey, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.PublicKey{}, "", ErrWeakPassphrase
	}
	curve, err := ec.Standard(l)
	if err != nil {
		return domain.PublicKey{}, "", err
	}
	priv, pub, err := curve.GenerateKey(s.rng)
	if err != nil {
		return domain.PublicKey{}, "", err
	}
	defer memzero.Zero(priv)

	if err := s.keys.SaveKey(passphrase, name, domain.KeyPair{Level: l, Priv: priv, Pub: pub}); err != nil {
		return domain.PublicKey{}, "", err
	}
	jww.INFO.Printf("[%s] Generated level %d key %q", logHeader, int(l), name)
	return domain.PublicKey{Name: name, Level: l, Pub: pub}, domain.Fingerprint(crypto.Fingerprint(pub)), nil
}

// Public returns the public half of the key called name.
func (s *Service) Public(name string) (domain.PublicKey, error) {
	return s.keys.LoadPublic(name)
}

// Fingerprint returns a short fingerprint of the public key called name.
func (s *Service) Fingerprint(name string) (domain.Fingerprint, error) {
	pk, err := s.keys.LoadPublic(name)
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint(pk.Pub)), nil
}

// SelfSign issues and stores a root certificate for the key called name.
func (s *Service) SelfSign(passphrase, name string) ([]byte, error) {
	kp, err := s.keys.LoadKey(passphrase, name)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(kp.Priv)

	c, err := cert.SelfSigned(name, kp.Priv, kp.Pub, s.rng)
	if err != nil {
		return nil, err
	}
	der := c.Encode()
	if err := s.certs.SaveCert(name, der); err != nil {
		return nil, err
	}
	jww.INFO.Printf("[%s] Self-signed certificate for %q", logHeader, name)
	return der, nil
}

// Issue signs the public key of holder with the private key of issuer and
// stores the certificate under the holder's name.
func (s *Service) Issue(passphrase, issuer, holder string) ([]byte, error) {
	kp, err := s.keys.LoadKey(passphrase, issuer)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(kp.Priv)

	pk, err := s.keys.LoadPublic(holder)
	if err != nil {
		return nil, err
	}
	if pk.Level != kp.Level {
		return nil, errors.Wrapf(domain.ErrBadInput, "issuer level %d, holder level %d", int(kp.Level), int(pk.Level))
	}
	c, err := cert.Issue(issuer, kp.Priv, holder, pk.Pub, s.rng)
	if err != nil {
		return nil, err
	}
	der := c.Encode()
	if err := s.certs.SaveCert(holder, der); err != nil {
		return nil, err
	}
	jww.INFO.Printf("[%s] %q issued a certificate for %q", logHeader, issuer, holder)
	return der, nil
}

// Cert returns the stored certificate of name.
func (s *Service) Cert(name string) ([]byte, error) {
	return s.certs.LoadCert(name)
}

// ImportCert checks that der is a well-formed certificate and stores it
// under name.
func (s *Service) ImportCert(name string, der []byte) error {
	c, err := cert.Parse(der)
	if err != nil {
		return err
	}
	if err := s.certs.SaveCert(name, c.Encode()); err != nil {
		return err
	}
	jww.INFO.Printf("[%s] Imported certificate of %q as %q", logHeader, c.Holder, name)
	return nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.KeyService.
var _ domain.KeyService = (*Service)(nil)
