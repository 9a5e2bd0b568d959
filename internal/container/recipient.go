package container

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/protocol/bake"
	"bee/internal/util/memzero"
)

var kwpHeader [crypto.KWPHeaderSize]byte

// Recipient wraps a session key into a keyload.
type Recipient interface {
	wrap(key []byte, rng io.Reader) (Keyload, error)
}

// Credentials unwrap a session key from a keyload.
type Credentials interface {
	unwrap(kl Keyload, rng io.Reader) ([]byte, error)
	// check compares caller expectations with the keyload after a
	// successful unwrap.
	check(kl Keyload) error
}

// PKERecipient addresses a container to the holder of an EC public key.
type PKERecipient struct {
	PubKey []byte
	// Cert is carried verbatim in the header when set.
	Cert []byte
}

func (r PKERecipient) wrap(key []byte, rng io.Reader) (Keyload, error) {
	level, err := domain.LevelOfPubkey(r.PubKey)
	if err != nil {
		return nil, err
	}
	ekey, err := ec.MustStandard(level).KeyWrap(key, r.PubKey, rng)
	if err != nil {
		return nil, err
	}
	return &KeyloadPKE{Ekey: ekey, Cert: append([]byte(nil), r.Cert...)}, nil
}

// PWDRecipient addresses a container to the holders of a password.
type PWDRecipient struct {
	Password []byte
	// Iter is the PBKDF2 iteration count; zero means crypto.MinIter.
	Iter int
}

func (r PWDRecipient) wrap(key []byte, rng io.Reader) (Keyload, error) {
	iter := r.Iter
	if iter == 0 {
		iter = minIter
	}
	if iter < minIter || iter > maxIter {
		return nil, errors.Wrapf(domain.ErrBadParams, "pbkdf2 with %d iterations", iter)
	}
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rng, salt); err != nil {
		return nil, errors.Wrap(domain.ErrBadRng, err.Error())
	}
	kek, err := crypto.PBKDF2(r.Password, salt, iter)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(kek)
	ekey, err := crypto.KWPWrap(kek, key, kwpHeader[:])
	if err != nil {
		return nil, err
	}
	return &KeyloadPWD{Salt: salt, Iter: iter, Ekey: ekey}, nil
}

// PKECredentials unwrap PKE keyloads with a private key.
type PKECredentials struct {
	PrivKey []byte
	// Cert, when set, must be byte-identical to the certificate carried in
	// the header (if any).
	Cert []byte
	// Validator, when set, extracts the public key of the carried certificate,
	// which must match PrivKey.
	Validator bake.CertValidator
}

func (c PKECredentials) unwrap(kl Keyload, rng io.Reader) ([]byte, error) {
	k, ok := kl.(*KeyloadPKE)
	if !ok {
		return nil, errors.Wrapf(domain.ErrBadInput, "pke credentials for a %s keyload", kl.Kind())
	}
	level, err := k.Level()
	if err != nil {
		return nil, err
	}
	if want, err := domain.LevelOfPrivkey(c.PrivKey); err != nil || want != level {
		return nil, errors.Wrap(domain.ErrBadPrivkey, "private key does not match keyload level")
	}
	curve := ec.MustStandard(level)
	if len(k.Cert) > 0 && c.Validator != nil {
		pub, err := c.Validator(curve, k.Cert)
		if err != nil {
			return nil, errors.Wrap(domain.ErrBadCert, err.Error())
		}
		if err := curve.ValidateKeypair(c.PrivKey, pub); err != nil {
			return nil, errors.Wrap(domain.ErrBadCert, "certificate does not carry our public key")
		}
	}
	key, err := curve.KeyUnwrap(k.Ekey, c.PrivKey, rng)
	if err != nil {
		if errors.Is(err, domain.ErrBadRng) {
			return nil, err
		}
		return nil, errors.Wrap(domain.ErrAuth, err.Error())
	}
	return key, nil
}

func (c PKECredentials) check(kl Keyload) error {
	k, ok := kl.(*KeyloadPKE)
	if !ok || c.Cert == nil || len(k.Cert) == 0 {
		return nil
	}
	if !bytes.Equal(c.Cert, k.Cert) {
		return errors.Wrap(domain.ErrBadCert, "container addressed to another certificate")
	}
	return nil
}

// PWDCredentials unwrap PWD keyloads with a password.
type PWDCredentials struct {
	Password []byte
}

func (c PWDCredentials) unwrap(kl Keyload, _ io.Reader) ([]byte, error) {
	k, ok := kl.(*KeyloadPWD)
	if !ok {
		return nil, errors.Wrapf(domain.ErrBadInput, "pwd credentials for a %s keyload", kl.Kind())
	}
	kek, err := crypto.PBKDF2(c.Password, k.Salt, k.Iter)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(kek)
	return crypto.KWPUnwrap(kek, k.Ekey, kwpHeader[:])
}

func (PWDCredentials) check(Keyload) error { return nil }
