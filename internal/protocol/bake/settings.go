package bake

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/ec"
)

// Settings are the per-session options both parties agree on out of band.
type Settings struct {
	// Helloa and Hellob are optional strings contributed by A and B; they are
	// bound into the session key.
	Helloa []byte
	Hellob []byte
	// Kca and Kcb request key confirmation by A and by B.
	Kca bool
	Kcb bool
	// Rng is the random source. Nil means crypto/rand.
	Rng io.Reader
}

// Random returns the configured random source.
func (s Settings) Random() io.Reader {
	if s.Rng == nil {
		return rand.Reader
	}
	return s.Rng
}

// CertValidator checks certificate data against curve parameters and returns
// the public key it carries.
type CertValidator func(c *ec.Curve, data []byte) ([]byte, error)

// Cert is a certificate handle: opaque data plus the function that validates it.
type Cert struct {
	Data     []byte
	Validate CertValidator
}

// PublicKey validates the certificate and decodes its public key.
func (c Cert) PublicKey(curve *ec.Curve) (ec.Point, error) {
	if c.Validate == nil {
		return ec.Point{}, errors.Wrap(domain.ErrBadCert, "no certificate validator")
	}
	pub, err := c.Validate(curve, c.Data)
	if err != nil {
		if errors.Is(err, domain.ErrBadCert) {
			return ec.Point{}, err
		}
		return ec.Point{}, errors.Wrap(domain.ErrBadCert, err.Error())
	}
	q, err := curve.DecodePubkey(pub)
	if err != nil {
		return ec.Point{}, errors.Wrap(domain.ErrBadCert, err.Error())
	}
	return q, nil
}

// RawCert is a validator for certificates that consist of the bare public key.
func RawCert(c *ec.Curve, data []byte) ([]byte, error) {
	if _, err := c.DecodePubkey(data); err != nil {
		return nil, errors.Wrap(domain.ErrBadCert, err.Error())
	}
	return append([]byte(nil), data...), nil
}

// NewRawCert wraps a public key as a RawCert handle.
func NewRawCert(pub []byte) Cert {
	return Cert{Data: append([]byte(nil), pub...), Validate: RawCert}
}
