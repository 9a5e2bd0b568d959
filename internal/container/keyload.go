package container

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"bee/internal/der"
	"bee/internal/domain"
)

// Application tags of the header and the keyloads.
var (
	TagHeader     = der.Application(78)
	TagKeyloadPKE = der.Application(75)
	TagKeyloadPWD = der.Application(76)
)

// SaltSize is the size of the PBKDF2 salt of a password keyload.
const SaltSize = 8

// Keyload is the part of the header that carries the wrapped session key. It
// is either *KeyloadPKE or *KeyloadPWD.
type Keyload interface {
	Tag() der.Tag
	Kind() string
	marshal() ([]byte, error)
}

// KeyloadPKE carries a session key wrapped to an EC public key, and
// optionally the recipient's certificate.
type KeyloadPKE struct {
	Ekey []byte
	Cert []byte
}

func (*KeyloadPKE) Tag() der.Tag { return TagKeyloadPKE }
func (*KeyloadPKE) Kind() string { return "pke" }

// Level returns the security level implied by the wrapped key size.
func (k *KeyloadPKE) Level() (domain.Level, error) {
	for _, l := range []domain.Level{domain.Level128, domain.Level192, domain.Level256} {
		if len(k.Ekey) == 2*l.No()+keySize+kwpOverhead {
			return l, nil
		}
	}
	return 0, errors.Wrapf(domain.ErrBadFormat, "pke ekey of %d octets", len(k.Ekey))
}

func (k *KeyloadPKE) marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1OctetString(k.Ekey)
	b.AddASN1Int64(int64(len(k.Cert)))
	if len(k.Cert) > 0 {
		b.AddASN1OctetString(k.Cert)
	}
	return b.Bytes()
}

// KeyloadPWD carries a session key wrapped under a password-derived key.
type KeyloadPWD struct {
	Salt []byte
	Iter int
	Ekey []byte
}

func (*KeyloadPWD) Tag() der.Tag { return TagKeyloadPWD }
func (*KeyloadPWD) Kind() string { return "pwd" }

func (k *KeyloadPWD) marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1OctetString(k.Salt)
	b.AddASN1Int64(int64(k.Iter))
	b.AddASN1OctetString(k.Ekey)
	return b.Bytes()
}

func parseKeyload(tag der.Tag, body []byte) (Keyload, error) {
	s := cryptobyte.String(body)
	switch tag {
	case TagKeyloadPKE:
		k := &KeyloadPKE{}
		var certLen int64
		if !s.ReadASN1Bytes(&k.Ekey, asn1.OCTET_STRING) || !s.ReadASN1Integer(&certLen) {
			return nil, errors.Wrap(domain.ErrBadFormat, "malformed pke keyload")
		}
		if certLen > 0 && !s.ReadASN1Bytes(&k.Cert, asn1.OCTET_STRING) {
			return nil, errors.Wrap(domain.ErrBadFormat, "missing keyload certificate")
		}
		if !s.Empty() || certLen < 0 || int64(len(k.Cert)) != certLen {
			return nil, errors.Wrap(domain.ErrBadFormat, "keyload certificate length mismatch")
		}
		if _, err := k.Level(); err != nil {
			return nil, err
		}
		return k, nil
	case TagKeyloadPWD:
		k := &KeyloadPWD{}
		var iter int64
		if !s.ReadASN1Bytes(&k.Salt, asn1.OCTET_STRING) || !s.ReadASN1Integer(&iter) ||
			!s.ReadASN1Bytes(&k.Ekey, asn1.OCTET_STRING) || !s.Empty() {
			return nil, errors.Wrap(domain.ErrBadFormat, "malformed pwd keyload")
		}
		if len(k.Salt) != SaltSize || len(k.Ekey) != keySize+kwpOverhead {
			return nil, errors.Wrap(domain.ErrBadFormat, "pwd keyload field sizes")
		}
		if iter < minIter || iter > maxIter {
			return nil, errors.Wrapf(domain.ErrBadFormat, "pwd keyload with %d iterations", iter)
		}
		k.Iter = int(iter)
		return k, nil
	}
	return nil, errors.Wrapf(domain.ErrBadFormat, "unknown keyload tag %X", uint32(tag))
}
