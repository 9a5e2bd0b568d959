package cert

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"bee/internal/domain"
	"bee/internal/ec"
)

// Cert is a parsed certificate.
type Cert struct {
	Holder string
	Issuer string
	Level  domain.Level
	PubKey []byte
	Sig    []byte

	raw []byte
	tbs []byte
}

// Issue creates a certificate for holderPub signed by the issuer's private key.
func Issue(issuer string, issuerPriv []byte, holder string, holderPub []byte, rng io.Reader) (*Cert, error) {
	level, err := domain.LevelOfPubkey(holderPub)
	if err != nil {
		return nil, err
	}
	holderCurve := ec.MustStandard(level)
	if _, err := holderCurve.DecodePubkey(holderPub); err != nil {
		return nil, err
	}
	issuerLevel, err := domain.LevelOfPrivkey(issuerPriv)
	if err != nil {
		return nil, err
	}

	c := &Cert{Holder: holder, Issuer: issuer, Level: level, PubKey: append([]byte(nil), holderPub...)}
	c.tbs, err = c.marshalTBS()
	if err != nil {
		return nil, err
	}
	c.Sig, err = ec.MustStandard(issuerLevel).Sign(issuerPriv, c.tbs, rng)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign certificate")
	}
	c.raw, err = c.marshal()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SelfSigned creates a root certificate for the key pair (priv, pub).
func SelfSigned(name string, priv, pub []byte, rng io.Reader) (*Cert, error) {
	level, err := domain.LevelOfPrivkey(priv)
	if err != nil {
		return nil, err
	}
	if err := ec.MustStandard(level).ValidateKeypair(priv, pub); err != nil {
		return nil, err
	}
	return Issue(name, priv, name, pub, rng)
}

// Parse decodes a DER certificate. Structural errors yield domain.ErrBadFormat.
func Parse(der []byte) (*Cert, error) {
	input := cryptobyte.String(der)
	var body, tbs cryptobyte.String
	var sig []byte
	if !input.ReadASN1(&body, asn1.SEQUENCE) || !input.Empty() ||
		!body.ReadASN1Element(&tbs, asn1.SEQUENCE) ||
		!body.ReadASN1Bytes(&sig, asn1.OCTET_STRING) || !body.Empty() {
		return nil, errors.Wrap(domain.ErrBadFormat, "malformed certificate")
	}
	c := &Cert{Sig: sig, raw: append([]byte(nil), der...), tbs: append([]byte(nil), tbs...)}

	var fields, holder, issuer cryptobyte.String
	var level int64
	if !tbs.ReadASN1(&fields, asn1.SEQUENCE) ||
		!fields.ReadASN1(&holder, asn1.UTF8String) ||
		!fields.ReadASN1(&issuer, asn1.UTF8String) ||
		!fields.ReadASN1Integer(&level) ||
		!fields.ReadASN1Bytes(&c.PubKey, asn1.OCTET_STRING) || !fields.Empty() {
		return nil, errors.Wrap(domain.ErrBadFormat, "malformed certificate body")
	}
	c.Holder, c.Issuer, c.Level = string(holder), string(issuer), domain.Level(level)
	if err := c.Level.Check(); err != nil {
		return nil, errors.Wrap(domain.ErrBadCert, err.Error())
	}
	if len(c.PubKey) != 2*c.Level.No() {
		return nil, errors.Wrapf(domain.ErrBadCert, "public key of %d octets", len(c.PubKey))
	}
	return c, nil
}

// Encode returns the DER encoding.
func (c *Cert) Encode() []byte { return append([]byte(nil), c.raw...) }

// IsRoot reports whether c is self-issued.
func (c *Cert) IsRoot() bool { return c.Holder == c.Issuer }

// CheckSignature verifies that issuer signed c.
func (c *Cert) CheckSignature(issuer *Cert) error {
	if c.Issuer != issuer.Holder {
		return errors.Wrapf(domain.ErrBadCert, "certificate of %q not issued by %q", c.Holder, issuer.Holder)
	}
	curve, err := ec.Standard(issuer.Level)
	if err != nil {
		return errors.Wrap(domain.ErrBadCert, err.Error())
	}
	if err := curve.Verify(issuer.PubKey, c.tbs, c.Sig); err != nil {
		return errors.Wrapf(domain.ErrBadCert, "signature of %q: %v", c.Holder, err)
	}
	return nil
}

func (c *Cert) marshalTBS() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.UTF8String, func(b *cryptobyte.Builder) { b.AddBytes([]byte(c.Holder)) })
		b.AddASN1(asn1.UTF8String, func(b *cryptobyte.Builder) { b.AddBytes([]byte(c.Issuer)) })
		b.AddASN1Int64(int64(c.Level))
		b.AddASN1OctetString(c.PubKey)
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode certificate body")
	}
	return out, nil
}

func (c *Cert) marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddBytes(c.tbs)
		b.AddASN1OctetString(c.Sig)
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode certificate")
	}
	return out, nil
}
