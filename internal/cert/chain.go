package cert

import (
	"github.com/pkg/errors"

	"bee/internal/domain"
	"bee/internal/ec"
)

// VerifyChain checks that chain[0] was issued by anchor and each following
// certificate by its predecessor. It returns the leaf, or anchor itself for an
// empty chain.
func VerifyChain(anchor *Cert, chain []*Cert) (*Cert, error) {
	if anchor == nil {
		return nil, errors.Wrap(domain.ErrBadCert, "no trust anchor")
	}
	issuer := anchor
	for _, c := range chain {
		if err := c.CheckSignature(issuer); err != nil {
			return nil, err
		}
		issuer = c
	}
	return issuer, nil
}

// ParseChain decodes a list of DER certificates.
func ParseChain(ders [][]byte) ([]*Cert, error) {
	out := make([]*Cert, 0, len(ders))
	for _, d := range ders {
		c, err := Parse(d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Validator returns a function that accepts DER certificates issued directly
// by anchor for a key on the given curve, and returns the embedded public key.
func Validator(anchor *Cert) func(curve *ec.Curve, der []byte) ([]byte, error) {
	return func(curve *ec.Curve, der []byte) ([]byte, error) {
		c, err := Parse(der)
		if err != nil {
			return nil, errors.Wrap(domain.ErrBadCert, err.Error())
		}
		if c.Level != curve.Level {
			return nil, errors.Wrapf(domain.ErrBadCert, "certificate level %d on a level %d curve", int(c.Level), int(curve.Level))
		}
		if err := c.CheckSignature(anchor); err != nil {
			return nil, err
		}
		if _, err := curve.DecodePubkey(c.PubKey); err != nil {
			return nil, errors.Wrap(domain.ErrBadCert, err.Error())
		}
		return append([]byte(nil), c.PubKey...), nil
	}
}
