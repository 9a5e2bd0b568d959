package accumulator

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"bee/internal/cert"
	"bee/internal/domain"
	"bee/internal/ec"
)

// Entry is one record of the accumulator file.
type Entry struct {
	Acc    []byte
	PrvAdd []byte
	Sig    []byte
}

// Encode returns the DER encoding of e.
func (e *Entry) Encode() ([]byte, error) {
	if (e.PrvAdd == nil) != (e.Sig == nil) {
		return nil, errors.Wrap(domain.ErrBadInput, "entry needs both proof and signature or neither")
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1OctetString(e.Acc)
		if e.PrvAdd != nil {
			b.AddASN1OctetString(e.PrvAdd)
			b.AddASN1OctetString(e.Sig)
		}
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode entry")
	}
	return out, nil
}

// ParseEntry decodes one DER entry.
func ParseEntry(der []byte) (*Entry, error) {
	in := cryptobyte.String(der)
	var body cryptobyte.String
	if !in.ReadASN1(&body, asn1.SEQUENCE) || !in.Empty() {
		return nil, errors.Wrap(domain.ErrBadFormat, "malformed entry")
	}
	e := &Entry{}
	if !body.ReadASN1Bytes(&e.Acc, asn1.OCTET_STRING) {
		return nil, errors.Wrap(domain.ErrBadFormat, "entry without accumulator")
	}
	if !body.Empty() {
		if !body.ReadASN1Bytes(&e.PrvAdd, asn1.OCTET_STRING) ||
			!body.ReadASN1Bytes(&e.Sig, asn1.OCTET_STRING) || !body.Empty() {
			return nil, errors.Wrap(domain.ErrBadFormat, "malformed entry proof or signature")
		}
	}
	return e, nil
}

// NewEntry adds priv to the accumulator prev, proves the addition and signs
// the result with signerPriv. chain lists the DER certificates from just
// below the trust anchor down to the signer's; it may be empty when the
// anchor itself signs.
func NewEntry(l domain.Level, prev, priv, signerPriv []byte, chain [][]byte, rng io.Reader) (*Entry, error) {
	next, err := Add(l, prev, priv)
	if err != nil {
		return nil, err
	}
	proof, err := ProveAdd(l, prev, next, priv, rng)
	if err != nil {
		return nil, err
	}
	sig, err := SignEntry(next, proof, signerPriv, chain, rng)
	if err != nil {
		return nil, err
	}
	return &Entry{Acc: next, PrvAdd: proof, Sig: sig}, nil
}

// SignEntry signs acc || prvAdd and packs the signature with the signer's
// certificate chain:
//
//	SEQUENCE { SEQUENCE OF Certificate, OCTET STRING sig }
func SignEntry(acc, prvAdd, signerPriv []byte, chain [][]byte, rng io.Reader) ([]byte, error) {
	level, err := domain.LevelOfPrivkey(signerPriv)
	if err != nil {
		return nil, err
	}
	c, err := ec.Standard(level)
	if err != nil {
		return nil, err
	}
	sig, err := c.Sign(signerPriv, signedData(acc, prvAdd), rng)
	if err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			for _, crt := range chain {
				b.AddBytes(crt)
			}
		})
		b.AddASN1OctetString(sig)
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode entry signature")
	}
	return out, nil
}

// VerifyEntrySig checks the signature blob of an entry against anchor.
func VerifyEntrySig(anchor *cert.Cert, acc, prvAdd, blob []byte) error {
	in := cryptobyte.String(blob)
	var body, chainBody cryptobyte.String
	var sig []byte
	if !in.ReadASN1(&body, asn1.SEQUENCE) || !in.Empty() ||
		!body.ReadASN1(&chainBody, asn1.SEQUENCE) ||
		!body.ReadASN1Bytes(&sig, asn1.OCTET_STRING) || !body.Empty() {
		return errors.Wrap(domain.ErrAuth, "malformed entry signature")
	}
	var chain []*cert.Cert
	for !chainBody.Empty() {
		var raw cryptobyte.String
		if !chainBody.ReadASN1Element(&raw, asn1.SEQUENCE) {
			return errors.Wrap(domain.ErrBadCert, "malformed certificate in signature")
		}
		crt, err := cert.Parse(raw)
		if err != nil {
			return errors.Wrap(domain.ErrBadCert, err.Error())
		}
		chain = append(chain, crt)
	}
	signer, err := cert.VerifyChain(anchor, chain)
	if err != nil {
		return err
	}
	c, err := ec.Standard(signer.Level)
	if err != nil {
		return errors.Wrap(domain.ErrBadCert, err.Error())
	}
	return c.Verify(signer.PubKey, signedData(acc, prvAdd), sig)
}

func signedData(acc, prvAdd []byte) []byte {
	out := make([]byte, 0, len(acc)+len(prvAdd))
	out = append(out, acc...)
	return append(out, prvAdd...)
}
