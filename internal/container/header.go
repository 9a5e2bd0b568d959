package container

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"bee/internal/crypto"
	"bee/internal/der"
	"bee/internal/domain"
)

const (
	keySize     = crypto.KeySize
	kwpOverhead = crypto.KWPOverhead
	minIter     = crypto.MinIter
	maxIter     = 1 << 30

	// MaxItag is the largest intermediate-tag period in MiB.
	MaxItag = 1024
)

// Header is the decoded container header.
type Header struct {
	Keyload Keyload
	IV      []byte
	// Itag is the intermediate-tag period in MiB; zero disables them.
	Itag uint
}

// Encode returns the DER encoding of h.
func (h *Header) Encode() ([]byte, error) {
	if len(h.IV) != crypto.BlockSize {
		return nil, errors.Wrapf(domain.ErrBadInput, "iv of %d octets", len(h.IV))
	}
	if h.Itag > MaxItag {
		return nil, errors.Wrapf(domain.ErrBadParams, "itag of %d MiB", h.Itag)
	}
	body, err := h.Keyload.marshal()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode keyload")
	}
	var b cryptobyte.Builder
	b.AddBytes(der.Encode(h.Keyload.Tag(), body))
	b.AddASN1OctetString(h.IV)
	b.AddASN1Uint64(uint64(h.Itag))
	content, err := b.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode header")
	}
	return der.Encode(TagHeader, content), nil
}

// ParseHeader decodes a DER header.
func ParseHeader(b []byte) (*Header, error) {
	content, rest, err := der.DecodeExpect(TagHeader, b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.Wrap(domain.ErrBadFormat, "trailing octets after header")
	}
	tag, body, fields, err := der.Decode(content)
	if err != nil {
		return nil, err
	}
	kl, err := parseKeyload(tag, body)
	if err != nil {
		return nil, err
	}

	s := cryptobyte.String(fields)
	h := &Header{Keyload: kl}
	var itag uint64
	if !s.ReadASN1Bytes(&h.IV, asn1.OCTET_STRING) || !s.ReadASN1Integer(&itag) || !s.Empty() {
		return nil, errors.Wrap(domain.ErrBadFormat, "malformed header fields")
	}
	if len(h.IV) != crypto.BlockSize || itag > MaxItag {
		return nil, errors.Wrap(domain.ErrBadFormat, "header iv or itag out of range")
	}
	h.Itag = uint(itag)
	return h, nil
}
