package crypto

import (
	"crypto/cipher"

	"github.com/oasisprotocol/deoxysii"
	"github.com/pkg/errors"

	"bee/internal/domain"
)

const (
	// KWPHeaderSize is the size of the key-wrap header in octets.
	KWPHeaderSize = 16
	// KWPOverhead is the number of octets KWPWrap adds to its input.
	KWPOverhead = deoxysii.TagSize
)

var kwpNonce [deoxysii.NonceSize]byte

// KWPWrap wraps data under key with the given 16-octet header. The wrap is
// deterministic and authenticates both data and header.
func KWPWrap(key, data, header []byte) ([]byte, error) {
	aead, err := newKWP(key, header)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, kwpNonce[:], data, header), nil
}

// KWPUnwrap inverts KWPWrap. A modified blob or a wrong key or header yields
// domain.ErrAuth.
func KWPUnwrap(key, blob, header []byte) ([]byte, error) {
	if len(blob) < KWPOverhead {
		return nil, errors.Wrapf(domain.ErrBadInput, "wrapped key of %d octets", len(blob))
	}
	aead, err := newKWP(key, header)
	if err != nil {
		return nil, err
	}
	data, err := aead.Open(nil, kwpNonce[:], blob, header)
	if err != nil {
		return nil, errors.Wrap(domain.ErrAuth, "key unwrap")
	}
	return data, nil
}

func newKWP(key, header []byte) (cipher.AEAD, error) {
	if len(header) != KWPHeaderSize {
		return nil, errors.Wrapf(domain.ErrBadInput, "kwp header of %d octets", len(header))
	}
	if len(key) != KeySize {
		return nil, errors.Wrapf(domain.ErrBadInput, "kwp key of %d octets", len(key))
	}
	aead, err := deoxysii.New(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to key wrap cipher")
	}
	return aead, nil
}
