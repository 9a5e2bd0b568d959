package bake

import (
	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
)

// State is the position of a session in its step sequence.
type State int

const (
	Started State = iota
	Sent2
	Sent3
	Sent4
	Sent5
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Started:
		return "started"
	case Sent2:
		return "sent2"
	case Sent3:
		return "sent3"
	case Sent4:
		return "sent4"
	case Sent5:
		return "sent5"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Expect returns domain.ErrBadLogic unless s equals want.
func (s State) Expect(step string, want State) error {
	if s != want {
		return errors.Wrapf(domain.ErrBadLogic, "%s called in state %s", step, s)
	}
	return nil
}

var (
	tagSuffixA = make([]byte, crypto.BlockSize)
	tagSuffixB = []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
)

// TagSize is the size of confirmation tags.
const TagSize = crypto.MACSize

// TagA returns A's confirmation tag MAC_K1(y || 0^128).
func TagA(k1, y []byte) ([]byte, error) { return crypto.MAC(k1, y, tagSuffixA) }

// TagB returns B's confirmation tag MAC_K1(y || 1^128).
func TagB(k1, y []byte) ([]byte, error) { return crypto.MAC(k1, y, tagSuffixB) }

// CheckTagA verifies A's confirmation tag.
func CheckTagA(k1, y, tag []byte) error { return checkTag(k1, y, tagSuffixA, tag) }

// CheckTagB verifies B's confirmation tag.
func CheckTagB(k1, y, tag []byte) error { return checkTag(k1, y, tagSuffixB, tag) }

func checkTag(k1, y, suffix, tag []byte) error {
	if len(tag) != TagSize {
		return errors.Wrapf(domain.ErrBadInput, "tag of %d octets", len(tag))
	}
	ok, err := crypto.VerifyMAC(k1, tag, y, suffix)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrap(domain.ErrAuth, "confirmation tag mismatch")
	}
	return nil
}

// IV returns the CFB iv of A (0^128) or B (1^128).
func IV(b bool) []byte {
	if b {
		return append([]byte(nil), tagSuffixB...)
	}
	return append([]byte(nil), tagSuffixA...)
}
