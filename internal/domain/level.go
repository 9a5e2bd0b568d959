package domain

import "github.com/pkg/errors"

// Level is a security level in bits.
type Level int

const (
	Level128 Level = 128
	Level192 Level = 192
	Level256 Level = 256
)

// Check returns ErrBadParams unless l is one of the standard levels.
func (l Level) Check() error {
	switch l {
	case Level128, Level192, Level256:
		return nil
	}
	return errors.Wrapf(ErrBadParams, "unsupported level %d", int(l))
}

// No is the size of a scalar or a point coordinate in octets.
func (l Level) No() int { return int(l) / 4 }

// LevelOfPubkey infers the level from the length of an encoded public key.
func LevelOfPubkey(pub []byte) (Level, error) {
	for _, l := range []Level{Level128, Level192, Level256} {
		if len(pub) == 2*l.No() {
			return l, nil
		}
	}
	return 0, errors.Wrapf(ErrBadPubkey, "public key of %d octets", len(pub))
}

// LevelOfPrivkey infers the level from the length of an encoded private key.
func LevelOfPrivkey(priv []byte) (Level, error) {
	for _, l := range []Level{Level128, Level192, Level256} {
		if len(priv) == l.No() {
			return l, nil
		}
	}
	return 0, errors.Wrapf(ErrBadPrivkey, "private key of %d octets", len(priv))
}
