package bake

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"bee/internal/domain"
)

// Output is the result of a Party step.
type Output struct {
	// Send is the message for the peer; nil means nothing to send.
	Send []byte
	// Done reports that the party has finished and Key is available.
	Done bool
}

// Party is a protocol session seen as a message pump.
type Party interface {
	// First reports whether the party sends the first message.
	First() bool
	// Next consumes the peer's message (nil on the first call of the party
	// that speaks first) and returns what to send next.
	Next(in []byte) (Output, error)
	// Key returns the session key K0 once Done.
	Key() ([]byte, error)
	// Close wipes the session.
	Close()
}

// Transport carries whole protocol messages.
type Transport interface {
	Send(msg []byte) error
	Recv() ([]byte, error)
}

// MaxFrame bounds the size of a framed message.
const MaxFrame = 1 << 20

type framed struct {
	rw io.ReadWriter
}

// FramedTransport frames messages over a byte stream with a 4-octet
// big-endian length prefix.
func FramedTransport(rw io.ReadWriter) Transport { return &framed{rw: rw} }

func (f *framed) Send(msg []byte) error {
	buf := make([]byte, 4+len(msg))
	binary.BigEndian.PutUint32(buf, uint32(len(msg)))
	copy(buf[4:], msg)
	if _, err := f.rw.Write(buf); err != nil {
		return errors.Wrap(err, "failed to send message")
	}
	return nil
}

func (f *framed) Recv() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(f.rw, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "failed to receive message")
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrame {
		return nil, errors.Wrapf(domain.ErrBadInput, "frame of %d octets", n)
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(f.rw, msg); err != nil {
		return nil, errors.Wrap(err, "failed to receive message")
	}
	return msg, nil
}

// Run drives p over t until it is done and returns the session key.
func Run(p Party, t Transport) ([]byte, error) {
	var in []byte
	if !p.First() {
		msg, err := t.Recv()
		if err != nil {
			return nil, err
		}
		in = msg
	}
	for {
		out, err := p.Next(in)
		if err != nil {
			return nil, err
		}
		if out.Send != nil {
			if err := t.Send(out.Send); err != nil {
				return nil, err
			}
		}
		if out.Done {
			return p.Key()
		}
		if in, err = t.Recv(); err != nil {
			return nil, err
		}
	}
}
