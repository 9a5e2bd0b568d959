package der

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"bee/internal/domain"
)

// Tag is a complete encoded tag, e.g. 0x7F4E for [APPLICATION 78] constructed.
type Tag uint32

const (
	classApplication = 0x40
	constructed      = 0x20
	maxLen           = 1 << 31
)

// Application returns the constructed application-class tag with number n.
func Application(n uint32) Tag {
	if n < 31 {
		return Tag(classApplication | constructed | n)
	}
	t := uint32(classApplication | constructed | 0x1f)
	var stack []uint32
	for v := n; v > 0; v >>= 7 {
		stack = append(stack, v&0x7f)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b := stack[i]
		if i > 0 {
			b |= 0x80
		}
		t = t<<8 | b
	}
	return Tag(t)
}

// Bytes returns the octets of t.
func (t Tag) Bytes() []byte {
	var out []byte
	for v := uint32(t); v > 0; v >>= 8 {
		out = append([]byte{byte(v)}, out...)
	}
	if len(out) == 0 {
		out = []byte{0}
	}
	return out
}

// Encode returns the TLV of content under tag t.
func Encode(t Tag, content []byte) []byte {
	out := append(t.Bytes(), encodeLen(len(content))...)
	return append(out, content...)
}

func encodeLen(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var l []byte
	for v := n; v > 0; v >>= 8 {
		l = append([]byte{byte(v)}, l...)
	}
	return append([]byte{0x80 | byte(len(l))}, l...)
}

// Decode splits the TLV at the start of b. It returns the tag, the content
// and the remaining octets.
func Decode(b []byte) (Tag, []byte, []byte, error) {
	t, hdr, n, err := decodeHeader(b)
	if err != nil {
		return 0, nil, nil, err
	}
	if len(b)-hdr < n {
		return 0, nil, nil, errors.Wrap(domain.ErrBadFormat, "truncated value")
	}
	return t, b[hdr : hdr+n], b[hdr+n:], nil
}

// DecodeExpect is Decode with a required tag.
func DecodeExpect(want Tag, b []byte) ([]byte, []byte, error) {
	t, content, rest, err := Decode(b)
	if err != nil {
		return nil, nil, err
	}
	if t != want {
		return nil, nil, errors.Wrapf(domain.ErrBadFormat, "tag %X, want %X", uint32(t), uint32(want))
	}
	return content, rest, nil
}

func decodeHeader(b []byte) (Tag, int, int, error) {
	if len(b) < 2 {
		return 0, 0, 0, errors.Wrap(domain.ErrBadFormat, "short header")
	}
	i := 0
	t := uint32(b[i])
	i++
	if t&0x1f == 0x1f {
		for {
			if i >= len(b) || i > 4 {
				return 0, 0, 0, errors.Wrap(domain.ErrBadFormat, "bad tag")
			}
			t = t<<8 | uint32(b[i])
			i++
			if b[i-1]&0x80 == 0 {
				break
			}
		}
	}
	if i >= len(b) {
		return 0, 0, 0, errors.Wrap(domain.ErrBadFormat, "missing length")
	}
	l := int(b[i])
	i++
	if l&0x80 != 0 {
		k := l & 0x7f
		if k == 0 || k > 4 || i+k > len(b) {
			return 0, 0, 0, errors.Wrap(domain.ErrBadFormat, "bad length")
		}
		l = 0
		for j := 0; j < k; j++ {
			l = l<<8 | int(b[i+j])
		}
		if l < 0x80 || l >= maxLen || (k > 1 && b[i] == 0) {
			return 0, 0, 0, errors.Wrap(domain.ErrBadFormat, "non-minimal length")
		}
		i += k
	}
	return Tag(t), i, l, nil
}

// ReadTLV reads exactly one TLV from r and returns its full encoding.
func ReadTLV(r *bufio.Reader) ([]byte, error) {
	// A header never exceeds 5 tag octets plus 5 length octets.
	head, err := r.Peek(10)
	if err != nil && len(head) < 2 {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(domain.ErrBadFile, "truncated header")
		}
		return nil, errors.Wrap(err, "read header")
	}
	_, hdr, n, err := decodeHeader(head)
	if err != nil {
		return nil, err
	}
	out := make([]byte, hdr+n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, errors.Wrap(domain.ErrBadFile, "truncated value")
	}
	return out, nil
}

// HeaderLen returns the size of the tag-length header and the content length
// of the TLV at the start of b.
func HeaderLen(b []byte) (int, int, error) {
	_, hdr, n, err := decodeHeader(b)
	return hdr, n, err
}
