package accumulator

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"bee/internal/der"
	"bee/internal/domain"
)

// headerSize is the size of the LE-u16 level that starts the file.
const headerSize = 2

const tagSequence = 0x30

// span locates one DER entry in the file.
type span struct {
	off int64
	n   int
}

// Create writes a new accumulator file holding Init(l, name). It fails if
// path exists.
func Create(path string, l domain.Level, name []byte, rng io.Reader) error {
	acc, err := Init(l, name, rng)
	if err != nil {
		return err
	}
	e, err := (&Entry{Acc: acc}).Encode()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to create accumulator file")
	}
	defer f.Close()
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint16(hdr[:], uint16(l))
	if _, err := f.Write(append(hdr[:], e...)); err != nil {
		return errors.Wrap(err, "failed to write accumulator file")
	}
	return f.Sync()
}

// Append adds an encoded entry to the end of the file.
func Append(path string, e *Entry) error {
	b, err := e.Encode()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return errors.Wrap(err, "failed to open accumulator file")
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return errors.Wrap(err, "failed to append entry")
	}
	return f.Sync()
}

// Last returns the level and the last entry of the file.
func Last(path string) (domain.Level, *Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to open accumulator file")
	}
	defer f.Close()
	l, spans, err := scan(f)
	if err != nil {
		return 0, nil, err
	}
	e, err := readEntry(f, spans[len(spans)-1])
	return l, e, err
}

// ParseFile decodes a whole accumulator file.
func ParseFile(b []byte) (domain.Level, []*Entry, error) {
	if len(b) < headerSize {
		return 0, nil, errors.Wrap(domain.ErrBadFile, "missing level")
	}
	l := domain.Level(binary.LittleEndian.Uint16(b))
	if err := l.Check(); err != nil {
		return 0, nil, errors.Wrap(domain.ErrBadFile, err.Error())
	}
	var out []*Entry
	for rest := b[headerSize:]; len(rest) > 0; {
		tag, _, next, err := der.Decode(rest)
		if err != nil {
			return 0, nil, errors.Wrap(domain.ErrBadFile, err.Error())
		}
		if tag != tagSequence {
			return 0, nil, errors.Wrapf(domain.ErrBadFile, "entry tag %X", uint32(tag))
		}
		e, err := ParseEntry(rest[:len(rest)-len(next)])
		if err != nil {
			return 0, nil, errors.Wrap(domain.ErrBadFile, err.Error())
		}
		out = append(out, e)
		rest = next
	}
	if len(out) == 0 {
		return 0, nil, errors.Wrap(domain.ErrBadFile, "no entries")
	}
	return l, out, nil
}

// scan reads the level and the offset of every entry.
func scan(r io.Reader) (domain.Level, []span, error) {
	br := bufio.NewReader(r)
	var hdr [headerSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return 0, nil, errors.Wrap(domain.ErrBadFile, "missing level")
	}
	l := domain.Level(binary.LittleEndian.Uint16(hdr[:]))
	if err := l.Check(); err != nil {
		return 0, nil, errors.Wrap(domain.ErrBadFile, err.Error())
	}

	var spans []span
	off := int64(headerSize)
	for {
		head, err := br.Peek(10)
		if len(head) == 0 && err == io.EOF {
			break
		}
		if len(head) == 0 {
			return 0, nil, errors.Wrap(err, "failed to scan accumulator file")
		}
		if head[0] != tagSequence {
			return 0, nil, errors.Wrapf(domain.ErrBadFile, "entry tag %X at %d", head[0], off)
		}
		h, n, err := der.HeaderLen(head)
		if err != nil {
			return 0, nil, errors.Wrap(domain.ErrBadFile, err.Error())
		}
		size := h + n
		if d, err := br.Discard(size); err != nil || d != size {
			return 0, nil, errors.Wrapf(domain.ErrBadFile, "truncated entry at %d", off)
		}
		spans = append(spans, span{off: off, n: size})
		off += int64(size)
	}
	if len(spans) == 0 {
		return 0, nil, errors.Wrap(domain.ErrBadFile, "no entries")
	}
	return l, spans, nil
}

func readEntry(r io.ReaderAt, s span) (*Entry, error) {
	buf := make([]byte, s.n)
	if _, err := r.ReadAt(buf, s.off); err != nil {
		return nil, errors.Wrap(domain.ErrBadFile, err.Error())
	}
	e, err := ParseEntry(buf)
	if err != nil {
		return nil, errors.Wrap(domain.ErrBadFile, err.Error())
	}
	return e, nil
}
