package container

import (
	"bufio"
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"hash"
	"io"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"bee/internal/crypto"
	"bee/internal/der"
	"bee/internal/domain"
	"bee/internal/util/memzero"
)

const (
	logHeader = "container"

	// TagSize is the size of intermediate and final tags.
	TagSize   = crypto.MACSize
	blockSize = 4096
	mebibyte  = 1 << 20
)

var streamLevel = bytes.Repeat([]byte{0xff}, crypto.KRPLevelSize)

// Options tune Encrypt and Decrypt.
type Options struct {
	// Itag is the intermediate-tag period in MiB; zero disables them.
	// Decrypt ignores it and follows the header.
	Itag uint
	// Adata is authenticated but not encrypted.
	Adata []byte
	// Rng is the random source. Nil means crypto/rand.
	Rng io.Reader
}

func (o Options) random() io.Reader {
	if o.Rng == nil {
		return rand.Reader
	}
	return o.Rng
}

// stream is the keyed state shared by encryption and decryption.
type stream struct {
	ctr    cipher.Stream
	mac    hash.Hash
	finKey []byte
	period uint64
	since  uint64
	total  uint64
}

func newStream(key []byte, h *Header, headerDER, adata []byte) (*stream, error) {
	var keys [3][]byte
	for i := range keys {
		var n [crypto.KRPHeaderSize]byte
		binary.LittleEndian.PutUint64(n[:8], uint64(i))
		k, err := crypto.KRP(key, streamLevel, n[:])
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	defer memzero.ZeroAll(keys[0], keys[1])

	ctr, err := crypto.NewCTR(keys[0], h.IV)
	if err != nil {
		return nil, err
	}
	mac, err := crypto.NewMAC(keys[1])
	if err != nil {
		return nil, err
	}
	mac.Write(headerDER)
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(adata)))
	mac.Write(n[:])
	mac.Write(adata)
	return &stream{ctr: ctr, mac: mac, finKey: keys[2], period: uint64(h.Itag) * mebibyte}, nil
}

// chunk returns how much ciphertext may be processed before the next tag
// boundary, capped at n.
func (s *stream) chunk(n int) int {
	if s.period == 0 {
		return n
	}
	left := s.period - s.since
	if left == 0 {
		left = s.period
	}
	if left < uint64(n) {
		return int(left)
	}
	return n
}

// atBoundary reports whether a full period has been processed since the last
// intermediate tag.
func (s *stream) atBoundary() bool { return s.period != 0 && s.since == s.period }

func (s *stream) intermediate() []byte {
	s.since = 0
	return s.mac.Sum(nil)[:TagSize]
}

func (s *stream) absorb(ct []byte) {
	s.mac.Write(ct)
	s.since += uint64(len(ct))
	s.total += uint64(len(ct))
}

func (s *stream) final() ([]byte, error) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], s.total)
	return crypto.MAC(s.finKey, s.mac.Sum(nil), n[:])
}

func (s *stream) wipe() { memzero.Zero(s.finKey) }

// Encrypt reads plaintext from r and writes a container addressed to rcpt to w.
func Encrypt(w io.Writer, r io.Reader, rcpt Recipient, opts Options) error {
	if opts.Itag > MaxItag {
		return errors.Wrapf(domain.ErrBadParams, "itag of %d MiB", opts.Itag)
	}
	rng := opts.random()
	key := make([]byte, keySize)
	defer memzero.Zero(key)
	iv := make([]byte, crypto.BlockSize)
	if _, err := io.ReadFull(rng, key); err != nil {
		return errors.Wrap(domain.ErrBadRng, err.Error())
	}
	if _, err := io.ReadFull(rng, iv); err != nil {
		return errors.Wrap(domain.ErrBadRng, err.Error())
	}

	kl, err := rcpt.wrap(key, rng)
	if err != nil {
		return err
	}
	h := &Header{Keyload: kl, IV: iv, Itag: opts.Itag}
	hder, err := h.Encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(hder); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	jww.DEBUG.Printf("[%s] wrote %s header of %d octets, itag %d", logHeader, kl.Kind(), len(hder), h.Itag)

	s, err := newStream(key, h, hder, opts.Adata)
	if err != nil {
		return err
	}
	defer s.wipe()

	buf := make([]byte, blockSize)
	tags := 0
	for {
		n, rerr := io.ReadFull(r, buf[:s.chunk(blockSize)])
		if n > 0 {
			if s.atBoundary() {
				if _, err := w.Write(s.intermediate()); err != nil {
					return errors.Wrap(err, "failed to write tag")
				}
				tags++
			}
			s.ctr.XORKeyStream(buf[:n], buf[:n])
			s.absorb(buf[:n])
			if _, err := w.Write(buf[:n]); err != nil {
				return errors.Wrap(err, "failed to write ciphertext")
			}
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return errors.Wrap(rerr, "failed to read plaintext")
		}
	}
	tag, err := s.final()
	if err != nil {
		return err
	}
	if _, err := w.Write(tag); err != nil {
		return errors.Wrap(err, "failed to write tag")
	}
	jww.DEBUG.Printf("[%s] encrypted %d octets with %d intermediate tags", logHeader, s.total, tags)
	return nil
}

// Decrypt reads a container from r, and writes the plaintext to w.
func Decrypt(w io.Writer, r io.Reader, creds Credentials, opts Options) error {
	br := bufio.NewReaderSize(r, 2*blockSize)
	h, hder, err := readHeader(br)
	if err != nil {
		return err
	}
	key, err := creds.unwrap(h.Keyload, opts.random())
	if err != nil {
		return err
	}
	defer memzero.Zero(key)

	s, err := newStream(key, h, hder, opts.Adata)
	if err != nil {
		return err
	}
	defer s.wipe()

	buf := make([]byte, blockSize)
	for {
		if s.atBoundary() {
			p, err := peek(br, 2*TagSize+1)
			if err != nil {
				return err
			}
			if len(p) == TagSize {
				break
			}
			if len(p) < 2*TagSize+1 {
				return errors.Wrap(domain.ErrBadFile, "truncated after intermediate tag")
			}
			want := s.intermediate()
			if subtle.ConstantTimeCompare(want, p[:TagSize]) != 1 {
				return errors.Wrapf(domain.ErrBadFile, "intermediate tag mismatch at %d", s.total)
			}
			_, _ = br.Discard(TagSize)
		}

		want := s.chunk(blockSize)
		p, err := peek(br, want+TagSize)
		if err != nil {
			return err
		}
		if len(p) < TagSize {
			return errors.Wrap(domain.ErrBadFile, "truncated ciphertext")
		}
		n := len(p) - TagSize
		if n > want {
			n = want
		}
		if n == 0 {
			break
		}
		copy(buf, p[:n])
		_, _ = br.Discard(n)
		s.absorb(buf[:n])
		s.ctr.XORKeyStream(buf[:n], buf[:n])
		if _, err := w.Write(buf[:n]); err != nil {
			return errors.Wrap(err, "failed to write plaintext")
		}
	}

	var tag [TagSize]byte
	if _, err := io.ReadFull(br, tag[:]); err != nil {
		return errors.Wrap(domain.ErrBadFile, "missing final tag")
	}
	want, err := s.final()
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(want, tag[:]) != 1 {
		return errors.Wrap(domain.ErrBadFile, "final tag mismatch")
	}
	if _, err := br.ReadByte(); err != io.EOF {
		return errors.Wrap(domain.ErrBadFile, "trailing octets after final tag")
	}
	jww.DEBUG.Printf("[%s] decrypted %d octets", logHeader, s.total)
	return nil
}

// Validate checks that the container in r can be opened with creds without
// decrypting its body. For PKE credentials carrying a certificate, the
// certificate in the header (if any) must be byte-identical.
func Validate(r io.Reader, creds Credentials, opts Options) error {
	h, _, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return err
	}
	key, err := creds.unwrap(h.Keyload, opts.random())
	if err != nil {
		return err
	}
	memzero.Zero(key)
	return creds.check(h.Keyload)
}

// Info describes a container without its key.
type Info struct {
	Kind      string
	Tag       der.Tag
	HeaderLen int
	IV        []byte
	Itag      uint
	Level     domain.Level
	Cert      []byte
	Iter      int
}

// Inspect parses the header of the container in r.
func Inspect(r io.Reader) (*Info, error) {
	h, hder, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	info := &Info{
		Kind:      h.Keyload.Kind(),
		Tag:       h.Keyload.Tag(),
		HeaderLen: len(hder),
		IV:        h.IV,
		Itag:      h.Itag,
	}
	switch k := h.Keyload.(type) {
	case *KeyloadPKE:
		info.Level, _ = k.Level()
		info.Cert = k.Cert
	case *KeyloadPWD:
		info.Iter = k.Iter
	}
	return info, nil
}

func readHeader(br *bufio.Reader) (*Header, []byte, error) {
	hder, err := der.ReadTLV(br)
	if err != nil {
		return nil, nil, errors.Wrap(domain.ErrBadFile, err.Error())
	}
	h, err := ParseHeader(hder)
	if err != nil {
		return nil, nil, errors.Wrap(domain.ErrBadFile, err.Error())
	}
	return h, hder, nil
}

func peek(br *bufio.Reader, n int) ([]byte, error) {
	p, err := br.Peek(n)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to read container")
	}
	return p, nil
}
