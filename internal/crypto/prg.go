package crypto

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

var prgName = []byte("bee-prg")

// Prg is a duplex sponge. Absorb feeds data in; Read squeezes a stream that
// depends on everything absorbed so far. Absorbing after a Read ratchets the
// state so that later output differs from earlier output.
//
// A Prg seeded with a fixed value is a deterministic random source.
type Prg struct {
	h        sha3.ShakeHash
	out      sha3.ShakeHash
	squeezed uint64
}

// NewPrg starts a duplex with the given customization string.
func NewPrg(custom []byte) *Prg {
	return &Prg{h: sha3.NewCShake256(prgName, custom)}
}

// NewSeededPrg returns a deterministic random source seeded with seed.
func NewSeededPrg(seed []byte) *Prg {
	p := NewPrg([]byte("rng"))
	p.Absorb(seed)
	return p
}

// Absorb feeds a length-framed part into the state.
func (p *Prg) Absorb(parts ...[]byte) {
	if p.out != nil {
		var ratchet [9]byte
		ratchet[0] = 0xff
		binary.LittleEndian.PutUint64(ratchet[1:], p.squeezed)
		p.h.Write(ratchet[:])
		p.out = nil
		p.squeezed = 0
	}
	var n [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(part)))
		p.h.Write(n[:])
		p.h.Write(part)
	}
}

// Read squeezes len(b) octets. It never fails.
func (p *Prg) Read(b []byte) (int, error) {
	if p.out == nil {
		p.out = p.h.Clone()
	}
	p.squeezed += uint64(len(b))
	return p.out.Read(b)
}

// Squeeze returns the next n octets of output.
func (p *Prg) Squeeze(n int) []byte {
	b := make([]byte, n)
	_, _ = p.Read(b)
	return b
}
