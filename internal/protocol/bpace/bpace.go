package bpace

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/protocol/bake"
	"bee/internal/util/memzero"
)

// Session is one side of a BPACE run.
type Session struct {
	c        *ec.Curve
	settings bake.Settings
	k2       []byte

	ra, rb []byte
	w      ec.Point
	u      *big.Int
	va     []byte
	k0, k1 []byte
	state  bake.State
}

// Start creates a session for the shared password pwd.
func Start(c *ec.Curve, settings bake.Settings, pwd []byte) (*Session, error) {
	if c == nil {
		return nil, errors.Wrap(domain.ErrBadParams, "no curve")
	}
	if len(pwd) == 0 {
		return nil, errors.Wrap(domain.ErrBadInput, "empty password")
	}
	return &Session{c: c, settings: settings, k2: crypto.Hash(pwd), state: bake.Started}, nil
}

// State returns the current step position.
func (s *Session) State() bake.State { return s.state }

func (s *Session) nonceSize() int { return s.c.No / 2 }

func (s *Session) nonce() ([]byte, error) {
	r := make([]byte, s.nonceSize())
	if _, err := io.ReadFull(s.settings.Random(), r); err != nil {
		return nil, errors.Wrap(domain.ErrBadRng, err.Error())
	}
	return r, nil
}

// Step2 is run by B and returns M1 = ECB_K2(Rb).
func (s *Session) Step2() ([]byte, error) {
	if err := s.state.Expect("step2", bake.Started); err != nil {
		return nil, err
	}
	rb, err := s.nonce()
	if err != nil {
		return nil, s.fail(err)
	}
	s.rb = rb
	m1, err := crypto.ECBEncrypt(s.k2, rb)
	if err != nil {
		return nil, s.fail(err)
	}
	s.state = bake.Sent2
	return m1, nil
}

// Step3 is run by A on M1 and returns M2.
func (s *Session) Step3(m1 []byte) ([]byte, error) {
	if err := s.state.Expect("step3", bake.Started); err != nil {
		return nil, err
	}
	if len(m1) != s.nonceSize() {
		return nil, s.fail(errors.Wrapf(domain.ErrBadInput, "m1 of %d octets", len(m1)))
	}
	rb, err := crypto.ECBDecrypt(s.k2, m1)
	if err != nil {
		return nil, s.fail(err)
	}
	s.rb = rb
	if s.ra, err = s.nonce(); err != nil {
		return nil, s.fail(err)
	}
	if err := s.generator(); err != nil {
		return nil, s.fail(err)
	}
	if s.u, err = s.c.RandScalar(s.settings.Random()); err != nil {
		return nil, s.fail(err)
	}
	s.va = s.c.Encode(s.c.Mul(s.u, s.w))

	encRa, err := crypto.ECBEncrypt(s.k2, s.ra)
	if err != nil {
		return nil, s.fail(err)
	}
	s.state = bake.Sent3
	return append(encRa, s.va...), nil
}

// Step4 is run by B on M2 and returns M3.
func (s *Session) Step4(m2 []byte) ([]byte, error) {
	if err := s.state.Expect("step4", bake.Sent2); err != nil {
		return nil, err
	}
	if len(m2) != s.nonceSize()+s.c.PointSize() {
		return nil, s.fail(errors.Wrapf(domain.ErrBadInput, "m2 of %d octets", len(m2)))
	}
	ra, err := crypto.ECBDecrypt(s.k2, m2[:s.nonceSize()])
	if err != nil {
		return nil, s.fail(err)
	}
	s.ra = ra
	s.va = append([]byte(nil), m2[s.nonceSize():]...)
	va, err := s.c.Decode(s.va)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.generator(); err != nil {
		return nil, s.fail(err)
	}
	if s.u, err = s.c.RandScalar(s.settings.Random()); err != nil {
		return nil, s.fail(err)
	}
	vb := s.c.Encode(s.c.Mul(s.u, s.w))
	if err := s.derive(va, vb); err != nil {
		return nil, s.fail(err)
	}

	m3 := vb
	if s.settings.Kcb {
		tb, err := bake.TagB(s.k1, nil)
		if err != nil {
			return nil, s.fail(err)
		}
		m3 = append(m3, tb...)
	}
	s.state = bake.Sent4
	if !s.settings.Kca {
		s.state = bake.Done
	}
	return m3, nil
}

// Step5 is run by A on M3 and returns M4, which is empty unless Kca is set.
func (s *Session) Step5(m3 []byte) ([]byte, error) {
	if err := s.state.Expect("step5", bake.Sent3); err != nil {
		return nil, err
	}
	want := s.c.PointSize()
	if s.settings.Kcb {
		want += bake.TagSize
	}
	if len(m3) != want {
		return nil, s.fail(errors.Wrapf(domain.ErrBadInput, "m3 of %d octets", len(m3)))
	}
	vbEnc := m3[:s.c.PointSize()]
	vb, err := s.c.Decode(vbEnc)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.derive(vb, vbEnc); err != nil {
		return nil, s.fail(err)
	}
	if s.settings.Kcb {
		if err := bake.CheckTagB(s.k1, nil, m3[s.c.PointSize():]); err != nil {
			return nil, s.fail(err)
		}
	}
	var m4 []byte
	if s.settings.Kca {
		if m4, err = bake.TagA(s.k1, nil); err != nil {
			return nil, s.fail(err)
		}
	}
	s.state = bake.Done
	return m4, nil
}

// Step6 is run by B on M4 when Kca is set.
func (s *Session) Step6(m4 []byte) error {
	if err := s.state.Expect("step6", bake.Sent4); err != nil {
		return err
	}
	if err := bake.CheckTagA(s.k1, nil, m4); err != nil {
		return s.fail(err)
	}
	s.state = bake.Done
	return nil
}

// Result returns the session key K0.
func (s *Session) Result() ([]byte, error) {
	if err := s.state.Expect("result", bake.Done); err != nil {
		return nil, err
	}
	return append([]byte(nil), s.k0...), nil
}

// Close wipes every secret held by the session.
func (s *Session) Close() {
	memzero.ZeroAll(s.k2, s.ra, s.rb, s.k0, s.k1)
	memzero.ZeroInt(s.u)
	if s.w.X != nil {
		s.w.Wipe()
	}
	s.state = bake.Failed
}

func (s *Session) generator() error {
	msg := make([]byte, 0, s.c.No)
	msg = append(msg, s.ra...)
	msg = append(msg, s.rb...)
	defer memzero.Zero(msg)
	w, err := s.c.SWU(msg)
	if err != nil {
		return err
	}
	s.w = w
	return nil
}

// derive computes K = u·peer and the keys K0, K1 bound to <Va> and <Vb>.
func (s *Session) derive(peer ec.Point, vb []byte) error {
	k := s.c.Mul(s.u, peer)
	defer k.Wipe()
	if k.IsInfinity() {
		return errors.Wrap(domain.ErrBadPoint, "shared point at infinity")
	}
	kx := s.c.EncodeX(k)
	defer memzero.Zero(kx)

	y := crypto.Hash(kx, s.va, vb, s.settings.Helloa, s.settings.Hellob)
	defer memzero.Zero(y)
	keys, err := bake.DeriveKeys(y, 2)
	if err != nil {
		return err
	}
	s.k0, s.k1 = keys[0], keys[1]
	return nil
}

func (s *Session) fail(err error) error {
	s.Close()
	return err
}
