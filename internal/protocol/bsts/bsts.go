package bsts

import (
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/protocol/bake"
	"bee/internal/util/memzero"
)

// Session is one side of a BSTS run.
type Session struct {
	c        *ec.Curve
	settings bake.Settings
	d        *big.Int
	cert     bake.Cert

	u          *big.Int
	va, vb     []byte
	t          *big.Int
	k0, k1, k2 []byte
	state      bake.State
}

// Start creates a session for the holder of priv presenting cert. Key
// confirmation is forced on.
func Start(c *ec.Curve, settings bake.Settings, priv []byte, cert bake.Cert) (*Session, error) {
	if c == nil {
		return nil, errors.Wrap(domain.ErrBadParams, "no curve")
	}
	if _, err := cert.PublicKey(c); err != nil {
		return nil, err
	}
	d, err := c.DecodeScalar(priv)
	if err != nil {
		return nil, err
	}
	settings.Kca, settings.Kcb = true, true
	return &Session{c: c, settings: settings, d: d, cert: cert, state: bake.Started}, nil
}

// State returns the current step position.
func (s *Session) State() bake.State { return s.state }

// Step2 is run by B and returns M1 = <Vb>.
func (s *Session) Step2() ([]byte, error) {
	if err := s.state.Expect("step2", bake.Started); err != nil {
		return nil, err
	}
	u, err := s.c.RandScalar(s.settings.Random())
	if err != nil {
		return nil, s.fail(err)
	}
	s.u = u
	s.vb = s.c.Encode(s.c.BaseMul(u))
	s.state = bake.Sent2
	return append([]byte(nil), s.vb...), nil
}

// Step3 is run by A on M1 and returns M2.
func (s *Session) Step3(m1 []byte) ([]byte, error) {
	if err := s.state.Expect("step3", bake.Started); err != nil {
		return nil, err
	}
	if len(m1) != s.c.PointSize() {
		return nil, s.fail(errors.Wrapf(domain.ErrBadInput, "m1 of %d octets", len(m1)))
	}
	vb, err := s.c.Decode(m1)
	if err != nil {
		return nil, s.fail(err)
	}
	u, err := s.c.RandScalar(s.settings.Random())
	if err != nil {
		return nil, s.fail(err)
	}
	s.u = u
	s.va = s.c.Encode(s.c.BaseMul(u))
	s.vb = append([]byte(nil), m1...)
	if err := s.derive(vb); err != nil {
		return nil, s.fail(err)
	}

	y, tag, err := s.seal(false)
	if err != nil {
		return nil, s.fail(err)
	}
	m2 := make([]byte, 0, len(s.va)+len(y)+len(tag))
	m2 = append(m2, s.va...)
	m2 = append(m2, y...)
	m2 = append(m2, tag...)
	s.state = bake.Sent3
	return m2, nil
}

// Step4 is run by B on M2. peerVal validates A's certificate. It returns M3.
func (s *Session) Step4(m2 []byte, peerVal bake.CertValidator) ([]byte, error) {
	if err := s.state.Expect("step4", bake.Sent2); err != nil {
		return nil, err
	}
	if len(m2) < s.c.PointSize()+s.c.No+bake.TagSize {
		return nil, s.fail(errors.Wrapf(domain.ErrBadInput, "m2 of %d octets", len(m2)))
	}
	s.va = append([]byte(nil), m2[:s.c.PointSize()]...)
	va, err := s.c.Decode(s.va)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.derive(va); err != nil {
		return nil, s.fail(err)
	}
	if err := s.open(m2[s.c.PointSize():], false, va, peerVal); err != nil {
		return nil, s.fail(err)
	}

	y, tag, err := s.seal(true)
	if err != nil {
		return nil, s.fail(err)
	}
	s.state = bake.Done
	return append(y, tag...), nil
}

// Step5 is run by A on M3. peerVal validates B's certificate.
func (s *Session) Step5(m3 []byte, peerVal bake.CertValidator) error {
	if err := s.state.Expect("step5", bake.Sent3); err != nil {
		return err
	}
	if len(m3) < s.c.No+bake.TagSize {
		return s.fail(errors.Wrapf(domain.ErrBadInput, "m3 of %d octets", len(m3)))
	}
	vb, err := s.c.Decode(s.vb)
	if err != nil {
		return s.fail(err)
	}
	if err := s.open(m3, true, vb, peerVal); err != nil {
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
	memzero.ZeroInt(s.d)
	memzero.ZeroInt(s.u)
	memzero.ZeroAll(s.k0, s.k1, s.k2)
	s.state = bake.Failed
}

// derive computes K = u·V for the peer's ephemeral V and the keys K0, K1, K2.
func (s *Session) derive(peerV ec.Point) error {
	s.t = s.c.LowBits(crypto.Hash(s.va, s.vb))
	k, err := s.c.MulBlind(s.u, peerV, s.settings.Random())
	if err != nil {
		return err
	}
	defer k.Wipe()
	kx := s.c.EncodeX(k)
	defer memzero.Zero(kx)

	secret := crypto.Hash(kx, s.settings.Helloa, s.settings.Hellob)
	defer memzero.Zero(secret)
	keys, err := bake.DeriveKeys(secret, 3)
	if err != nil {
		return err
	}
	s.k0, s.k1, s.k2 = keys[0], keys[1], keys[2]
	return nil
}

// seal encrypts (s || cert) under K2 and tags it under K1. side is false for
// A and true for B.
func (s *Session) seal(side bool) ([]byte, []byte, error) {
	sk := s.c.Implicit(s.u, s.t, s.d)
	defer memzero.ZeroInt(sk)
	plain := append(s.c.EncodeScalar(sk), s.cert.Data...)
	defer memzero.Zero(plain)

	y, err := crypto.CFBEncrypt(s.k2, bake.IV(side), plain)
	if err != nil {
		return nil, nil, err
	}
	tag := bake.TagA
	if side {
		tag = bake.TagB
	}
	t, err := tag(s.k1, y)
	if err != nil {
		return nil, nil, err
	}
	return y, t, nil
}

// open verifies and decrypts the peer's Y || T, validates the carried
// certificate and checks sPeer·G + (2^l + t)·Q == V.
func (s *Session) open(msg []byte, side bool, peerV ec.Point, peerVal bake.CertValidator) error {
	y, tag := msg[:len(msg)-bake.TagSize], msg[len(msg)-bake.TagSize:]
	check := bake.CheckTagA
	if side {
		check = bake.CheckTagB
	}
	if err := check(s.k1, y, tag); err != nil {
		return err
	}
	plain, err := crypto.CFBDecrypt(s.k2, bake.IV(side), y)
	if err != nil {
		return err
	}
	defer memzero.Zero(plain)

	sp, err := s.c.DecodeResidue(plain[:s.c.No])
	if err != nil {
		return errors.Wrap(domain.ErrAuth, "implicit signature out of range")
	}
	q, err := bake.Cert{Data: plain[s.c.No:], Validate: peerVal}.PublicKey(s.c)
	if err != nil {
		return err
	}
	e := new(big.Int).Add(s.c.TwoL(), s.t)
	if !s.c.MulAdd(sp, s.c.G, e, q).Equal(peerV) {
		return errors.Wrap(domain.ErrAuth, "implicit signature does not verify")
	}
	return nil
}

func (s *Session) fail(err error) error {
	s.Close()
	return err
}
