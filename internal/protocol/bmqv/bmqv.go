package bmqv

import (
	"math/big"

	"github.com/pkg/errors"

	"bee/internal/crypto"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/protocol/bake"
	"bee/internal/util/memzero"
)

// Session is one side of a BMQV run. A session is single-owner and must not
// be stepped from two goroutines.
type Session struct {
	c        *ec.Curve
	settings bake.Settings
	d        *big.Int
	cert     bake.Cert

	u      *big.Int
	own    []byte // own ephemeral point, encoded
	k0, k1 []byte
	state  bake.State
}

// Start creates a session for the holder of priv presenting cert.
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
	return &Session{c: c, settings: settings, d: d, cert: cert, state: bake.Started}, nil
}

// State returns the current step position.
func (s *Session) State() bake.State { return s.state }

// Step2 is run by B: it draws ub and returns M1 = <Vb>.
func (s *Session) Step2() ([]byte, error) {
	if err := s.state.Expect("step2", bake.Started); err != nil {
		return nil, err
	}
	u, err := s.c.RandScalar(s.settings.Random())
	if err != nil {
		return nil, s.fail(err)
	}
	s.u = u
	s.own = s.c.Encode(s.c.BaseMul(u))
	s.state = bake.Sent2
	return append([]byte(nil), s.own...), nil
}

// Step3 is run by A on M1 and B's certificate. It returns M2.
func (s *Session) Step3(m1 []byte, peer bake.Cert) ([]byte, error) {
	if err := s.state.Expect("step3", bake.Started); err != nil {
		return nil, err
	}
	if len(m1) != s.c.PointSize() {
		return nil, s.fail(errors.Wrapf(domain.ErrBadInput, "m1 of %d octets", len(m1)))
	}
	qb, err := peer.PublicKey(s.c)
	if err != nil {
		return nil, s.fail(err)
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
	s.own = s.c.Encode(s.c.BaseMul(u))

	if err := s.derive(s.own, m1, vb, qb, s.cert.Data, peer.Data); err != nil {
		return nil, s.fail(err)
	}

	m2 := append([]byte(nil), s.own...)
	if s.settings.Kca {
		ta, err := bake.TagA(s.k1, nil)
		if err != nil {
			return nil, s.fail(err)
		}
		m2 = append(m2, ta...)
	}
	s.state = bake.Sent3
	if !s.settings.Kcb {
		s.state = bake.Done
	}
	return m2, nil
}

// Step4 is run by B on M2 and A's certificate. It returns M3, which is empty
// unless Kcb is set.
func (s *Session) Step4(m2 []byte, peer bake.Cert) ([]byte, error) {
	if err := s.state.Expect("step4", bake.Sent2); err != nil {
		return nil, err
	}
	want := s.c.PointSize()
	if s.settings.Kca {
		want += bake.TagSize
	}
	if len(m2) != want {
		return nil, s.fail(errors.Wrapf(domain.ErrBadInput, "m2 of %d octets", len(m2)))
	}
	qa, err := peer.PublicKey(s.c)
	if err != nil {
		return nil, s.fail(err)
	}
	vaEnc := m2[:s.c.PointSize()]
	va, err := s.c.Decode(vaEnc)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.derive(vaEnc, s.own, va, qa, peer.Data, s.cert.Data); err != nil {
		return nil, s.fail(err)
	}
	if s.settings.Kca {
		if err := bake.CheckTagA(s.k1, nil, m2[s.c.PointSize():]); err != nil {
			return nil, s.fail(err)
		}
	}

	var m3 []byte
	if s.settings.Kcb {
		if m3, err = bake.TagB(s.k1, nil); err != nil {
			return nil, s.fail(err)
		}
	}
	s.state = bake.Done
	return m3, nil
}

// Step5 is run by A on M3 when Kcb is set.
func (s *Session) Step5(m3 []byte) error {
	if err := s.state.Expect("step5", bake.Sent3); err != nil {
		return err
	}
	if err := bake.CheckTagB(s.k1, nil, m3); err != nil {
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

// Close wipes every secret held by the session. The session is unusable
// afterwards.
func (s *Session) Close() {
	memzero.ZeroInt(s.d)
	memzero.ZeroInt(s.u)
	memzero.ZeroAll(s.k0, s.k1, s.own)
	s.state = bake.Failed
}

// derive computes K = s·(V - (2^l + t)·Q) for the peer's ephemeral V and
// long-term Q, substituting G for the identity, then K0 and K1.
// va and vb are the encoded ephemerals of A and B in that order.
func (s *Session) derive(va, vb []byte, peerV, peerQ ec.Point, certA, certB []byte) error {
	t := s.c.LowBits(crypto.Hash(va, vb))
	sk := s.c.Implicit(s.u, t, s.d)
	defer memzero.ZeroInt(sk)

	e := new(big.Int).Add(s.c.TwoL(), t)
	w := s.c.Sub(peerV, s.c.Mul(e, peerQ))
	k := s.c.G
	if !w.IsInfinity() {
		var err error
		if k, err = s.c.MulBlind(sk, w, s.settings.Random()); err != nil {
			return err
		}
		if k.IsInfinity() {
			k = s.c.G
		}
	}
	kx := s.c.EncodeX(k)
	defer memzero.Zero(kx)

	secret := crypto.Hash(kx, certA, certB, s.settings.Helloa, s.settings.Hellob)
	defer memzero.Zero(secret)
	keys, err := bake.DeriveKeys(secret, 2)
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
