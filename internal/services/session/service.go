package session

import (
	"io"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"bee/internal/cert"
	"bee/internal/domain"
	"bee/internal/ec"
	"bee/internal/protocol/bake"
	"bee/internal/protocol/bmqv"
	"bee/internal/protocol/bpace"
	"bee/internal/protocol/bsts"
	"bee/internal/util/memzero"
)

const logHeader = "session"

// Service implements domain.SessionService.
type Service struct {
	keys  domain.KeyStore
	certs domain.CertStore
	rng   io.Reader
}

// New returns a session service backed by the given stores.
func New(ks domain.KeyStore, cs domain.CertStore, rng io.Reader) *Service {
	return &Service{keys: ks, certs: cs, rng: rng}
}

// Handshake runs the protocol selected by h over conn and returns the
// shared key.
func (s *Service) Handshake(conn io.ReadWriter, h domain.Handshake) ([]byte, error) {
	p, err := s.party(h)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	jww.DEBUG.Printf("[%s] Starting %s as %s", logHeader, h.Protocol, role(h.Initiator))
	key, err := bake.Run(p, bake.FramedTransport(conn))
	if err != nil {
		jww.WARN.Printf("[%s] %s handshake failed: %v", logHeader, h.Protocol, err)
		return nil, err
	}
	jww.INFO.Printf("[%s] %s handshake complete", logHeader, h.Protocol)
	return key, nil
}

func (s *Service) settings(h domain.Handshake) bake.Settings {
	return bake.Settings{Helloa: h.Helloa, Hellob: h.Hellob, Kca: h.Kca, Kcb: h.Kcb, Rng: s.rng}
}

func (s *Service) party(h domain.Handshake) (bake.Party, error) {
	if h.Protocol == "bpace" {
		curve, err := ec.Standard(h.Level)
		if err != nil {
			return nil, err
		}
		if h.Password == "" {
			return nil, errors.Wrap(domain.ErrBadInput, "bpace needs a password")
		}
		sess, err := bpace.Start(curve, s.settings(h), []byte(h.Password))
		if err != nil {
			return nil, err
		}
		if h.Initiator {
			return bpace.NewInitiator(sess), nil
		}
		return bpace.NewResponder(sess), nil
	}

	kp, err := s.keys.LoadKey(h.Self.Passphrase, h.Self.Name)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(kp.Priv)
	curve, err := ec.Standard(kp.Level)
	if err != nil {
		return nil, err
	}
	own, err := s.certs.LoadCert(h.Self.Name)
	if err != nil {
		return nil, err
	}
	validate, err := s.validator(h.Anchor)
	if err != nil {
		return nil, err
	}
	self := bake.Cert{Data: own, Validate: validate}

	switch h.Protocol {
	case "bmqv":
		peerDER, err := s.certs.LoadCert(h.Peer)
		if err != nil {
			return nil, err
		}
		sess, err := bmqv.Start(curve, s.settings(h), kp.Priv, self)
		if err != nil {
			return nil, err
		}
		peer := bake.Cert{Data: peerDER, Validate: validate}
		if h.Initiator {
			return bmqv.NewInitiator(sess, peer), nil
		}
		return bmqv.NewResponder(sess, peer), nil
	case "bsts":
		sess, err := bsts.Start(curve, s.settings(h), kp.Priv, self)
		if err != nil {
			return nil, err
		}
		if h.Initiator {
			return bsts.NewInitiator(sess, validate), nil
		}
		return bsts.NewResponder(sess, validate), nil
	}
	return nil, errors.Wrapf(domain.ErrBadInput, "unknown protocol %q", h.Protocol)
}

func (s *Service) validator(anchor string) (bake.CertValidator, error) {
	if anchor == "" {
		return nil, errors.Wrap(domain.ErrBadInput, "no trust anchor given")
	}
	der, err := s.certs.LoadCert(anchor)
	if err != nil {
		return nil, err
	}
	root, err := cert.Parse(der)
	if err != nil {
		return nil, err
	}
	return cert.Validator(root), nil
}

func role(initiator bool) string {
	if initiator {
		return "A"
	}
	return "B"
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
