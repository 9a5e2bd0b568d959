package bsts

import (
	"bee/internal/protocol/bake"
)

type party struct {
	s         *Session
	peerVal   bake.CertValidator
	initiator bool
}

// NewInitiator wraps s as party A; peerVal validates B's certificate.
func NewInitiator(s *Session, peerVal bake.CertValidator) bake.Party {
	return &party{s: s, peerVal: peerVal, initiator: true}
}

// NewResponder wraps s as party B; peerVal validates A's certificate.
func NewResponder(s *Session, peerVal bake.CertValidator) bake.Party {
	return &party{s: s, peerVal: peerVal}
}

func (p *party) First() bool { return !p.initiator }

func (p *party) Next(in []byte) (bake.Output, error) {
	switch {
	case p.initiator && p.s.State() == bake.Started:
		m2, err := p.s.Step3(in)
		return bake.Output{Send: m2}, err
	case p.initiator:
		err := p.s.Step5(in, p.peerVal)
		return bake.Output{Done: err == nil}, err
	case p.s.State() == bake.Started:
		m1, err := p.s.Step2()
		return bake.Output{Send: m1}, err
	default:
		m3, err := p.s.Step4(in, p.peerVal)
		return bake.Output{Send: m3, Done: err == nil}, err
	}
}

func (p *party) Key() ([]byte, error) { return p.s.Result() }

func (p *party) Close() { p.s.Close() }
