package bmqv

import (
	"bee/internal/protocol/bake"
)

type party struct {
	s         *Session
	peer      bake.Cert
	initiator bool
}

// NewInitiator wraps s as party A talking to the holder of peer.
func NewInitiator(s *Session, peer bake.Cert) bake.Party {
	return &party{s: s, peer: peer, initiator: true}
}

// NewResponder wraps s as party B talking to the holder of peer.
func NewResponder(s *Session, peer bake.Cert) bake.Party {
	return &party{s: s, peer: peer}
}

func (p *party) First() bool { return !p.initiator }

func (p *party) Next(in []byte) (bake.Output, error) {
	if p.initiator {
		return p.nextA(in)
	}
	return p.nextB(in)
}

func (p *party) nextA(in []byte) (bake.Output, error) {
	if p.s.State() == bake.Started {
		m2, err := p.s.Step3(in, p.peer)
		if err != nil {
			return bake.Output{}, err
		}
		return bake.Output{Send: m2, Done: p.s.State() == bake.Done}, nil
	}
	if err := p.s.Step5(in); err != nil {
		return bake.Output{}, err
	}
	return bake.Output{Done: true}, nil
}

func (p *party) nextB(in []byte) (bake.Output, error) {
	if p.s.State() == bake.Started {
		m1, err := p.s.Step2()
		if err != nil {
			return bake.Output{}, err
		}
		return bake.Output{Send: m1}, nil
	}
	m3, err := p.s.Step4(in, p.peer)
	if err != nil {
		return bake.Output{}, err
	}
	if len(m3) == 0 {
		m3 = nil
	}
	return bake.Output{Send: m3, Done: true}, nil
}

func (p *party) Key() ([]byte, error) { return p.s.Result() }

func (p *party) Close() { p.s.Close() }
