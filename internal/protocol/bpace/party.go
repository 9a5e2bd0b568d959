package bpace

import (
	"bee/internal/protocol/bake"
)

type party struct {
	s         *Session
	initiator bool
}

// NewInitiator wraps s as party A.
func NewInitiator(s *Session) bake.Party { return &party{s: s, initiator: true} }

// NewResponder wraps s as party B.
func NewResponder(s *Session) bake.Party { return &party{s: s} }

func (p *party) First() bool { return !p.initiator }

func (p *party) Next(in []byte) (bake.Output, error) {
	var (
		out []byte
		err error
	)
	switch {
	case p.initiator && p.s.State() == bake.Started:
		out, err = p.s.Step3(in)
	case p.initiator:
		out, err = p.s.Step5(in)
	case p.s.State() == bake.Started:
		out, err = p.s.Step2()
	case p.s.State() == bake.Sent2:
		out, err = p.s.Step4(in)
	default:
		err = p.s.Step6(in)
	}
	if err != nil {
		return bake.Output{}, err
	}
	if len(out) == 0 {
		out = nil
	}
	return bake.Output{Send: out, Done: p.s.State() == bake.Done}, nil
}

func (p *party) Key() ([]byte, error) { return p.s.Result() }

func (p *party) Close() { p.s.Close() }
