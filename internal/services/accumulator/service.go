package accumulator

import (
	"context"
	"io"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"bee/internal/accumulator"
	"bee/internal/cert"
	"bee/internal/domain"
	"bee/internal/util/memzero"
)

const logHeader = "acc"

// Service implements domain.AccumulatorService.
type Service struct {
	keys  domain.KeyStore
	certs domain.CertStore
	rng   io.Reader
}

// New returns an accumulator service backed by the given stores.
func New(ks domain.KeyStore, cs domain.CertStore, rng io.Reader) *Service {
	return &Service{keys: ks, certs: cs, rng: rng}
}

// Init creates a new accumulator file at path.
func (s *Service) Init(path string, l domain.Level, name []byte) error {
	if err := accumulator.Create(path, l, name, s.rng); err != nil {
		return err
	}
	jww.INFO.Printf("[%s] Created level %d accumulator %s", logHeader, int(l), path)
	return nil
}

// Add appends member to the accumulator at path. The entry is signed by
// signer, whose certificate chain below the trust anchor is named by chain.
func (s *Service) Add(path string, member, signer domain.KeyRef, chain []string) error {
	l, last, err := accumulator.Last(path)
	if err != nil {
		return err
	}
	priv, err := s.privateKey(member, l)
	if err != nil {
		return err
	}
	defer memzero.Zero(priv)
	sk, err := s.keys.LoadKey(signer.Passphrase, signer.Name)
	if err != nil {
		return err
	}
	defer memzero.Zero(sk.Priv)

	ders := make([][]byte, 0, len(chain))
	for _, name := range chain {
		der, err := s.certs.LoadCert(name)
		if err != nil {
			return err
		}
		ders = append(ders, der)
	}

	e, err := accumulator.NewEntry(l, last.Acc, priv, sk.Priv, ders, s.rng)
	if err != nil {
		return err
	}
	if err := accumulator.Append(path, e); err != nil {
		return err
	}
	jww.INFO.Printf("[%s] Added %q to %s (%d members)", logHeader, member.Name, path, accumulator.Len(l, e.Acc)-1)
	return nil
}

// Der returns the derived public key of member in the current accumulator.
func (s *Service) Der(path string, member domain.KeyRef) ([]byte, error) {
	l, last, err := accumulator.Last(path)
	if err != nil {
		return nil, err
	}
	priv, err := s.privateKey(member, l)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(priv)
	return accumulator.Der(l, last.Acc, priv)
}

// Prove returns the derived public key of member and a proof, bound to
// adata, that it belongs to some member of the current accumulator.
func (s *Service) Prove(path string, member domain.KeyRef, adata []byte) (pub, proof []byte, err error) {
	l, last, err := accumulator.Last(path)
	if err != nil {
		return nil, nil, err
	}
	priv, err := s.privateKey(member, l)
	if err != nil {
		return nil, nil, err
	}
	defer memzero.Zero(priv)

	if pub, err = accumulator.Der(l, last.Acc, priv); err != nil {
		return nil, nil, err
	}
	if proof, err = accumulator.ProveDer(l, last.Acc, priv, adata, s.rng); err != nil {
		return nil, nil, err
	}
	return pub, proof, nil
}

// Verify checks a proof made by Prove against the current accumulator.
func (s *Service) Verify(path string, pub, adata, proof []byte) error {
	l, last, err := accumulator.Last(path)
	if err != nil {
		return err
	}
	return accumulator.VerifyDer(l, last.Acc, pub, adata, proof)
}

// Validate checks the whole history of the accumulator at path against the
// stored certificate named anchor.
func (s *Service) Validate(ctx context.Context, path string, name []byte, anchor string, workers int) error {
	der, err := s.certs.LoadCert(anchor)
	if err != nil {
		return err
	}
	root, err := cert.Parse(der)
	if err != nil {
		return err
	}
	if err := accumulator.Validate(ctx, path, name, root, workers); err != nil {
		jww.WARN.Printf("[%s] %s failed validation: %v", logHeader, path, err)
		return err
	}
	jww.INFO.Printf("[%s] %s is valid", logHeader, path)
	return nil
}

func (s *Service) privateKey(k domain.KeyRef, l domain.Level) ([]byte, error) {
	kp, err := s.keys.LoadKey(k.Passphrase, k.Name)
	if err != nil {
		return nil, err
	}
	if kp.Level != l {
		memzero.Zero(kp.Priv)
		return nil, errors.Wrapf(domain.ErrBadInput, "key %q has level %d, accumulator level %d", k.Name, int(kp.Level), int(l))
	}
	return kp.Priv, nil
}

// Compile-time assertion that Service implements domain.AccumulatorService.
var _ domain.AccumulatorService = (*Service)(nil)
