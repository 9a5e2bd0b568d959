package container

import (
	"io"
	"os"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"bee/internal/cert"
	"bee/internal/container"
	"bee/internal/domain"
	"bee/internal/store"
	"bee/internal/util/memzero"
)

const logHeader = "container"

// Service implements domain.ContainerService over files.
type Service struct {
	keys  domain.KeyStore
	certs domain.CertStore
	rng   io.Reader
}

// New returns a container service backed by the given stores.
func New(ks domain.KeyStore, cs domain.CertStore, rng io.Reader) *Service {
	return &Service{keys: ks, certs: cs, rng: rng}
}

// Encrypt writes a container of in addressed to to into out.
func (s *Service) Encrypt(in, out string, to domain.Addressee, itag uint, adata []byte) error {
	rcpt, err := s.recipient(to)
	if err != nil {
		return err
	}
	src, err := os.Open(in)
	if err != nil {
		return errors.Wrap(err, "failed to open input")
	}
	defer src.Close()

	dst, err := store.CreateAtomic(out, 0o644)
	if err != nil {
		return err
	}
	defer dst.Abort()
	if err := container.Encrypt(dst, src, rcpt, container.Options{Itag: itag, Adata: adata, Rng: s.rng}); err != nil {
		return err
	}
	if err := dst.Commit(); err != nil {
		return err
	}
	jww.INFO.Printf("[%s] Encrypted %s into %s", logHeader, in, out)
	return nil
}

// Decrypt opens the container in and writes its plaintext into out.
func (s *Service) Decrypt(in, out string, as domain.Opener, adata []byte) error {
	creds, wipe, err := s.credentials(as)
	if err != nil {
		return err
	}
	defer wipe()
	src, err := os.Open(in)
	if err != nil {
		return errors.Wrap(err, "failed to open input")
	}
	defer src.Close()

	dst, err := store.CreateAtomic(out, 0o600)
	if err != nil {
		return err
	}
	defer dst.Abort()
	if err := container.Decrypt(dst, src, creds, container.Options{Adata: adata, Rng: s.rng}); err != nil {
		jww.WARN.Printf("[%s] Rejected %s: %v", logHeader, in, err)
		return err
	}
	if err := dst.Commit(); err != nil {
		return err
	}
	jww.INFO.Printf("[%s] Decrypted %s into %s", logHeader, in, out)
	return nil
}

// Validate checks that the container in opens with as without writing the
// plaintext anywhere.
func (s *Service) Validate(in string, as domain.Opener) error {
	creds, wipe, err := s.credentials(as)
	if err != nil {
		return err
	}
	defer wipe()
	src, err := os.Open(in)
	if err != nil {
		return errors.Wrap(err, "failed to open input")
	}
	defer src.Close()
	return container.Validate(src, creds, container.Options{Rng: s.rng})
}

// Inspect describes the header of the container in.
func (s *Service) Inspect(in string) (domain.ContainerInfo, error) {
	src, err := os.Open(in)
	if err != nil {
		return domain.ContainerInfo{}, errors.Wrap(err, "failed to open input")
	}
	defer src.Close()
	info, err := container.Inspect(src)
	if err != nil {
		return domain.ContainerInfo{}, err
	}
	return domain.ContainerInfo{
		Kind:      info.Kind,
		HeaderLen: info.HeaderLen,
		Itag:      info.Itag,
		Level:     info.Level,
		Cert:      info.Cert,
		Iter:      info.Iter,
	}, nil
}

func (s *Service) recipient(to domain.Addressee) (container.Recipient, error) {
	switch {
	case to.Password != "" && to.Peer != "":
		return nil, errors.Wrap(domain.ErrBadInput, "both password and peer given")
	case to.Password != "":
		return container.PWDRecipient{Password: []byte(to.Password), Iter: to.Iter}, nil
	case to.Peer != "":
		if to.WithCert {
			der, err := s.certs.LoadCert(to.Peer)
			if err != nil {
				return nil, err
			}
			c, err := cert.Parse(der)
			if err != nil {
				return nil, err
			}
			return container.PKERecipient{PubKey: c.PubKey, Cert: der}, nil
		}
		pk, err := s.keys.LoadPublic(to.Peer)
		if err != nil {
			return nil, err
		}
		return container.PKERecipient{PubKey: pk.Pub}, nil
	}
	return nil, errors.Wrap(domain.ErrBadInput, "no password or peer given")
}

// credentials resolves as into container credentials and returns a function
// wiping the secrets they hold.
func (s *Service) credentials(as domain.Opener) (container.Credentials, func(), error) {
	switch {
	case as.Password != "" && as.Key != "":
		return nil, nil, errors.Wrap(domain.ErrBadInput, "both password and key given")
	case as.Password != "":
		pwd := []byte(as.Password)
		return container.PWDCredentials{Password: pwd}, func() { memzero.Zero(pwd) }, nil
	case as.Key != "":
		kp, err := s.keys.LoadKey(as.Passphrase, as.Key)
		if err != nil {
			return nil, nil, err
		}
		creds := container.PKECredentials{PrivKey: kp.Priv}
		wipe := func() { memzero.Zero(kp.Priv) }
		if as.Cert != "" {
			if creds.Cert, err = s.certs.LoadCert(as.Cert); err != nil {
				wipe()
				return nil, nil, err
			}
		}
		if as.Anchor != "" {
			der, err := s.certs.LoadCert(as.Anchor)
			if err != nil {
				wipe()
				return nil, nil, err
			}
			anchor, err := cert.Parse(der)
			if err != nil {
				wipe()
				return nil, nil, err
			}
			creds.Validator = cert.Validator(anchor)
		}
		return creds, wipe, nil
	}
	return nil, nil, errors.Wrap(domain.ErrBadInput, "no password or key given")
}

// Compile-time assertion that Service implements domain.ContainerService.
var _ domain.ContainerService = (*Service)(nil)
