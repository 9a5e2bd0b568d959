package domain

import (
	"context"
	"io"
)

// KeyStore persists key pairs, private halves encrypted under a passphrase.
type KeyStore interface {
	SaveKey(passphrase, name string, kp KeyPair) error
	LoadKey(passphrase, name string) (KeyPair, error)
	LoadPublic(name string) (PublicKey, error)
}

// CertStore persists DER certificates by name.
type CertStore interface {
	SaveCert(name string, der []byte) error
	LoadCert(name string) ([]byte, error)
}

// KeyService generates keys and issues certificates.
type KeyService interface {
	Generate(passphrase, name string, l Level) (PublicKey, Fingerprint, error)
	Public(name string) (PublicKey, error)
	Fingerprint(name string) (Fingerprint, error)
	SelfSign(passphrase, name string) ([]byte, error)
	Issue(passphrase, issuer, holder string) ([]byte, error)
	Cert(name string) ([]byte, error)
	ImportCert(name string, der []byte) error
}

// ContainerService encrypts and opens container files.
type ContainerService interface {
	Encrypt(in, out string, to Addressee, itag uint, adata []byte) error
	Decrypt(in, out string, as Opener, adata []byte) error
	Validate(in string, as Opener) error
	Inspect(in string) (ContainerInfo, error)
}

// AccumulatorService maintains accumulator files and membership proofs.
type AccumulatorService interface {
	Init(path string, l Level, name []byte) error
	Add(path string, member, signer KeyRef, chain []string) error
	Der(path string, member KeyRef) ([]byte, error)
	Prove(path string, member KeyRef, adata []byte) (pub, proof []byte, err error)
	Verify(path string, pub, adata, proof []byte) error
	Validate(ctx context.Context, path string, name []byte, anchor string, workers int) error
}

// SessionService runs authenticated key agreement over a connection.
type SessionService interface {
	Handshake(conn io.ReadWriter, h Handshake) ([]byte, error)
}
