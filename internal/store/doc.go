// Package store provides file-based persistence for keys and certificates.
//
// Private keys are sealed in passphrase-protected JSON envelopes (scrypt +
// ChaCha20-Poly1305); public keys and certificates are kept in the clear.
// Every write goes through a temporary file and an atomic rename. All methods
// are safe for concurrent use.
//
// Layout under the home directory:
//
//	keys/<name>.key   sealed domain.KeyPair
//	keys/<name>.pub   domain.PublicKey as JSON
//	certs/<name>.der  certificate
package store
