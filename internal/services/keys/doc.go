// Package keys manages creation, encryption and loading of named key pairs
// and the certificates issued for them.
//
// It enforces passphrase policy, generates keys on the standard curve of the
// requested level and persists them via domain.KeyStore and domain.CertStore.
package keys
