// Package session runs BAKE key agreement between stored identities.
//
// A handshake is framed over any io.ReadWriter. The certificates and keys of
// both sides come from the key and certificate stores; peer certificates are
// accepted only when signed directly by the configured trust anchor.
package session
