// Package container implements the AEAD container: a streaming authenticated
// encryption format whose DER header carries the wrapped session key.
//
// # Layout
//
//	DER(Header) || ct_1 || [itag_1] || ... || ct_n || final_tag
//
//	Header     ::= [APPLICATION 78] { keyload, iv OCTET STRING(16), itag INTEGER }
//	KeyloadPKE ::= [APPLICATION 75] { ekey OCTET STRING, certLen INTEGER, cert OCTET STRING OPTIONAL }
//	KeyloadPWD ::= [APPLICATION 76] { salt OCTET STRING(8), iter INTEGER, ekey OCTET STRING(48) }
//
// The session key K yields three stream keys by key replacement: the CTR
// encryption key, the MAC key and the finalization key. The running MAC
// covers the encoded header, the length-prefixed associated data and the
// ciphertext. An intermediate tag (the first 8 octets of the running MAC) is
// emitted after every itag MiB of ciphertext when more ciphertext follows. The
// final tag is the MAC under the finalization key of the running MAC and the
// ciphertext length.
//
// # Errors
//
// Decrypt reports a malformed header or a tag mismatch as domain.ErrBadFile
// and a key that cannot be unwrapped as domain.ErrAuth. It stops writing
// plaintext at the first failing tag.
package container
