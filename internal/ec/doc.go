// Package ec implements the prime-field short Weierstrass curve layer: the
// standard parameter sets indexed by security level, point and scalar
// encodings, the SWU hash-to-curve map, a Schnorr-type signature and the
// public-key key wrap used by containers.
//
// # Encodings
//
// Scalars are no = l/4 octets little-endian. A point is encoded as x || y,
// each coordinate no octets little-endian. The point at infinity has no
// encoding and every decoded point is checked against the curve equation.
//
// # Curves
//
// Level 128, 192 and 256 map to the twisted brainpool curves P256t1, P384t1
// and P512t1. All three have a = p - 3, prime order and cofactor 1, so the
// generic crypto/elliptic arithmetic applies to them unchanged.
//
// # Security notes
//
// The big.Int arithmetic is not constant time. Long-term private keys are
// multiplied with MulBlind, which splits the scalar into two random shares.
package ec
