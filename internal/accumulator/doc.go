// Package accumulator implements an append-only accumulator of private keys
// with zero-knowledge membership proofs, and the signed file that records its
// history.
//
// An accumulator of length m is a list of m curve points. Init starts it with
// one point, derived from a public name or random. Add multiplies every point
// by the new member's private key d and appends the previous first point, so
// the member can later show d·Acc[j] = Acc[0] for its position j. Later
// additions multiply every point by their own keys, which preserves the
// relation.
//
// A member derives its public key Der(Acc, d) = d·P, where P is a point
// hashed from the accumulator, and proves with ProveDer that the same d
// relates some Acc[j] to Acc[0] without revealing j. The proof may bind
// associated data and then doubles as a signature.
//
// # File format
//
//	AccFile ::= LE-u16 level || Entry_0 || Entry_1 || ...
//	Entry   ::= SEQUENCE { acc OCTET STRING, prvAdd OCTET STRING OPTIONAL, sig OCTET STRING OPTIONAL }
//
// Every entry after the first carries the addition proof and the adder's
// signature over acc || prvAdd.
package accumulator
