// Package crypto binds the symmetric primitives the protocols ride on.
//
// Contents
//
//   - 128-bit block cipher with a 256-bit key (NewBlock) and its modes:
//     ECB with ciphertext stealing, CFB, CTR, CMAC (MAC), wide-block
//     encryption (WBLEncrypt), key replacement (KRP) and authenticated key
//     wrap (KWPWrap / KWPUnwrap)
//   - PBKDF2 for password-derived keys
//   - the 256-bit hash (Hash) and the level hash (LevelHash)
//   - a duplex sponge (Prg) used for Fiat-Shamir challenges and as a
//     deterministic random source in tests
//   - short public-key fingerprints (Fingerprint)
//
// # Notes
//
// Every function that derives or unwraps key material returns a fresh slice.
// Callers own it and should wipe it with memzero.Zero when done.
package crypto
