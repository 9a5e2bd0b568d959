// Package accumulator maintains accumulator files for the CLI.
//
// Members and signers are stored keys; chains and trust anchors are stored
// certificates. Proofs are always made against the last entry of the file.
package accumulator
