// Package bpace implements BPACE, a password-authenticated key establishment.
// The password key K2 = Hash(pwd) encrypts the nonces from which both sides
// derive a password-dependent generator W = SWU(Ra || Rb).
//
//	B -> A  M1 = ECB_K2(Rb)
//	A -> B  M2 = ECB_K2(Ra) || <Va>,  Va = ua·W
//	B -> A  M3 = <Vb> || [Tb],        Vb = ub·W
//	A -> B  M4 = [Ta]
//
// When Kca is unset B is done after Step4 and M4 is never sent.
package bpace
