// Package bsts implements BSTS, a station-to-station key establishment in
// which each side proves possession of its long-term key with an implicit
// signature sent under encryption together with its certificate.
//
//	B -> A  M1 = <Vb>
//	A -> B  M2 = <Va> || Ya || Ta,  Ya = CFB_K2(0^128)(sa || certA)
//	B -> A  M3 = Yb || Tb,           Yb = CFB_K2(1^128)(sb || certB)
//
// Key confirmation is mandatory on both sides.
package bsts
