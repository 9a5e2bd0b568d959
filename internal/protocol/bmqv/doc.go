// Package bmqv implements BMQV, an MQV-style authenticated key establishment
// with implicit authentication by long-term keys and optional explicit key
// confirmation.
//
// Party B speaks first:
//
//	B -> A  M1 = <Vb>
//	A -> B  M2 = <Va> || [Ta]
//	B -> A  M3 = [Tb]
//
// Ta is present iff Kca is set and Tb iff Kcb is set. When Kcb is unset A is
// done after Step3 and M3 is never sent.
package bmqv
