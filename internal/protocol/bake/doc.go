// Package bake holds what the BMQV, BSTS and BPACE key-establishment protocols
// share: the key derivation function, session settings, certificate handles,
// confirmation tags, the step state machine and the transport helpers that
// drive a party to completion.
//
// # Driving a session
//
// Each protocol exposes its steps as methods on a session. The NewInitiator and
// NewResponder adapters in the protocol packages wrap a session into a Party,
// whose Next method consumes the peer's last message and returns the next
// message to send. Run pumps a Party over a Transport and returns the session
// key K0. Empty messages are never sent: a party whose next message would be
// empty reports Done instead.
package bake
