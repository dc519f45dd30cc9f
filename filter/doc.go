// Package filter implements the admission filter chain consulted for every
// handshake attempt.
//
// A Filter is a pure predicate over the facts known about an attempt: the
// peer address, and once the peer's preamble has arrived, its InfoHash,
// PeerID, and advertised extension bits. Filters are evaluated in insertion
// order and the chain short-circuits on the first Block; an attempt is
// admitted only when every filter allows it.
//
// The chain is the one piece of engine state read concurrently by many
// handshake tasks while being mutated by callers. It uses copy-on-write
// snapshots published through an atomic pointer: Evaluate loads a complete
// immutable filter set once and uses it for the whole evaluation, while
// Add and Remove publish a fresh set. Readers never block writers and
// writers never block readers; an in-flight evaluation keeps using the
// snapshot it captured.
//
// Fields of a Context may be nil before the peer's preamble has been read.
// A filter that cannot decide without a missing field must return Allow
// for that evaluation; the chain is re-evaluated with the full Context
// after the byte exchange, so the decision is deferred, never lost.
package filter
