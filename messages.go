package handshake

import (
	"net"

	"github.com/btkit/handshake/btproto"
)

// InitiateMessage requests an outbound handshake. It is consumed by the
// attempt that handles it.
type InitiateMessage struct {
	// Addr is the peer's dialable address.
	Addr string

	// InfoHash is the swarm the handshake claims, when known up front.
	// Nil defers the claim: the peer's preamble is read first and its
	// InfoHash checked against the KnownInfoHash predicate. This is the
	// private/unlisted-swarm case where the initiator learns the swarm
	// from the response.
	InfoHash *btproto.InfoHash

	// Extensions overrides the configured advertised bitset for this
	// attempt. Nil advertises the configured set.
	Extensions *btproto.Extensions
}

// CompleteMessage is the result of a fully-validated handshake. Ownership
// of Conn transfers to the receiver; the engine retains nothing.
type CompleteMessage struct {
	// Addr is the peer's remote address.
	Addr net.Addr

	// PeerID is the identity the peer presented.
	PeerID btproto.PeerID

	// InfoHash is the swarm both sides agreed on.
	InfoHash btproto.InfoHash

	// Extensions is the negotiated capability set: the bitwise
	// intersection of both advertised bitsets.
	Extensions btproto.Extensions

	// Conn is the validated connection, positioned just past the
	// preamble exchange, ready for the peer wire protocol.
	Conn net.Conn

	// Inbound reports whether the peer connected to us.
	Inbound bool
}

// DiscoveryInfo describes the locally advertised listening endpoint for
// subsystems that announce it to other peers, e.g. peer exchange.
type DiscoveryInfo struct {
	// PeerID is the local identity.
	PeerID btproto.PeerID

	// Addr is the bound listening address.
	Addr net.Addr

	// Port is the listening port, or zero when the address has none.
	Port uint16
}
