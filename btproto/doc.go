// Package btproto provides the wire-level primitives of the BitTorrent
// peer handshake: identifiers, the reserved-bits capability bitset, and
// the fixed handshake preamble codec.
//
// # Identifiers
//
// PeerID and InfoHash are both exactly 20 bytes. A PeerID names a client
// instance and is generated once per process (or injected); an InfoHash
// names the content swarm a handshake claims to belong to:
//
//	pid, err := btproto.NewPeerID(rand.Reader, "-BK0100-")
//	ih, err := btproto.InfoHashFromHex("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
//
// # Preamble
//
// The handshake preamble is the fixed initial exchange establishing
// protocol, capabilities, and identity. For the standard 19-byte protocol
// string it is 68 bytes:
//
//	[len(1)][protocol string(len)][reserved(8)][InfoHash(20)][PeerID(20)]
//
// WritePreamble and ReadPreamble operate on plain io.Writer/io.Reader so
// the same codec serves sockets, pipes, and in-memory buffers. ReadPreamble
// validates the length byte and protocol bytes before consuming the rest
// of the message, so dialect mismatches fail without reading 48 further
// bytes from an untrusted peer.
//
// # Extensions
//
// Extensions is the 8-byte reserved bitset exchanged during the handshake.
// Bits are numbered from the least-significant bit of the final reserved
// byte, matching mainline client numbering: bit 0 is DHT, bit 2 is the
// fast extension, bit 20 is the extension protocol. The negotiated
// capability set of a session is the bitwise intersection of both sides'
// advertised bitsets:
//
//	negotiated := local.Intersect(peer)
package btproto
