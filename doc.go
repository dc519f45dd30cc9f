// Package handshake implements a concurrent peer-connection handshake
// engine for the BitTorrent peer wire protocol.
//
// The engine accepts outbound handshake requests and inbound raw
// connections, drives the fixed 68-byte preamble exchange to establish
// peer identity and capability, applies a mutable admission-filter chain,
// negotiates protocol extensions, and emits only fully-validated
// connections to the caller. Rejections, timeouts, and malformed peers
// are routine outcomes of exposure to the open network: they are absorbed
// internally and never surface as engine errors.
//
// Example:
//
//	pid, _ := btproto.NewPeerID(rand.Reader, "-BK0100-")
//	cfg := handshake.NewConfig(pid)
//	cfg.BindAddr = ":6881"
//	cfg.Extensions = btproto.NewExtensions(btproto.ExtDHT, btproto.ExtExtended)
//	cfg.KnownInfoHash = store.Contains
//
//	h, err := handshake.New(cfg, transport.NewTCP())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	go func() {
//	    for done := range h.Completed() {
//	        // done.Conn is validated and owned by the receiver
//	        peerwire.Serve(done.Conn, done.PeerID, done.InfoHash, done.Extensions)
//	    }
//	}()
//
//	h.Initiate(ctx, handshake.InitiateMessage{
//	    Addr:     "198.51.100.7:6881",
//	    InfoHash: &infoHash,
//	})
//
// # Admission and backpressure
//
// At most MaxHandshakes attempts are in flight at once, counting both
// directions. Outbound submissions backpressure the caller through the
// bounded ingress buffer; excess inbound connections are accepted and
// immediately closed, deliberately shedding load instead of queuing,
// since unauthenticated inbound connections are the primary
// resource-exhaustion vector.
//
// # Filters
//
// The filter chain is consulted twice per attempt: at admission with the
// facts known so far, and again after the byte exchange with the peer's
// address, InfoHash, PeerID, and advertised extensions. Filters can be
// added and removed at runtime; evaluations always see a consistent
// snapshot.
package handshake
