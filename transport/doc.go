// Package transport abstracts the byte-stream endpoints the handshake
// engine runs over.
//
// The Transport interface is deliberately small: dial out, listen for
// inbound connections, nothing else. Connections are plain net.Conn
// streams; reads and writes may complete partially and are resumed by the
// caller, and deadlines are the cancellation mechanism for in-flight I/O.
//
// Two implementations are provided:
//
//	tr := transport.NewTCP()         // production TCP endpoints
//	tr := transport.NewMemory()      // in-process pipes for tests
//
// The memory transport keeps a registry of listeners keyed by synthetic
// addresses and connects dialers to them over net.Pipe, so end-to-end
// handshakes run deterministically with no sockets.
package transport
