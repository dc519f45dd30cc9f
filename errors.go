package handshake

import (
	"errors"
	"fmt"
)

// Construction-time configuration errors. These are the only fatal errors
// the engine produces; everything after New is absorbed per attempt.
var (
	// ErrNilConfig indicates New was called without a configuration
	ErrNilConfig = errors.New("configuration must not be nil")

	// ErrMissingPeerID indicates the local peer ID was left unset
	ErrMissingPeerID = errors.New("local peer ID is required")

	// ErrInvalidTimeout indicates a non-positive handshake timeout
	ErrInvalidTimeout = errors.New("handshake timeout must be positive")

	// ErrInvalidMaxHandshakes indicates a non-positive concurrency bound
	ErrInvalidMaxHandshakes = errors.New("max handshakes must be positive")
)

// Per-call errors on the caller-facing boundary.
var (
	// ErrClosed indicates the handshaker has been shut down
	ErrClosed = errors.New("handshaker closed")

	// ErrEmptyAddr indicates an InitiateMessage without a target address
	ErrEmptyAddr = errors.New("initiate message has no target address")
)

// Internal per-attempt rejection reasons. They classify why an attempt was
// dropped; they are logged, never returned to the caller.
var (
	// ErrInfoHashRejected indicates an unknown or mismatched swarm
	ErrInfoHashRejected = errors.New("info hash rejected")

	// ErrFilterBlocked indicates an admission filter blocked the attempt
	ErrFilterBlocked = errors.New("blocked by admission filter")

	// ErrSelfConnection indicates the peer presented our own peer ID
	ErrSelfConnection = errors.New("connected to self")
)

// OpError wraps a failure with the operation and peer address involved.
type OpError struct {
	Op   string // operation that caused the error
	Addr string // peer address if relevant
	Err  error  // underlying error
}

func (e *OpError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("handshake %s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("handshake %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
