package handshake

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a diagnostic event.
type EventKind int

const (
	// EventTransportFailure reports a connect, read, or write failure on
	// one attempt. The attempt is already dropped; this is diagnostic
	// only.
	EventTransportFailure EventKind = iota

	// EventAcceptFailure reports a transient listener Accept error.
	EventAcceptFailure
)

// String returns the kind name for logging.
func (k EventKind) String() string {
	switch k {
	case EventTransportFailure:
		return "transport_failure"
	case EventAcceptFailure:
		return "accept_failure"
	default:
		return "unknown"
	}
}

// Event is a diagnostic record of a transport-level failure. Protocol
// mismatches, filter blocks, and timeouts never produce events; they are
// routine outcomes, not faults.
type Event struct {
	// Kind classifies the failure.
	Kind EventKind

	// AttemptID correlates the event with per-attempt log entries. Zero
	// for listener-level events.
	AttemptID uuid.UUID

	// Addr is the peer address involved, when known.
	Addr string

	// Err is the underlying failure.
	Err error

	// Time is when the failure occurred.
	Time time.Time
}
