package filter

import (
	"net"

	"github.com/btkit/handshake/btproto"
)

// Decision is the binary outcome of one filter evaluation.
type Decision int

const (
	// Allow lets the handshake attempt proceed.
	Allow Decision = iota

	// Block rejects the handshake attempt.
	Block
)

// String returns the decision name for logging.
func (d Decision) String() string {
	if d == Block {
		return "block"
	}
	return "allow"
}

// Context carries the facts known about a handshake attempt at evaluation
// time. InfoHash, PeerID, and Extensions are nil until the peer's preamble
// has been read; filters must treat a nil field as undecidable and Allow.
type Context struct {
	Addr       net.Addr
	InfoHash   *btproto.InfoHash
	PeerID     *btproto.PeerID
	Extensions *btproto.Extensions
}

// Filter is an admission predicate. Implementations must be pure: they
// are called concurrently from many handshake tasks and must not mutate
// shared state.
type Filter interface {
	// ID names the filter for removal and logging.
	ID() string

	// Check decides whether an attempt with the given context may proceed.
	Check(ctx Context) Decision
}

// Func adapts a plain function into a Filter.
func Func(id string, fn func(ctx Context) Decision) Filter {
	return funcFilter{id: id, fn: fn}
}

type funcFilter struct {
	id string
	fn func(ctx Context) Decision
}

func (f funcFilter) ID() string                 { return f.id }
func (f funcFilter) Check(ctx Context) Decision { return f.fn(ctx) }
