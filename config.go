package handshake

import (
	"time"

	"github.com/btkit/handshake/btproto"
	"github.com/btkit/handshake/filter"
)

// Defaults applied by NewConfig and by New for zero-valued fields.
const (
	// DefaultTimeout abandons attempts whose peer has not completed the
	// exchange within one second.
	DefaultTimeout = 1000 * time.Millisecond

	// DefaultMaxHandshakes bounds concurrent in-flight attempts.
	DefaultMaxHandshakes = 1000

	// DefaultSinkBufferSize is the ingress buffer for InitiateMessages
	// awaiting admission.
	DefaultSinkBufferSize = 1000

	// DefaultDoneBufferSize is the egress buffer for CompleteMessages
	// awaiting the consumer.
	DefaultDoneBufferSize = 10

	// DefaultEventBufferSize is the diagnostics buffer; events beyond it
	// are dropped, never queued.
	DefaultEventBufferSize = 10
)

// Config is the immutable configuration snapshot of a Handshaker. All
// fields except PeerID have working defaults.
type Config struct {
	// PeerID is the 20-byte local identity presented to every peer.
	// Required; generate one with btproto.NewPeerID.
	PeerID btproto.PeerID

	// Protocol is the handshake's identifying string. Defaults to the
	// standard "BitTorrent protocol" literal.
	Protocol btproto.Protocol

	// Timeout abandons an unfinished attempt after this duration.
	Timeout time.Duration

	// MaxHandshakes bounds concurrent in-flight attempts, counting both
	// outbound-initiated and inbound-accepted.
	MaxHandshakes int

	// Extensions is the locally advertised capability bitset.
	Extensions btproto.Extensions

	// Filters seeds the admission filter chain; more can be added and
	// removed at runtime.
	Filters []filter.Filter

	// BindAddr is where inbound connections are accepted. An empty
	// address or zero port lets the transport allocate one.
	BindAddr string

	// KnownInfoHash reports whether the local side is willing to serve a
	// swarm. It is consulted for attempts whose InfoHash was not known up
	// front (inbound, or outbound with a nil expected InfoHash). Nil
	// means no such swarms exist and those attempts are rejected.
	// Implementations are called concurrently and must be safe for that.
	KnownInfoHash func(btproto.InfoHash) bool

	// SinkBufferSize is the ingress buffer for pending InitiateMessages.
	SinkBufferSize int

	// DoneBufferSize is the egress buffer for pending CompleteMessages.
	DoneBufferSize int

	// EventBufferSize is the diagnostics event buffer.
	EventBufferSize int
}

// NewConfig creates a configuration with the given local identity and
// defaults for everything else.
func NewConfig(peerID btproto.PeerID) *Config {
	return &Config{
		PeerID:          peerID,
		Protocol:        btproto.ProtocolBitTorrent,
		Timeout:         DefaultTimeout,
		MaxHandshakes:   DefaultMaxHandshakes,
		SinkBufferSize:  DefaultSinkBufferSize,
		DoneBufferSize:  DefaultDoneBufferSize,
		EventBufferSize: DefaultEventBufferSize,
	}
}

// withDefaults returns a copy with zero-valued optional fields filled in.
func (c *Config) withDefaults() Config {
	out := *c
	if out.Protocol == "" {
		out.Protocol = btproto.ProtocolBitTorrent
	}
	if out.Timeout == 0 {
		out.Timeout = DefaultTimeout
	}
	if out.MaxHandshakes == 0 {
		out.MaxHandshakes = DefaultMaxHandshakes
	}
	if out.SinkBufferSize == 0 {
		out.SinkBufferSize = DefaultSinkBufferSize
	}
	if out.DoneBufferSize == 0 {
		out.DoneBufferSize = DefaultDoneBufferSize
	}
	if out.EventBufferSize == 0 {
		out.EventBufferSize = DefaultEventBufferSize
	}
	return out
}

// validate reports the first construction-time configuration error.
func (c *Config) validate() error {
	if c.PeerID.IsZero() {
		return ErrMissingPeerID
	}
	if err := c.Protocol.Validate(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxHandshakes < 0 {
		return ErrInvalidMaxHandshakes
	}
	return nil
}
