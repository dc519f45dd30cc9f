package handshake

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/btkit/handshake/btproto"
	"github.com/btkit/handshake/filter"
	"github.com/btkit/handshake/transport"
)

// Handshaker is the engine core. It owns the bounded set of in-flight
// handshake tasks and the ingress/egress channel pair exposed to callers.
// Create one with New; it runs until Close.
type Handshaker struct {
	cfg     Config
	tr      transport.Transport
	filters *filter.Chain
	ln      net.Listener

	// sem is the single admission counter guarding MaxHandshakes.
	sem *semaphore.Weighted

	initiate chan InitiateMessage
	done     chan CompleteMessage
	events   chan Event

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New validates the configuration, binds the listener, and starts the
// engine. Configuration and bind errors are the only failures it reports;
// everything later is absorbed per attempt.
func New(cfg *Config, tr transport.Transport) (*Handshaker, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	c := cfg.withDefaults()
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("handshaker config: %w", err)
	}

	ln, err := tr.Listen(c.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("handshaker bind %s: %w", c.BindAddr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handshaker{
		cfg:      c,
		tr:       tr,
		filters:  filter.NewChain(c.Filters...),
		ln:       ln,
		sem:      semaphore.NewWeighted(int64(c.MaxHandshakes)),
		initiate: make(chan InitiateMessage, c.SinkBufferSize),
		done:     make(chan CompleteMessage, c.DoneBufferSize),
		events:   make(chan Event, c.EventBufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	logrus.WithFields(logrus.Fields{
		"function":       "New",
		"local_addr":     ln.Addr().String(),
		"peer_id":        c.PeerID.String(),
		"max_handshakes": c.MaxHandshakes,
		"timeout":        c.Timeout.String(),
	}).Info("Handshaker started")

	h.wg.Add(2)
	go h.acceptLoop()
	go h.initiateLoop()
	return h, nil
}

// Initiate submits an outbound handshake request. It backpressures the
// caller when the ingress buffer is full and fails with ErrClosed after
// shutdown. A nil expected InfoHash defers the swarm claim to the
// KnownInfoHash predicate once the peer's preamble arrives.
func (h *Handshaker) Initiate(ctx context.Context, msg InitiateMessage) error {
	if msg.Addr == "" {
		return &OpError{Op: "initiate", Err: ErrEmptyAddr}
	}
	select {
	case <-h.ctx.Done():
		return ErrClosed
	default:
	}

	select {
	case h.initiate <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return ErrClosed
	}
}

// Completed returns the egress stream of validated handshakes, in the
// order attempts finish. The channel closes on shutdown.
func (h *Handshaker) Completed() <-chan CompleteMessage {
	return h.done
}

// Events returns the diagnostic stream of transport-level failures.
// Events are dropped, never queued, when the consumer falls behind.
// The channel closes on shutdown.
func (h *Handshaker) Events() <-chan Event {
	return h.events
}

// Split returns independently owned ingress and egress handles backed by
// the engine's shared channel pair. The Sink can live with the component
// feeding peer addresses while the Stream lives with the consumer of
// validated connections; neither needs the other, and the Handshaker
// stays valid alongside both.
func (h *Handshaker) Split() (*Sink, *Stream) {
	return &Sink{h: h}, &Stream{h: h}
}

// AddFilter appends an admission filter at runtime.
func (h *Handshaker) AddFilter(f filter.Filter) {
	h.filters.Add(f)
}

// RemoveFilter removes every filter with the given ID, reporting whether
// any was present. In-flight evaluations finish on their captured
// snapshot.
func (h *Handshaker) RemoveFilter(id string) bool {
	return h.filters.Remove(id)
}

// LocalAddr returns the bound listening address.
func (h *Handshaker) LocalAddr() net.Addr {
	return h.ln.Addr()
}

// DiscoveryInfo returns the locally advertised listening information for
// subsystems that announce it to other peers.
func (h *Handshaker) DiscoveryInfo() DiscoveryInfo {
	addr := h.ln.Addr()
	info := DiscoveryInfo{PeerID: h.cfg.PeerID, Addr: addr}
	if _, portStr, err := net.SplitHostPort(addr.String()); err == nil {
		if port, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			info.Port = uint16(port)
		}
	}
	return info
}

// Close cancels every in-flight attempt, closes their connections, stops
// the listener, and closes the Completed and Events channels. It is
// idempotent and safe to call concurrently.
func (h *Handshaker) Close() error {
	h.closeOnce.Do(func() {
		h.cancel()
		h.ln.Close()
		h.wg.Wait()
		close(h.done)
		close(h.events)

		logrus.WithFields(logrus.Fields{
			"function":   "Handshaker.Close",
			"local_addr": h.ln.Addr().String(),
		}).Info("Handshaker stopped")
	})
	return nil
}

// acceptLoop admits inbound connections. When all MaxHandshakes slots are
// taken the connection is accepted and immediately closed: inbound load
// is shed, never queued.
func (h *Handshaker) acceptLoop() {
	defer h.wg.Done()

	for {
		conn, err := h.ln.Accept()
		if err != nil {
			if h.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			h.emitEvent(Event{Kind: EventAcceptFailure, Err: err, Time: time.Now()})
			logrus.WithFields(logrus.Fields{
				"function": "Handshaker.acceptLoop",
				"error":    err.Error(),
			}).Warn("Accept failed")
			continue
		}

		if !h.sem.TryAcquire(1) {
			logrus.WithFields(logrus.Fields{
				"function": "Handshaker.acceptLoop",
				"peer":     conn.RemoteAddr().String(),
			}).Warn("Inbound handshake shed, all slots in flight")
			conn.Close()
			continue
		}

		if h.filters.Evaluate(filter.Context{Addr: conn.RemoteAddr()}) == filter.Block {
			conn.Close()
			h.sem.Release(1)
			continue
		}

		h.wg.Add(1)
		go h.newInboundTask(conn).run()
	}
}

// initiateLoop admits outbound submissions. Acquiring an admission slot
// blocks, which backpressures Initiate through the bounded ingress
// buffer.
func (h *Handshaker) initiateLoop() {
	defer h.wg.Done()

	for {
		var msg InitiateMessage
		select {
		case msg = <-h.initiate:
		case <-h.ctx.Done():
			return
		}

		if h.filters.Evaluate(filter.Context{Addr: dialAddr(msg.Addr), InfoHash: msg.InfoHash}) == filter.Block {
			continue
		}

		if err := h.sem.Acquire(h.ctx, 1); err != nil {
			return
		}
		h.wg.Add(1)
		go h.newOutboundTask(msg).run()
	}
}

// knownInfoHash consults the configured swarm predicate for attempts
// whose InfoHash was not known up front.
func (h *Handshaker) knownInfoHash(ih btproto.InfoHash) bool {
	if h.cfg.KnownInfoHash == nil {
		return false
	}
	return h.cfg.KnownInfoHash(ih)
}

// emitEvent delivers a diagnostic event without blocking the engine.
func (h *Handshaker) emitEvent(ev Event) {
	select {
	case h.events <- ev:
	default:
	}
}

// dialAddr lets a not-yet-dialed target participate in filter contexts.
type dialAddr string

func (a dialAddr) Network() string { return "dial" }
func (a dialAddr) String() string  { return string(a) }
