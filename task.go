package handshake

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/btkit/handshake/btproto"
	"github.com/btkit/handshake/filter"
)

// taskState tracks an attempt through its lifecycle. The four terminal
// states are mutually exclusive and entered at most once.
type taskState int

const (
	stateInitiating taskState = iota
	stateExchanging
	stateValidating
	stateCompleted
	stateRejected
	stateTimedOut
	stateTransportFailed
)

func (s taskState) String() string {
	switch s {
	case stateInitiating:
		return "initiating"
	case stateExchanging:
		return "exchanging"
	case stateValidating:
		return "validating"
	case stateCompleted:
		return "completed"
	case stateRejected:
		return "rejected"
	case stateTimedOut:
		return "timed_out"
	case stateTransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}

// task is one handshake attempt. It owns its connection until the attempt
// either completes, transferring ownership through the CompleteMessage,
// or fails, closing it.
type task struct {
	h       *Handshaker
	id      uuid.UUID
	inbound bool

	// addr is the dial target; empty for inbound attempts.
	addr string

	// expected is the swarm claimed up front; nil defers the claim until
	// the peer's preamble arrives.
	expected *btproto.InfoHash

	// localExt is the bitset advertised for this attempt.
	localExt btproto.Extensions

	conn  net.Conn
	state taskState
	log   *logrus.Entry
}

func (h *Handshaker) newOutboundTask(msg InitiateMessage) *task {
	ext := h.cfg.Extensions
	if msg.Extensions != nil {
		ext = *msg.Extensions
	}
	id := uuid.New()
	return &task{
		h:        h,
		id:       id,
		addr:     msg.Addr,
		expected: msg.InfoHash,
		localExt: ext,
		log: logrus.WithFields(logrus.Fields{
			"attempt": id.String(),
			"peer":    msg.Addr,
			"inbound": false,
		}),
	}
}

func (h *Handshaker) newInboundTask(conn net.Conn) *task {
	id := uuid.New()
	return &task{
		h:        h,
		id:       id,
		inbound:  true,
		localExt: h.cfg.Extensions,
		conn:     conn,
		log: logrus.WithFields(logrus.Fields{
			"attempt": id.String(),
			"peer":    conn.RemoteAddr().String(),
			"inbound": true,
		}),
	}
}

// run drives the attempt to exactly one terminal state and releases its
// admission slot.
func (t *task) run() {
	defer t.h.wg.Done()
	defer t.h.sem.Release(1)

	ctx, cancel := context.WithTimeout(t.h.ctx, t.h.cfg.Timeout)
	defer cancel()

	msg, err := t.attempt(ctx)
	if err != nil {
		t.fail(err)
		return
	}

	t.state = stateCompleted
	t.log.WithFields(logrus.Fields{
		"peer_id":   msg.PeerID.String(),
		"info_hash": msg.InfoHash.String(),
	}).Debug("Handshake completed")

	select {
	case t.h.done <- *msg:
	case <-t.h.ctx.Done():
		// Shutdown before the consumer took ownership.
		msg.Conn.Close()
	}
}

// attempt performs the byte exchange and validation. The write of our own
// preamble and the read of the peer's progress independently: when the
// swarm is known up front the write starts immediately and runs
// concurrently with the read; otherwise the peer's preamble is read
// first and our response echoes its InfoHash.
func (t *task) attempt(ctx context.Context) (*CompleteMessage, error) {
	if t.conn == nil {
		t.state = stateInitiating
		conn, err := t.h.tr.Dial(ctx, t.addr)
		if err != nil {
			return nil, err
		}
		t.conn = conn
	}
	conn := t.conn

	// Shutdown or timeout interrupts in-flight reads and writes through
	// the deadline; the conn itself is closed by fail or by run.
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	interrupted := make(chan struct{})
	defer close(interrupted)
	go func() {
		select {
		case <-ctx.Done():
			conn.SetDeadline(time.Now())
		case <-interrupted:
		}
	}()

	t.state = stateExchanging
	proto := t.h.cfg.Protocol

	wrote := t.expected != nil
	writeErr := make(chan error, 1)
	if wrote {
		go func() {
			writeErr <- btproto.WritePreamble(conn, proto, t.localExt, *t.expected, t.h.cfg.PeerID)
		}()
	}

	pre, err := btproto.ReadPreamble(conn, proto)
	if err != nil {
		return nil, err
	}

	t.state = stateValidating
	if t.expected != nil {
		if pre.InfoHash != *t.expected {
			return nil, ErrInfoHashRejected
		}
	} else if !t.h.knownInfoHash(pre.InfoHash) {
		return nil, ErrInfoHashRejected
	}
	if pre.PeerID == t.h.cfg.PeerID {
		return nil, ErrSelfConnection
	}

	fctx := filter.Context{
		Addr:       conn.RemoteAddr(),
		InfoHash:   &pre.InfoHash,
		PeerID:     &pre.PeerID,
		Extensions: &pre.Extensions,
	}
	if t.h.filters.Evaluate(fctx) == filter.Block {
		return nil, ErrFilterBlocked
	}

	if wrote {
		if err := <-writeErr; err != nil {
			return nil, err
		}
	} else {
		if err := btproto.WritePreamble(conn, proto, t.localExt, pre.InfoHash, t.h.cfg.PeerID); err != nil {
			return nil, err
		}
	}

	conn.SetDeadline(time.Time{})
	return &CompleteMessage{
		Addr:       conn.RemoteAddr(),
		PeerID:     pre.PeerID,
		InfoHash:   pre.InfoHash,
		Extensions: t.localExt.Intersect(pre.Extensions),
		Conn:       conn,
		Inbound:    t.inbound,
	}, nil
}

// fail records the terminal state, closes the connection, and absorbs the
// error. Rejections and timeouts are routine; only transport failures
// emit a diagnostic event, and none of them disturb other attempts.
func (t *task) fail(err error) {
	switch {
	case errors.Is(err, btproto.ErrProtocolMismatch),
		errors.Is(err, ErrInfoHashRejected),
		errors.Is(err, ErrSelfConnection),
		errors.Is(err, ErrFilterBlocked):
		t.state = stateRejected
	case isTimeout(err):
		t.state = stateTimedOut
	default:
		t.state = stateTransportFailed
		if t.h.ctx.Err() == nil {
			t.h.emitEvent(Event{
				Kind:      EventTransportFailure,
				AttemptID: t.id,
				Addr:      t.peerAddr(),
				Err:       err,
				Time:      time.Now(),
			})
		}
	}

	if t.conn != nil {
		t.conn.Close()
	}
	t.log.WithFields(logrus.Fields{
		"outcome": t.state.String(),
		"error":   err.Error(),
	}).Debug("Handshake attempt dropped")
}

func (t *task) peerAddr() string {
	if t.conn != nil {
		return t.conn.RemoteAddr().String()
	}
	return t.addr
}

// isTimeout classifies deadline expiry from any layer: the attempt
// context, the conn deadline, or a transport-reported timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
