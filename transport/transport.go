package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
)

// Transport opens outbound connections and accepts inbound ones. All
// connections are resumable byte streams; implementations must support
// deadlines on the conns they return.
type Transport interface {
	// Dial opens an outbound connection to the given address, honoring
	// cancellation of the context.
	Dial(ctx context.Context, addr string) (net.Conn, error)

	// Listen accepts inbound connections on the given address. Passing a
	// zero port allocates one; the listener's Addr reports the result.
	Listen(addr string) (net.Listener, error)
}

// TCP is the production Transport over TCP sockets.
type TCP struct {
	dialer net.Dialer
}

// NewTCP creates a TCP transport.
func NewTCP() *TCP {
	return &TCP{}
}

// Dial opens a TCP connection to addr, honoring context cancellation.
func (t *TCP) Dial(ctx context.Context, addr string) (net.Conn, error) {
	logrus.WithFields(logrus.Fields{
		"function": "TCP.Dial",
		"address":  addr,
	}).Debug("Dialing TCP connection")

	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp dial %s: %w", addr, err)
	}
	return conn, nil
}

// Listen creates a TCP listener on addr.
func (t *TCP) Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp listen %s: %w", addr, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "TCP.Listen",
		"address":    addr,
		"local_addr": ln.Addr().String(),
	}).Info("TCP listener created")

	return ln, nil
}
