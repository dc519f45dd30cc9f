package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
)

var (
	// ErrAddrInUse indicates a memory listener already holds the address
	ErrAddrInUse = errors.New("address already in use")

	// ErrConnRefused indicates no memory listener holds the dialed address
	ErrConnRefused = errors.New("connection refused")

	// ErrListenerClosed indicates Accept was called on a closed listener
	ErrListenerClosed = errors.New("listener closed")
)

// Memory is an in-process Transport connecting dialers to listeners over
// net.Pipe. It exists for deterministic tests: pipe conns support
// deadlines, so timeout behavior is exercised without real sockets.
type Memory struct {
	mu        sync.Mutex
	listeners map[string]*memoryListener
	nextPort  int
	nextPeer  int
}

// NewMemory creates an empty in-process transport.
func NewMemory() *Memory {
	return &Memory{listeners: make(map[string]*memoryListener), nextPort: 1}
}

// Listen registers a listener under addr. The forms ":0" and "" allocate
// a fresh synthetic address.
func (m *Memory) Listen(addr string) (net.Listener, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if addr == "" || addr == ":0" {
		addr = fmt.Sprintf("mem:%d", m.nextPort)
		m.nextPort++
	}
	if _, ok := m.listeners[addr]; ok {
		return nil, fmt.Errorf("memory listen %s: %w", addr, ErrAddrInUse)
	}

	ln := &memoryListener{
		owner:  m,
		addr:   memoryAddr(addr),
		accept: make(chan net.Conn),
		done:   make(chan struct{}),
	}
	m.listeners[addr] = ln
	return ln, nil
}

// Dial connects to the listener registered under addr, yielding one side
// of a fresh pipe. The listener's Accept receives the other side.
func (m *Memory) Dial(ctx context.Context, addr string) (net.Conn, error) {
	m.mu.Lock()
	ln := m.listeners[addr]
	local := memoryAddr(fmt.Sprintf("mempeer:%d", m.nextPeer))
	m.nextPeer++
	m.mu.Unlock()

	if ln == nil {
		return nil, fmt.Errorf("memory dial %s: %w", addr, ErrConnRefused)
	}

	client, server := net.Pipe()
	dialed := &memoryConn{Conn: client, local: local, remote: memoryAddr(addr)}
	accepted := &memoryConn{Conn: server, local: memoryAddr(addr), remote: local}

	select {
	case ln.accept <- accepted:
		return dialed, nil
	case <-ln.done:
		client.Close()
		server.Close()
		return nil, fmt.Errorf("memory dial %s: %w", addr, ErrConnRefused)
	case <-ctx.Done():
		client.Close()
		server.Close()
		return nil, ctx.Err()
	}
}

func (m *Memory) unregister(addr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, addr)
}

type memoryListener struct {
	owner     *Memory
	addr      memoryAddr
	accept    chan net.Conn
	done      chan struct{}
	closeOnce sync.Once
}

func (l *memoryListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.accept:
		return conn, nil
	case <-l.done:
		return nil, ErrListenerClosed
	}
}

func (l *memoryListener) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		l.owner.unregister(string(l.addr))
	})
	return nil
}

func (l *memoryListener) Addr() net.Addr { return l.addr }

type memoryAddr string

func (a memoryAddr) Network() string { return "mem" }
func (a memoryAddr) String() string  { return string(a) }

// memoryConn overrides the pipe's addresses so filters and logs see
// distinct per-peer endpoints.
type memoryConn struct {
	net.Conn
	local  memoryAddr
	remote memoryAddr
}

func (c *memoryConn) LocalAddr() net.Addr  { return c.local }
func (c *memoryConn) RemoteAddr() net.Addr { return c.remote }
