package btproto

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrProtocolMismatch indicates the peer's protocol string differs from ours
	ErrProtocolMismatch = errors.New("peer protocol string mismatch")
)

// Preamble is the decoded form of the fixed handshake preamble a peer sends.
type Preamble struct {
	Protocol   Protocol
	Extensions Extensions
	InfoHash   InfoHash
	PeerID     PeerID
}

// WritePreamble writes the handshake preamble in a single Write call:
// [len(1)][protocol][reserved(8)][InfoHash(20)][PeerID(20)].
func WritePreamble(w io.Writer, p Protocol, ext Extensions, ih InfoHash, pid PeerID) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buf := make([]byte, 0, p.PreambleSize())
	buf = append(buf, byte(len(p)))
	buf = append(buf, p...)
	buf = append(buf, ext[:]...)
	buf = append(buf, ih[:]...)
	buf = append(buf, pid[:]...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing handshake preamble: %w", err)
	}
	return nil
}

// ReadPreamble reads and decodes a peer's handshake preamble, validating
// the protocol string against the expected dialect. The length byte and
// protocol bytes are checked before the remaining fields are read, so a
// peer speaking a different dialect is rejected without consuming its
// reserved bytes or identifiers. Reads may complete partially on the
// underlying stream; io.ReadFull resumes them.
func ReadPreamble(r io.Reader, expect Protocol) (*Preamble, error) {
	if err := expect.Validate(); err != nil {
		return nil, err
	}

	var length [1]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, fmt.Errorf("reading protocol length: %w", err)
	}
	if int(length[0]) != len(expect) {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrProtocolMismatch, length[0], len(expect))
	}

	proto := make([]byte, len(expect))
	if _, err := io.ReadFull(r, proto); err != nil {
		return nil, fmt.Errorf("reading protocol string: %w", err)
	}
	if !bytes.Equal(proto, []byte(expect)) {
		return nil, fmt.Errorf("%w: got %q", ErrProtocolMismatch, proto)
	}

	rest := make([]byte, ExtensionsSize+IDSize+IDSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, fmt.Errorf("reading handshake fields: %w", err)
	}

	pre := &Preamble{Protocol: expect}
	copy(pre.Extensions[:], rest[:ExtensionsSize])
	copy(pre.InfoHash[:], rest[ExtensionsSize:ExtensionsSize+IDSize])
	copy(pre.PeerID[:], rest[ExtensionsSize+IDSize:])
	return pre, nil
}
