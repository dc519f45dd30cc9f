package btproto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// IDSize is the size in bytes of both PeerID and InfoHash.
const IDSize = 20

var (
	// ErrInvalidIDLength indicates an identifier was not exactly 20 bytes
	ErrInvalidIDLength = errors.New("identifier must be exactly 20 bytes")

	// ErrPrefixTooLong indicates a PeerID prefix left no room for random bytes
	ErrPrefixTooLong = errors.New("peer ID prefix too long")
)

// PeerID is the 20-byte identifier a client instance presents during the
// handshake. It is opaque on the wire; by convention most clients embed an
// Azureus-style "-XX0000-" prefix naming the client and version.
type PeerID [IDSize]byte

// NewPeerID generates a PeerID from the given randomness source, copying
// the optional prefix into the leading bytes and filling the remainder
// with random data. The randomness source is an injected capability so
// callers control determinism; pass crypto/rand.Reader for production use.
func NewPeerID(random io.Reader, prefix string) (PeerID, error) {
	var id PeerID
	if len(prefix) > IDSize {
		return id, ErrPrefixTooLong
	}
	if random == nil {
		random = rand.Reader
	}

	copy(id[:], prefix)
	if _, err := io.ReadFull(random, id[len(prefix):]); err != nil {
		return id, fmt.Errorf("generating peer ID: %w", err)
	}
	return id, nil
}

// PeerIDFromBytes constructs a PeerID from a byte slice, validating length.
func PeerIDFromBytes(b []byte) (PeerID, error) {
	var id PeerID
	if len(b) != IDSize {
		return id, fmt.Errorf("%w: got %d", ErrInvalidIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// IsZero reports whether the PeerID is all zero bytes, i.e. unset.
func (id PeerID) IsZero() bool {
	return id == PeerID{}
}

// String returns the hexadecimal representation of the PeerID.
func (id PeerID) String() string {
	return hex.EncodeToString(id[:])
}

// InfoHash is the 20-byte identifier of a content swarm. A handshake
// claims membership in exactly one swarm by presenting its InfoHash.
type InfoHash [IDSize]byte

// InfoHashFromBytes constructs an InfoHash from a byte slice, validating length.
func InfoHashFromBytes(b []byte) (InfoHash, error) {
	var ih InfoHash
	if len(b) != IDSize {
		return ih, fmt.Errorf("%w: got %d", ErrInvalidIDLength, len(b))
	}
	copy(ih[:], b)
	return ih, nil
}

// InfoHashFromHex parses an InfoHash from its 40-character hexadecimal form.
func InfoHashFromHex(s string) (InfoHash, error) {
	var ih InfoHash
	if len(s) != IDSize*2 {
		return ih, fmt.Errorf("%w: got %d hex characters", ErrInvalidIDLength, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ih, fmt.Errorf("parsing info hash: %w", err)
	}
	copy(ih[:], b)
	return ih, nil
}

// String returns the hexadecimal representation of the InfoHash.
func (ih InfoHash) String() string {
	return hex.EncodeToString(ih[:])
}
