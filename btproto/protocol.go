package btproto

import (
	"errors"
	"fmt"
)

// ProtocolBitTorrent is the standard identifying string of the mainline
// BitTorrent peer wire protocol, 19 bytes long.
const ProtocolBitTorrent Protocol = "BitTorrent protocol"

var (
	// ErrProtocolEmpty indicates an empty protocol string was configured
	ErrProtocolEmpty = errors.New("protocol string must not be empty")

	// ErrProtocolTooLong indicates the protocol string exceeds one length byte
	ErrProtocolTooLong = errors.New("protocol string exceeds 255 bytes")
)

// Protocol is the identifying string of a handshake dialect. Its length is
// written as the first byte of the preamble, so it is limited to 255 bytes.
// Alternate wire dialects are supported by configuring a different literal;
// the codec never hardcodes the standard string.
type Protocol string

// Validate checks that the protocol string fits the wire format.
func (p Protocol) Validate() error {
	if len(p) == 0 {
		return ErrProtocolEmpty
	}
	if len(p) > 255 {
		return fmt.Errorf("%w: got %d", ErrProtocolTooLong, len(p))
	}
	return nil
}

// PreambleSize returns the total preamble size for this protocol string:
// one length byte, the string itself, 8 reserved bytes, and two 20-byte
// identifiers. For the standard protocol this is 68.
func (p Protocol) PreambleSize() int {
	return 1 + len(p) + ExtensionsSize + IDSize + IDSize
}
