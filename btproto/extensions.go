package btproto

// ExtensionsSize is the size in bytes of the reserved capability bitset.
const ExtensionsSize = 8

// Capability bits defined by the mainline protocol and its extension BEPs.
// Bits are numbered from the least-significant bit of the last reserved
// byte, so ExtExtended (bit 20) is 0x10 in reserved byte five.
const (
	// ExtDHT signals DHT participation (BEP 5).
	ExtDHT = 0

	// ExtFast signals the fast extension (BEP 6).
	ExtFast = 2

	// ExtExtended signals the extension protocol (BEP 10).
	ExtExtended = 20
)

// Extensions is the 8-byte reserved bitset exchanged during the handshake.
// Each bit toggles one optional capability. The zero value advertises
// nothing.
type Extensions [ExtensionsSize]byte

// NewExtensions returns a bitset with the given capability bits set.
func NewExtensions(bits ...uint) Extensions {
	var e Extensions
	for _, b := range bits {
		e.Set(b)
	}
	return e
}

// Has reports whether the given capability bit is set.
func (e Extensions) Has(bit uint) bool {
	if bit >= ExtensionsSize*8 {
		return false
	}
	return e[ExtensionsSize-1-bit/8]&(1<<(bit%8)) != 0
}

// Set turns on the given capability bit. Out-of-range bits are ignored.
func (e *Extensions) Set(bit uint) {
	if bit >= ExtensionsSize*8 {
		return
	}
	e[ExtensionsSize-1-bit/8] |= 1 << (bit % 8)
}

// Clear turns off the given capability bit.
func (e *Extensions) Clear(bit uint) {
	if bit >= ExtensionsSize*8 {
		return
	}
	e[ExtensionsSize-1-bit/8] &^= 1 << (bit % 8)
}

// Intersect returns the bitwise AND of both bitsets. This is the complete
// extension negotiation: a session's capability set is exactly the bits
// both sides advertised.
func (e Extensions) Intersect(other Extensions) Extensions {
	var out Extensions
	for i := range out {
		out[i] = e[i] & other[i]
	}
	return out
}

// IsZero reports whether no capability bits are set.
func (e Extensions) IsZero() bool {
	return e == Extensions{}
}
