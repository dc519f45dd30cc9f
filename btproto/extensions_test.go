package btproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensions_BitPositions(t *testing.T) {
	// Known wire encodings from mainline clients: DHT is 0x01 in the last
	// reserved byte, fast is 0x04 in the last byte, extension protocol is
	// 0x10 in byte five.
	tests := []struct {
		name     string
		bit      uint
		wantByte int
		wantMask byte
	}{
		{"dht", ExtDHT, 7, 0x01},
		{"fast", ExtFast, 7, 0x04},
		{"extended", ExtExtended, 5, 0x10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtensions(tt.bit)
			assert.True(t, e.Has(tt.bit))
			assert.Equal(t, tt.wantMask, e[tt.wantByte])

			e.Clear(tt.bit)
			assert.False(t, e.Has(tt.bit))
			assert.True(t, e.IsZero())
		})
	}
}

func TestExtensions_OutOfRangeBits(t *testing.T) {
	var e Extensions
	e.Set(64)
	assert.True(t, e.IsZero())
	assert.False(t, e.Has(200))
}

func TestExtensions_Intersect(t *testing.T) {
	local := NewExtensions(ExtDHT, ExtExtended)
	peer := NewExtensions(ExtExtended, ExtFast)

	got := local.Intersect(peer)
	assert.True(t, got.Has(ExtExtended))
	assert.False(t, got.Has(ExtDHT))
	assert.False(t, got.Has(ExtFast))

	// Intersection is commutative and a subset of both sides.
	assert.Equal(t, got, peer.Intersect(local))
	assert.Equal(t, got, got.Intersect(local))
	assert.Equal(t, got, got.Intersect(peer))
}

func TestExtensions_IntersectDisjoint(t *testing.T) {
	local := NewExtensions(ExtDHT)
	peer := NewExtensions(ExtFast)
	assert.True(t, local.Intersect(peer).IsZero())
}
