package btproto

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity(t *testing.T) (InfoHash, PeerID) {
	t.Helper()
	ih, err := InfoHashFromBytes(bytes.Repeat([]byte{0xAA}, IDSize))
	require.NoError(t, err)
	pid, err := PeerIDFromBytes(bytes.Repeat([]byte{0x01}, IDSize))
	require.NoError(t, err)
	return ih, pid
}

func TestPreamble_WireLayout(t *testing.T) {
	ih, pid := testIdentity(t)
	ext := NewExtensions(ExtDHT, ExtExtended)

	var buf bytes.Buffer
	require.NoError(t, WritePreamble(&buf, ProtocolBitTorrent, ext, ih, pid))

	wire := buf.Bytes()
	require.Len(t, wire, 68)
	assert.Equal(t, byte(19), wire[0])
	assert.Equal(t, "BitTorrent protocol", string(wire[1:20]))
	assert.Equal(t, ext[:], wire[20:28])
	assert.Equal(t, ih[:], wire[28:48])
	assert.Equal(t, pid[:], wire[48:68])
}

func TestPreamble_RoundTrip(t *testing.T) {
	ih, pid := testIdentity(t)
	ext := NewExtensions(ExtFast)

	var buf bytes.Buffer
	require.NoError(t, WritePreamble(&buf, ProtocolBitTorrent, ext, ih, pid))

	pre, err := ReadPreamble(&buf, ProtocolBitTorrent)
	require.NoError(t, err)
	assert.Equal(t, ProtocolBitTorrent, pre.Protocol)
	assert.Equal(t, ext, pre.Extensions)
	assert.Equal(t, ih, pre.InfoHash)
	assert.Equal(t, pid, pre.PeerID)
}

func TestPreamble_AlternateDialect(t *testing.T) {
	ih, pid := testIdentity(t)
	dialect := Protocol("Custom wire dialect")

	var buf bytes.Buffer
	require.NoError(t, WritePreamble(&buf, dialect, Extensions{}, ih, pid))

	pre, err := ReadPreamble(&buf, dialect)
	require.NoError(t, err)
	assert.Equal(t, dialect, pre.Protocol)

	// The same bytes fail against the standard dialect.
	var again bytes.Buffer
	require.NoError(t, WritePreamble(&again, dialect, Extensions{}, ih, pid))
	_, err = ReadPreamble(&again, ProtocolBitTorrent)
	assert.ErrorIs(t, err, ErrProtocolMismatch)
}

func TestReadPreamble_LengthMismatch(t *testing.T) {
	ih, pid := testIdentity(t)

	var buf bytes.Buffer
	require.NoError(t, WritePreamble(&buf, Protocol("short"), Extensions{}, ih, pid))

	_, err := ReadPreamble(&buf, ProtocolBitTorrent)
	assert.ErrorIs(t, err, ErrProtocolMismatch)
}

func TestReadPreamble_WrongBytesSameLength(t *testing.T) {
	ih, pid := testIdentity(t)
	imposter := Protocol("bitTORRENT protocol") // same length, different bytes

	var buf bytes.Buffer
	require.NoError(t, WritePreamble(&buf, imposter, Extensions{}, ih, pid))

	_, err := ReadPreamble(&buf, ProtocolBitTorrent)
	assert.ErrorIs(t, err, ErrProtocolMismatch)
}

func TestReadPreamble_Truncated(t *testing.T) {
	ih, pid := testIdentity(t)

	var buf bytes.Buffer
	require.NoError(t, WritePreamble(&buf, ProtocolBitTorrent, Extensions{}, ih, pid))

	truncated := bytes.NewReader(buf.Bytes()[:40])
	_, err := ReadPreamble(truncated, ProtocolBitTorrent)
	assert.Error(t, err)
}

func TestWritePreamble_InvalidProtocol(t *testing.T) {
	ih, pid := testIdentity(t)

	err := WritePreamble(&bytes.Buffer{}, Protocol(""), Extensions{}, ih, pid)
	assert.ErrorIs(t, err, ErrProtocolEmpty)

	long := Protocol(strings.Repeat("x", 256))
	err = WritePreamble(&bytes.Buffer{}, long, Extensions{}, ih, pid)
	assert.ErrorIs(t, err, ErrProtocolTooLong)
}
