package handshake

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btkit/handshake/btproto"
	"github.com/btkit/handshake/transport"
)

func testPeerID(t *testing.T, fill byte) btproto.PeerID {
	t.Helper()
	var id btproto.PeerID
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig(testPeerID(t, 0x01))

	assert.Equal(t, btproto.ProtocolBitTorrent, cfg.Protocol)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxHandshakes, cfg.MaxHandshakes)
	assert.Equal(t, DefaultSinkBufferSize, cfg.SinkBufferSize)
	assert.Equal(t, DefaultDoneBufferSize, cfg.DoneBufferSize)
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tr := transport.NewMemory()

	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{"nil config", nil, ErrNilConfig},
		{"missing peer id", &Config{}, ErrMissingPeerID},
		{
			"negative timeout",
			&Config{PeerID: testPeerID(t, 0x01), Timeout: -time.Second},
			ErrInvalidTimeout,
		},
		{
			"negative max handshakes",
			&Config{PeerID: testPeerID(t, 0x01), MaxHandshakes: -1},
			ErrInvalidMaxHandshakes,
		},
		{
			"oversized protocol",
			&Config{PeerID: testPeerID(t, 0x01), Protocol: btproto.Protocol(strings.Repeat("x", 256))},
			btproto.ErrProtocolTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tr)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_ZeroFieldsGetDefaults(t *testing.T) {
	tr := transport.NewMemory()

	// Only PeerID set; everything else zero-valued.
	h, err := New(&Config{PeerID: testPeerID(t, 0x01)}, tr)
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, btproto.ProtocolBitTorrent, h.cfg.Protocol)
	assert.Equal(t, DefaultTimeout, h.cfg.Timeout)
	assert.Equal(t, DefaultMaxHandshakes, h.cfg.MaxHandshakes)
}

func TestNew_BindFailure(t *testing.T) {
	tr := transport.NewMemory()

	first, err := New(configAt(t, 0x01, "mem:taken"), tr)
	require.NoError(t, err)
	defer first.Close()

	_, err = New(configAt(t, 0x02, "mem:taken"), tr)
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrAddrInUse)
}

// configAt builds a minimal config bound to addr for tests.
func configAt(t *testing.T, fill byte, addr string) *Config {
	t.Helper()
	cfg := NewConfig(testPeerID(t, fill))
	cfg.BindAddr = addr
	return cfg
}

func TestOpError_Format(t *testing.T) {
	err := &OpError{Op: "initiate", Addr: "10.0.0.1:6881", Err: ErrEmptyAddr}
	assert.Contains(t, err.Error(), "initiate")
	assert.Contains(t, err.Error(), "10.0.0.1:6881")
	assert.ErrorIs(t, err, ErrEmptyAddr)

	bare := &OpError{Op: "initiate", Err: ErrEmptyAddr}
	assert.NotContains(t, bare.Error(), "  ")
}
