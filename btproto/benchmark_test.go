package btproto

import (
	"bytes"
	"io"
	"testing"
)

func BenchmarkWritePreamble(b *testing.B) {
	var ih InfoHash
	var pid PeerID
	ext := NewExtensions(ExtDHT, ExtExtended)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		WritePreamble(io.Discard, ProtocolBitTorrent, ext, ih, pid)
	}
}

func BenchmarkReadPreamble(b *testing.B) {
	var ih InfoHash
	var pid PeerID

	var buf bytes.Buffer
	if err := WritePreamble(&buf, ProtocolBitTorrent, Extensions{}, ih, pid); err != nil {
		b.Fatal(err)
	}
	wire := buf.Bytes()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ReadPreamble(bytes.NewReader(wire), ProtocolBitTorrent); err != nil {
			b.Fatal(err)
		}
	}
}
