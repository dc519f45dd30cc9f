package filter

import (
	"net"

	"github.com/btkit/handshake/btproto"
)

// BlockAddrs returns a filter that blocks attempts whose peer host matches
// any of the given hosts. Hosts are compared without ports, so "10.0.0.1"
// blocks every port on that address. Attempts without an address Allow.
func BlockAddrs(id string, hosts ...string) Filter {
	blocked := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		blocked[h] = struct{}{}
	}
	return Func(id, func(ctx Context) Decision {
		if ctx.Addr == nil {
			return Allow
		}
		host := ctx.Addr.String()
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if _, ok := blocked[host]; ok {
			return Block
		}
		return Allow
	})
}

// AllowInfoHashes returns a filter that blocks any attempt whose InfoHash
// is outside the given set. An attempt whose InfoHash is not yet known
// Allows; it is re-checked once the peer's preamble arrives.
func AllowInfoHashes(id string, hashes ...btproto.InfoHash) Filter {
	allowed := make(map[btproto.InfoHash]struct{}, len(hashes))
	for _, ih := range hashes {
		allowed[ih] = struct{}{}
	}
	return Func(id, func(ctx Context) Decision {
		if ctx.InfoHash == nil {
			return Allow
		}
		if _, ok := allowed[*ctx.InfoHash]; ok {
			return Allow
		}
		return Block
	})
}

// BlockPeerIDs returns a filter that blocks attempts from the given client
// instances. PeerIDs are only known after the byte exchange, so this
// filter Allows at the admission stage and decides during validation.
func BlockPeerIDs(id string, peers ...btproto.PeerID) Filter {
	blocked := make(map[btproto.PeerID]struct{}, len(peers))
	for _, p := range peers {
		blocked[p] = struct{}{}
	}
	return Func(id, func(ctx Context) Decision {
		if ctx.PeerID == nil {
			return Allow
		}
		if _, ok := blocked[*ctx.PeerID]; ok {
			return Block
		}
		return Allow
	})
}
