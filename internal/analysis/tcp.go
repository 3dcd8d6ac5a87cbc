package analysis

import (
	"net/netip"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/decoder"
)

// ConnectionKey identifies a TCP endpoint pair regardless of direction.
// A always sorts before or equal to B.
type ConnectionKey struct {
	A netip.AddrPort
	B netip.AddrPort
}

// NewConnectionKey canonicalizes the pair so that swapping src and dst
// yields the same key.
func NewConnectionKey(src, dst netip.AddrPort) ConnectionKey {
	if dst.Compare(src) < 0 {
		src, dst = dst, src
	}
	return ConnectionKey{A: src, B: dst}
}

func (k ConnectionKey) String() string {
	return k.A.String() + " <--> " + k.B.String()
}

// ResetCount counts TCP segments with RST set.
func ResetCount(packets []core.Packet) int {
	return countFlag(packets, core.TCPFlagRST)
}

// UrgentCount counts TCP segments with URG set.
func UrgentCount(packets []core.Packet) int {
	return countFlag(packets, core.TCPFlagURG)
}

func countFlag(packets []core.Packet, flag core.TCPFlags) int {
	n := 0
	for _, p := range packets {
		tcp, err := decoder.TCP(p.Data())
		if err == nil && tcp.Flags.Has(flag) {
			n++
		}
	}
	return n
}

// UniqueConnections returns one key per bidirectional TCP flow, in order of
// first appearance.
func UniqueConnections(packets []core.Packet) []ConnectionKey {
	seen := make(map[ConnectionKey]struct{})
	var out []ConnectionKey
	for _, p := range packets {
		tcp, err := decoder.TCP(p.Data())
		if err != nil {
			continue
		}
		key := NewConnectionKey(tcp.Src(), tcp.Dst())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
