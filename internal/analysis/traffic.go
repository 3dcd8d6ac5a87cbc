// Package analysis computes aggregate statistics over a finished capture.
//
// All functions are pure and read packets only through core.Packet.
package analysis

import (
	"slices"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/decoder"
)

// Series maps a second offset from the capture start to a value. Keys are
// sparse: seconds without traffic are absent.
type Series map[int64]int

// Keys returns the offsets in ascending order.
func (s Series) Keys() []int64 {
	keys := make([]int64, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Sum returns the total over all buckets.
func (s Series) Sum() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// TotalSize returns the summed frame sizes. An empty capture totals 0.
func TotalSize(packets []core.Packet) int {
	total := 0
	for _, p := range packets {
		total += p.TotalSize()
	}
	return total
}

// StartSecond returns the earliest capture second.
func StartSecond(packets []core.Packet) (int64, error) {
	if len(packets) == 0 {
		return 0, core.ErrEmptyInput
	}
	start := packets[0].CapturedAt()
	for _, p := range packets[1:] {
		start = min(start, p.CapturedAt())
	}
	return start, nil
}

// BytesPerSecond buckets frame sizes by CapturedAt-start. A packet earlier
// than start lands on a negative key.
func BytesPerSecond(packets []core.Packet, start int64) (Series, error) {
	return bucket(packets, start, func(p core.Packet) int { return p.TotalSize() })
}

// PacketsPerSecond counts packets by CapturedAt-start.
func PacketsPerSecond(packets []core.Packet, start int64) (Series, error) {
	return bucket(packets, start, func(core.Packet) int { return 1 })
}

func bucket(packets []core.Packet, start int64, value func(core.Packet) int) (Series, error) {
	if len(packets) == 0 {
		return nil, core.ErrEmptyInput
	}
	s := make(Series)
	for _, p := range packets {
		s[p.CapturedAt()-start] += value(p)
	}
	return s, nil
}

// FindByProtocol returns the packets d detects, in capture order.
func FindByProtocol(packets []core.Packet, d decoder.Decoder) []core.Packet {
	var out []core.Packet
	for _, p := range packets {
		if d.Detect(p.Data()) {
			out = append(out, p)
		}
	}
	return out
}

// LayerCounts classifies every packet with the decoders in summary order
// and counts packets per layer. Unrecognized frames count as LayerUnknown.
func LayerCounts(packets []core.Packet) map[core.Layer]int {
	ordered := decoder.Ordered()
	counts := make(map[core.Layer]int)
	for _, p := range packets {
		layer := core.LayerUnknown
		for _, d := range ordered {
			if d.Detect(p.Data()) {
				layer = d.Layer()
				break
			}
		}
		counts[layer]++
	}
	return counts
}
