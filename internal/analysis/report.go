package analysis

import (
	"firestige.xyz/netvis/internal/core"
)

// Report gathers every statistic of a capture in a serializable form.
type Report struct {
	Packets          int            `json:"packets" yaml:"packets"`
	TotalBytes       int            `json:"total_bytes" yaml:"total_bytes"`
	StartSecond      int64          `json:"start_second" yaml:"start_second"`
	DurationSeconds  int64          `json:"duration_seconds" yaml:"duration_seconds"`
	BytesPerSecond   []SeriesPoint  `json:"bytes_per_second" yaml:"bytes_per_second"`
	PacketsPerSecond []SeriesPoint  `json:"packets_per_second" yaml:"packets_per_second"`
	Layers           map[string]int `json:"layers" yaml:"layers"`
	TCPResets        int            `json:"tcp_resets" yaml:"tcp_resets"`
	TCPUrgent        int            `json:"tcp_urgent" yaml:"tcp_urgent"`
	Connections      []string       `json:"connections" yaml:"connections"`
}

// SeriesPoint is one bucket of a Series.
type SeriesPoint struct {
	Second int64 `json:"second" yaml:"second"`
	Value  int   `json:"value" yaml:"value"`
}

// Points flattens the series in ascending key order.
func (s Series) Points() []SeriesPoint {
	keys := s.Keys()
	out := make([]SeriesPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, SeriesPoint{Second: k, Value: s[k]})
	}
	return out
}

// BuildReport computes all statistics, normalizing time to the earliest
// packet.
func BuildReport(packets []core.Packet) (Report, error) {
	start, err := StartSecond(packets)
	if err != nil {
		return Report{}, err
	}
	bps, err := BytesPerSecond(packets, start)
	if err != nil {
		return Report{}, err
	}
	pps, err := PacketsPerSecond(packets, start)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Packets:          len(packets),
		TotalBytes:       TotalSize(packets),
		StartSecond:      start,
		BytesPerSecond:   bps.Points(),
		PacketsPerSecond: pps.Points(),
		Layers:           make(map[string]int),
		TCPResets:        ResetCount(packets),
		TCPUrgent:        UrgentCount(packets),
	}
	if keys := bps.Keys(); len(keys) > 0 {
		r.DurationSeconds = keys[len(keys)-1] + 1
	}
	for layer, n := range LayerCounts(packets) {
		r.Layers[layer.String()] = n
	}
	for _, c := range UniqueConnections(packets) {
		r.Connections = append(r.Connections, c.String())
	}
	return r, nil
}
