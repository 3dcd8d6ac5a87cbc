// Package decoder implements stateless byte-level protocol decoding.
//
// Every parse function takes the whole captured frame and walks the layers
// below its protocol itself. Errors are core.ErrTruncated, core.ErrMalformed
// or core.ErrAbsent; none of them is fatal, a failed parse only means the
// protocol was not detected.
package decoder

import "firestige.xyz/netvis/internal/core"

// Decoder detects one protocol in a captured frame.
type Decoder interface {
	Layer() core.Layer
	Detect(frame []byte) bool
}

type detector struct {
	layer  core.Layer
	detect func(frame []byte) bool
}

func (d detector) Layer() core.Layer        { return d.layer }
func (d detector) Detect(frame []byte) bool { return d.detect(frame) }
func (d detector) String() string           { return string(d.layer) }

func parses[T any](parse func([]byte) (T, error)) func([]byte) bool {
	return func(frame []byte) bool {
		_, err := parse(frame)
		return err == nil
	}
}

func rtcpOfType(pt uint8) func([]byte) bool {
	return func(frame []byte) bool {
		hdr, err := RTCP(frame)
		return err == nil && hdr.PacketType == pt
	}
}

var registry = map[core.Layer]Decoder{
	core.LayerHTTP:     detector{core.LayerHTTP, parses(HTTP)},
	core.LayerRTP:      detector{core.LayerRTP, parses(RTP)},
	core.LayerRTCPRR:   detector{core.LayerRTCPRR, rtcpOfType(core.RTCPReceiverReport)},
	core.LayerRTCPSR:   detector{core.LayerRTCPSR, rtcpOfType(core.RTCPSenderReport)},
	core.LayerSDP:      detector{core.LayerSDP, parses(SDP)},
	core.LayerUDP:      detector{core.LayerUDP, parses(UDP)},
	core.LayerTCP:      detector{core.LayerTCP, parses(TCP)},
	core.LayerIP:       detector{core.LayerIP, parses(IPv4)},
	core.LayerARP:      detector{core.LayerARP, parses(ARP)},
	core.LayerEthernet: detector{core.LayerEthernet, parses(Ethernet)},
}

// For returns the decoder for a layer tag.
func For(layer core.Layer) (Decoder, bool) {
	d, ok := registry[layer]
	return d, ok
}

// MustFor is like For but panics on an unknown layer.
func MustFor(layer core.Layer) Decoder {
	d, ok := For(layer)
	if !ok {
		panic("decoder: no decoder for layer " + string(layer))
	}
	return d
}

// Ordered returns the decoders in core.SummaryOrder.
func Ordered() []Decoder {
	out := make([]Decoder, 0, len(core.SummaryOrder))
	for _, l := range core.SummaryOrder {
		out = append(out, registry[l])
	}
	return out
}
