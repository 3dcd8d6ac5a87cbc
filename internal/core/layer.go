package core

// Layer tags the protocol a packet was classified as.
type Layer string

// Layer tags, in no particular order. Summaries use the first matching
// tag in SummaryOrder.
const (
	LayerHTTP     Layer = "HTTP"
	LayerRTP      Layer = "RTP"
	LayerRTCPRR   Layer = "RTCP-RR"
	LayerRTCPSR   Layer = "RTCP-SR"
	LayerSDP      Layer = "SDP"
	LayerUDP      Layer = "UDP"
	LayerTCP      Layer = "TCP"
	LayerIP       Layer = "IP"
	LayerARP      Layer = "ARP"
	LayerEthernet Layer = "Ethernet"
	LayerUnknown  Layer = "Unknown"
)

// SummaryOrder is the priority order used when classifying a packet:
// most specific protocol first.
var SummaryOrder = []Layer{
	LayerHTTP,
	LayerRTP,
	LayerRTCPRR,
	LayerRTCPSR,
	LayerSDP,
	LayerUDP,
	LayerTCP,
	LayerIP,
	LayerARP,
	LayerEthernet,
}

func (l Layer) String() string { return string(l) }
