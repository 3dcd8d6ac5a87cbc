package summary

import (
	"net"
	"strings"
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/coretest"
	"firestige.xyz/netvis/internal/core/decoder"
)

var (
	hostA = net.IP{10, 0, 0, 2}
	hostB = net.IP{10, 0, 0, 3}
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		layer core.Layer
		text  string
	}{
		{
			"http request",
			coretest.TCPFrame(hostA, hostB, 51000, 80, coretest.TCPFlags{ACK: true, PSH: true}, []byte("GET /index.html HTTP/1.1\r\nHost: x\r\n\r\n")),
			core.LayerHTTP,
			"HTTP Request GET /index.html",
		},
		{
			"http response",
			coretest.TCPFrame(hostB, hostA, 80, 51000, coretest.TCPFlags{ACK: true, PSH: true}, []byte("HTTP/1.1 200 OK\r\n\r\n")),
			core.LayerHTTP,
			"HTTP Response 200 OK",
		},
		{
			"rtp",
			coretest.UDPFrame(hostA, hostB, 16384, 16386, coretest.RTPPayload(0, 42, 6720, 160)),
			core.LayerRTP,
			"RTP Payload: 160 bytes | Sequence: 42 | Timestamp: 6720",
		},
		{
			"rtcp receiver report",
			coretest.UDPFrame(hostA, hostB, 16385, 16387, coretest.RTCPPayload(201, 1)),
			core.LayerRTCPRR,
			"RTCP Receiver Report",
		},
		{
			"rtcp sender report",
			coretest.UDPFrame(hostA, hostB, 16385, 16387, coretest.RTCPPayload(200, 6)),
			core.LayerRTCPSR,
			"RTCP Sender Report",
		},
		{
			"sdp",
			coretest.UDPFrame(hostA, hostB, 9000, 9000, []byte("v=0\r\ns=Talk\r\nm=audio 49170 RTP/AVP 0\r\n")),
			core.LayerSDP,
			"SDP Session: Talk | Media: audio 49170 RTP/AVP 0",
		},
		{
			"udp",
			coretest.UDPFrame(hostA, hostB, 53, 40000, make([]byte, 24)),
			core.LayerUDP,
			"UDP Payload: 24 bytes | 10.0.0.2:53 --> 10.0.0.3:40000",
		},
		{
			"tcp syn ack",
			coretest.TCPFrame(hostA, hostB, 443, 51000, coretest.TCPFlags{SYN: true, ACK: true}, nil),
			core.LayerTCP,
			"TCP Acknowledgment Synchronisation | 10.0.0.2:443 --> 10.0.0.3:51000",
		},
		{
			"tcp no flags",
			coretest.TCPFrame(hostA, hostB, 1, 2, coretest.TCPFlags{}, nil),
			core.LayerTCP,
			"TCP | 10.0.0.2:1 --> 10.0.0.3:2",
		},
		{
			"ip",
			coretest.ICMPFrame(hostA, hostB),
			core.LayerIP,
			"IP 10.0.0.2 --> 10.0.0.3",
		},
		{
			"arp request",
			coretest.ARPFrame(1, coretest.SrcMAC, hostA, net.HardwareAddr{0, 0, 0, 0, 0, 0}, net.IP{10, 0, 0, 1}),
			core.LayerARP,
			"ARP Request - aa:bb:cc:dd:ee:ff looking for 10.0.0.1",
		},
		{
			"arp reply",
			coretest.ARPFrame(2, coretest.SrcMAC, net.IP{10, 0, 0, 1}, coretest.DstMAC, hostA),
			core.LayerARP,
			"ARP Reply - 10.0.0.1 is aa:bb:cc:dd:ee:ff",
		},
		{
			"ethernet",
			coretest.EthernetFrame(layers.EthernetTypeLinkLayerDiscovery, make([]byte, 50)),
			core.LayerEthernet,
			"Ethernet aa:bb:cc:dd:ee:ff --> 00:11:22:33:44:55 | Payload: 50 bytes",
		},
		{
			"unknown",
			[]byte{0xFF, 0xFF},
			core.LayerUnknown,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Classify(coretest.At(tt.frame, 100))
			assert.Equal(t, tt.layer, s.Layer)
			assert.Equal(t, tt.text, s.Text)
			assert.Equal(t, tt.text, Summarize(coretest.At(tt.frame, 100)))
		})
	}
}

func TestTCPFlagOrder(t *testing.T) {
	frame := coretest.TCPFrame(hostA, hostB, 1, 2,
		coretest.TCPFlags{FIN: true, SYN: true, RST: true, PSH: true, ACK: true, URG: true}, nil)

	got := Summarize(coretest.At(frame, 0))
	want := "TCP Acknowledgment Push Synchronisation Urgent Reset Finish | "
	if !strings.HasPrefix(got, want) {
		t.Errorf("Summarize() = %q, want prefix %q", got, want)
	}
}

func TestHTTPBeatsTCP(t *testing.T) {
	frame := coretest.TCPFrame(hostA, hostB, 8080, 51000, coretest.TCPFlags{ACK: true}, []byte("HTTP/1.1 301 Moved Permanently\r\n"))
	s := Classify(coretest.At(frame, 0))
	assert.Equal(t, core.LayerHTTP, s.Layer)
}

func TestLine(t *testing.T) {
	frame := coretest.ICMPFrame(hostA, hostB)
	p := coretest.At(frame, 0)

	got := Line(0, p)
	assert.Equal(t, "Packet 1: 60 bytes | IP 10.0.0.2 --> 10.0.0.3", got)
}

func BenchmarkClassifyTCP(b *testing.B) {
	p := coretest.At(coretest.TCPFrame(hostA, hostB, 443, 51000, coretest.TCPFlags{ACK: true}, make([]byte, 1200)), 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Classify(p)
	}
}

func TestRenderersCoverSummaryOrder(t *testing.T) {
	assert.Len(t, renderers, len(core.SummaryOrder))
	for _, l := range core.SummaryOrder {
		assert.Contains(t, renderers, l, "no renderer for %s", l)
	}
}

// Classify must pick the same layer as the first matching detector, so the
// per-packet lines agree with analysis.LayerCounts.
func TestClassifyAgreesWithDetectors(t *testing.T) {
	frames := [][]byte{
		coretest.TCPFrame(hostA, hostB, 8080, 51000, coretest.TCPFlags{ACK: true}, []byte("HTTP/1.1 200 OK\r\n")),
		coretest.UDPFrame(hostA, hostB, 20000, 20002, coretest.RTPPayload(0, 7, 160, 160)),
		coretest.UDPFrame(hostA, hostB, 20001, 20003, coretest.RTCPPayload(core.RTCPReceiverReport, 7)),
		coretest.UDPFrame(hostA, hostB, 20001, 20003, coretest.RTCPPayload(core.RTCPSenderReport, 6)),
		coretest.UDPFrame(hostA, hostB, 9000, 9000, []byte("v=0\r\ns=x\r\n")),
		coretest.UDPFrame(hostA, hostB, 5000, 53, []byte("query")),
		coretest.TCPFrame(hostA, hostB, 40000, 22, coretest.TCPFlags{SYN: true}, nil),
		coretest.ICMPFrame(hostA, hostB),
		coretest.ARPFrame(core.ARPRequest, coretest.SrcMAC, hostA, coretest.DstMAC, hostB),
		coretest.EthernetFrame(layers.EthernetTypeIPv6, make([]byte, 40)),
	}

	for _, f := range frames {
		want := core.LayerUnknown
		for _, d := range decoder.Ordered() {
			if d.Detect(f) {
				want = d.Layer()
				break
			}
		}
		assert.Equal(t, want, Classify(coretest.At(f, 0)).Layer)
	}
}
