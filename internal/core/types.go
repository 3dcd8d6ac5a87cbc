// Package core defines core types with zero external dependencies.
package core

import (
	"net"
	"net/netip"
)

// EthernetHeader represents L2 Ethernet frame header.
type EthernetHeader struct {
	SrcMAC     net.HardwareAddr
	DstMAC     net.HardwareAddr
	EtherType  uint16   // 0x0800=IPv4, 0x0806=ARP, <=1500 is an 802.3 length
	VLANs      []uint16 // 0~2 VLAN IDs (QinQ scenarios have 2)
	PayloadLen int
}

// ARP operations.
const (
	ARPRequest uint16 = 1
	ARPReply   uint16 = 2
)

// ARPHeader is an Ethernet/IPv4 ARP message.
type ARPHeader struct {
	Operation uint16
	SenderMAC net.HardwareAddr
	SenderIP  netip.Addr
	TargetMAC net.HardwareAddr
	TargetIP  netip.Addr
}

// IPv4Header represents the L3 IPv4 header.
type IPv4Header struct {
	SrcIP      netip.Addr
	DstIP      netip.Addr
	Protocol   uint8 // TCP=6, UDP=17
	IHL        uint8 // header length in 32-bit words
	TotalLen   uint16
	FragOffset uint16 // in 8-byte units
}

// TCPFlags is the TCP control bit set.
type TCPFlags uint8

// TCP control bits as laid out in byte 13 of the header.
const (
	TCPFlagFIN TCPFlags = 1 << iota
	TCPFlagSYN
	TCPFlagRST
	TCPFlagPSH
	TCPFlagACK
	TCPFlagURG
)

// Has reports whether every bit in f is set.
func (t TCPFlags) Has(f TCPFlags) bool { return t&f == f }

// TCPHeader carries the TCP fields used for summaries and statistics.
type TCPHeader struct {
	SrcIP   netip.Addr
	DstIP   netip.Addr
	SrcPort uint16
	DstPort uint16
	Flags   TCPFlags
}

// Src returns the source endpoint.
func (h TCPHeader) Src() netip.AddrPort { return netip.AddrPortFrom(h.SrcIP, h.SrcPort) }

// Dst returns the destination endpoint.
func (h TCPHeader) Dst() netip.AddrPort { return netip.AddrPortFrom(h.DstIP, h.DstPort) }

// UDPHeader carries the UDP fields used for summaries.
type UDPHeader struct {
	SrcIP      netip.Addr
	DstIP      netip.Addr
	SrcPort    uint16
	DstPort    uint16
	Length     uint16 // header + payload, as declared on the wire
	PayloadLen int
}

// HTTPMessage is the start line of an HTTP/1.x request or response.
type HTTPMessage struct {
	Response   bool
	Version    string
	Method     string
	URL        string
	StatusCode int
	Reason     string
}

// RTPHeader is the fixed RTP header.
type RTPHeader struct {
	PayloadType uint8
	Marker      bool
	Sequence    uint16
	Timestamp   uint32
	SSRC        uint32
	PayloadLen  int
}

// RTCP packet types handled by the decoders.
const (
	RTCPSenderReport   uint8 = 200
	RTCPReceiverReport uint8 = 201
)

// RTCPHeader is the common RTCP header.
type RTCPHeader struct {
	PacketType uint8
	Count      uint8
	Length     uint16 // in 32-bit words minus one
}

// SDPDescription keeps the session-level lines of an SDP body.
type SDPDescription struct {
	SessionName string
	Origin      string
	Media       []string
}
