// Package coretest builds captured frames for tests by serializing
// gopacket layers, so hand-written decoders are checked against an
// independent encoder.
package coretest

import (
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/netvis/internal/core"
)

// Default endpoints used by the builders.
var (
	SrcMAC = net.HardwareAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	DstMAC = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	SrcIP  = net.IP{10, 0, 0, 1}
	DstIP  = net.IP{10, 0, 0, 2}
)

// Serialize encodes ls with computed lengths and checksums. It panics on
// error since fixtures are static.
func Serialize(ls ...gopacket.SerializableLayer) []byte {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, ls...); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func ethernet(t layers.EthernetType) *layers.Ethernet {
	return &layers.Ethernet{SrcMAC: SrcMAC, DstMAC: DstMAC, EthernetType: t}
}

func ipv4(proto layers.IPProtocol, src, dst net.IP) *layers.IPv4 {
	return &layers.IPv4{Version: 4, IHL: 5, TTL: 64, Protocol: proto, SrcIP: src, DstIP: dst}
}

// TCPFlags selects control bits for TCPFrame.
type TCPFlags struct {
	FIN, SYN, RST, PSH, ACK, URG bool
}

// TCPFrame builds Ethernet/IPv4/TCP with payload.
func TCPFrame(src, dst net.IP, sport, dport uint16, f TCPFlags, payload []byte) []byte {
	ip := ipv4(layers.IPProtocolTCP, src, dst)
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(sport),
		DstPort: layers.TCPPort(dport),
		Seq:     1000,
		Window:  65535,
		FIN:     f.FIN,
		SYN:     f.SYN,
		RST:     f.RST,
		PSH:     f.PSH,
		ACK:     f.ACK,
		URG:     f.URG,
	}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		panic(err)
	}
	return Serialize(ethernet(layers.EthernetTypeIPv4), ip, tcp, gopacket.Payload(payload))
}

// UDPFrame builds Ethernet/IPv4/UDP with payload.
func UDPFrame(src, dst net.IP, sport, dport uint16, payload []byte) []byte {
	ip := ipv4(layers.IPProtocolUDP, src, dst)
	udp := &layers.UDP{SrcPort: layers.UDPPort(sport), DstPort: layers.UDPPort(dport)}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		panic(err)
	}
	return Serialize(ethernet(layers.EthernetTypeIPv4), ip, udp, gopacket.Payload(payload))
}

// ICMPFrame builds Ethernet/IPv4/ICMP echo request, an IP packet that is
// neither TCP nor UDP.
func ICMPFrame(src, dst net.IP) []byte {
	icmp := &layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0), Id: 1, Seq: 1}
	return Serialize(ethernet(layers.EthernetTypeIPv4), ipv4(layers.IPProtocolICMPv4, src, dst), icmp)
}

// ARPFrame builds an ARP request (op 1) or reply (op 2).
func ARPFrame(op uint16, senderMAC net.HardwareAddr, senderIP net.IP, targetMAC net.HardwareAddr, targetIP net.IP) []byte {
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         op,
		SourceHwAddress:   senderMAC,
		SourceProtAddress: senderIP.To4(),
		DstHwAddress:      targetMAC,
		DstProtAddress:    targetIP.To4(),
	}
	return Serialize(ethernet(layers.EthernetTypeARP), arp)
}

// EthernetFrame builds a bare Ethernet frame with an arbitrary EtherType.
func EthernetFrame(etherType layers.EthernetType, payload []byte) []byte {
	return Serialize(ethernet(etherType), gopacket.Payload(payload))
}

// RTPPayload builds an RTP fixed header followed by n payload bytes.
func RTPPayload(pt uint8, seq uint16, ts uint32, n int) []byte {
	b := make([]byte, 12+n)
	b[0] = 0x80 // V=2
	b[1] = pt & 0x7F
	b[2], b[3] = byte(seq>>8), byte(seq)
	b[4], b[5], b[6], b[7] = byte(ts>>24), byte(ts>>16), byte(ts>>8), byte(ts)
	b[8], b[9], b[10], b[11] = 0xDE, 0xAD, 0xBE, 0xEF // SSRC
	return b
}

// RTCPPayload builds one RTCP packet of type pt with words 32-bit words
// after the header.
func RTCPPayload(pt uint8, words int) []byte {
	b := make([]byte, 4+4*words)
	b[0] = 0x80 // V=2, RC=0
	b[1] = pt
	b[2], b[3] = byte(words>>8), byte(words)
	return b
}

// At wraps frame as a packet captured at sec seconds since the epoch.
func At(frame []byte, sec int64) core.Packet {
	return core.NewPacket(frame, time.Unix(sec, 0))
}
