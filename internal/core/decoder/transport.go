package decoder

import (
	"encoding/binary"

	"firestige.xyz/netvis/internal/core"
)

const (
	udpHeaderLen    = 8
	tcpHeaderMinLen = 20

	// Protocol numbers
	protocolTCP = 6
	protocolUDP = 17
)

// TCP decodes the TCP header of an IPv4 segment.
func TCP(frame []byte) (core.TCPHeader, error) {
	tcp, _, err := tcpPayload(frame)
	return tcp, err
}

// UDP decodes the UDP header of an IPv4 datagram.
func UDP(frame []byte) (core.UDPHeader, error) {
	udp, _, err := udpPayload(frame)
	return udp, err
}

// transportPayload returns the IPv4 header and the L4 bytes when the
// datagram carries protocol and is the first fragment.
func transportPayload(frame []byte, protocol uint8) (core.IPv4Header, []byte, error) {
	ip, payload, err := ipv4Payload(frame)
	if err != nil {
		return ip, nil, err
	}
	if ip.Protocol != protocol || ip.FragOffset != 0 {
		return ip, nil, core.ErrAbsent
	}
	return ip, payload, nil
}

func tcpPayload(frame []byte) (core.TCPHeader, []byte, error) {
	ip, data, err := transportPayload(frame, protocolTCP)
	if err != nil {
		return core.TCPHeader{}, nil, err
	}
	tcp, payload, err := decodeTCP(data)
	tcp.SrcIP, tcp.DstIP = ip.SrcIP, ip.DstIP
	return tcp, payload, err
}

func udpPayload(frame []byte) (core.UDPHeader, []byte, error) {
	ip, data, err := transportPayload(frame, protocolUDP)
	if err != nil {
		return core.UDPHeader{}, nil, err
	}
	udp, payload, err := decodeUDP(data)
	udp.SrcIP, udp.DstIP = ip.SrcIP, ip.DstIP
	return udp, payload, err
}

// decodeUDP decodes UDP header.
func decodeUDP(data []byte) (core.UDPHeader, []byte, error) {
	if len(data) < udpHeaderLen {
		return core.UDPHeader{}, nil, core.ErrTruncated
	}

	udp := core.UDPHeader{
		SrcPort: binary.BigEndian.Uint16(data[0:2]),
		DstPort: binary.BigEndian.Uint16(data[2:4]),
		// Length includes header and data
		Length: binary.BigEndian.Uint16(data[4:6]),
	}
	if udp.Length < udpHeaderLen {
		return udp, nil, core.ErrMalformed
	}
	udp.PayloadLen = int(udp.Length) - udpHeaderLen

	end := int(udp.Length)
	if end > len(data) {
		end = len(data)
	}
	return udp, data[udpHeaderLen:end], nil
}

// decodeTCP decodes TCP header.
func decodeTCP(data []byte) (core.TCPHeader, []byte, error) {
	if len(data) < tcpHeaderMinLen {
		return core.TCPHeader{}, nil, core.ErrTruncated
	}

	tcp := core.TCPHeader{
		SrcPort: binary.BigEndian.Uint16(data[0:2]),
		DstPort: binary.BigEndian.Uint16(data[2:4]),
		// Byte 13: | CWR | ECE | URG | ACK | PSH | RST | SYN | FIN |
		Flags: core.TCPFlags(data[13] & 0x3F),
	}

	// Data Offset (upper 4 bits of byte 12) in 32-bit words
	dataOffset := data[12] >> 4
	headerLen := int(dataOffset) * 4
	if dataOffset < 5 {
		return tcp, nil, core.ErrMalformed
	}
	if len(data) < headerLen {
		return tcp, nil, core.ErrTruncated
	}

	// Payload starts after TCP header (including options)
	return tcp, data[headerLen:], nil
}
