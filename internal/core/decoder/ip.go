package decoder

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/netvis/internal/core"
)

const ipv4HeaderMinLen = 20

// IPv4 decodes the IPv4 header carried by an Ethernet frame.
func IPv4(frame []byte) (core.IPv4Header, error) {
	ip, _, err := ipv4Payload(frame)
	return ip, err
}

func ipv4Payload(frame []byte) (core.IPv4Header, []byte, error) {
	payload, err := payloadOf(frame, etherTypeIPv4)
	if err != nil {
		return core.IPv4Header{}, nil, err
	}
	return decodeIPv4(payload)
}

// decodeIPv4 decodes IPv4 header.
// The returned payload stops at the declared total length so that
// Ethernet padding is not mistaken for data.
func decodeIPv4(data []byte) (core.IPv4Header, []byte, error) {
	if len(data) < ipv4HeaderMinLen {
		return core.IPv4Header{}, nil, core.ErrTruncated
	}
	if data[0]>>4 != 4 {
		return core.IPv4Header{}, nil, core.ErrMalformed
	}

	// IHL (Internet Header Length) - lower 4 bits of first byte
	ihl := data[0] & 0x0F
	headerLen := int(ihl) * 4
	if ihl < 5 {
		return core.IPv4Header{}, nil, core.ErrMalformed
	}
	if len(data) < headerLen {
		return core.IPv4Header{}, nil, core.ErrTruncated
	}

	ip := core.IPv4Header{
		IHL:        ihl,
		TotalLen:   binary.BigEndian.Uint16(data[2:4]),
		FragOffset: binary.BigEndian.Uint16(data[6:8]) & 0x1FFF,
		Protocol:   data[9],
		SrcIP:      netip.AddrFrom4([4]byte(data[12:16])),
		DstIP:      netip.AddrFrom4([4]byte(data[16:20])),
	}
	if int(ip.TotalLen) < headerLen {
		return ip, nil, core.ErrMalformed
	}

	end := int(ip.TotalLen)
	if end > len(data) {
		// Snap length cut the datagram; keep what was captured.
		end = len(data)
	}
	return ip, data[headerLen:end], nil
}
