package decoder

import (
	"encoding/binary"

	"firestige.xyz/netvis/internal/core"
)

const (
	rtpVersion    = 2
	rtpMinLength  = 12
	rtcpMinLength = 8

	// Ports below this are well-known services, never dynamic media ports.
	rtpMinPort = 1024

	// With the marker bit masked, RTCP types 200-204 land on 72-76.
	rtcpMaskedTypeMin = 72
	rtcpMaskedTypeMax = 76
)

// RTP decodes an RTP fixed header carried in UDP.
func RTP(frame []byte) (core.RTPHeader, error) {
	udp, payload, err := udpPayload(frame)
	if err != nil {
		return core.RTPHeader{}, err
	}
	if udp.SrcPort < rtpMinPort || udp.DstPort < rtpMinPort {
		return core.RTPHeader{}, core.ErrAbsent
	}
	return decodeRTP(payload)
}

// RTCP decodes the common header of the first RTCP packet in a UDP payload.
func RTCP(frame []byte) (core.RTCPHeader, error) {
	_, payload, err := udpPayload(frame)
	if err != nil {
		return core.RTCPHeader{}, err
	}
	return decodeRTCP(payload)
}

// decodeRTP parses the fixed header
//
//	Byte 0: V(2) P(1) X(1) CC(4)
//	Byte 1: M(1) PT(7)
func decodeRTP(payload []byte) (core.RTPHeader, error) {
	if len(payload) < rtpMinLength {
		return core.RTPHeader{}, core.ErrAbsent
	}
	if payload[0]>>6 != rtpVersion {
		return core.RTPHeader{}, core.ErrAbsent
	}

	pt := payload[1] & 0x7F
	if pt >= rtcpMaskedTypeMin && pt <= rtcpMaskedTypeMax {
		return core.RTPHeader{}, core.ErrAbsent
	}

	headerLen := rtpMinLength + int(payload[0]&0x0F)*4
	if len(payload) < headerLen {
		return core.RTPHeader{}, core.ErrTruncated
	}

	if payload[0]&0x10 != 0 {
		// Header extension: 2 bytes profile, 2 bytes length in words
		if len(payload) < headerLen+4 {
			return core.RTPHeader{}, core.ErrTruncated
		}
		headerLen += 4 + int(binary.BigEndian.Uint16(payload[headerLen+2:headerLen+4]))*4
		if len(payload) < headerLen {
			return core.RTPHeader{}, core.ErrTruncated
		}
	}

	payloadLen := len(payload) - headerLen
	if payload[0]&0x20 != 0 {
		// Last octet counts the padding, itself included.
		pad := int(payload[len(payload)-1])
		if pad == 0 || pad > payloadLen {
			return core.RTPHeader{}, core.ErrMalformed
		}
		payloadLen -= pad
	}

	return core.RTPHeader{
		PayloadType: pt,
		Marker:      payload[1]&0x80 != 0,
		Sequence:    binary.BigEndian.Uint16(payload[2:4]),
		Timestamp:   binary.BigEndian.Uint32(payload[4:8]),
		SSRC:        binary.BigEndian.Uint32(payload[8:12]),
		PayloadLen:  payloadLen,
	}, nil
}

// decodeRTCP parses the common header
//
//	Byte 0: V(2) P(1) RC(5)
//	Byte 1: PT(8), full byte
//	Byte 2-3: length in 32-bit words minus one
func decodeRTCP(payload []byte) (core.RTCPHeader, error) {
	if len(payload) < rtcpMinLength {
		return core.RTCPHeader{}, core.ErrAbsent
	}
	if payload[0]>>6 != rtpVersion {
		return core.RTCPHeader{}, core.ErrAbsent
	}

	hdr := core.RTCPHeader{
		PacketType: payload[1],
		Count:      payload[0] & 0x1F,
		Length:     binary.BigEndian.Uint16(payload[2:4]),
	}
	if hdr.PacketType != core.RTCPSenderReport && hdr.PacketType != core.RTCPReceiverReport {
		return hdr, core.ErrAbsent
	}
	if (int(hdr.Length)+1)*4 > len(payload) {
		return hdr, core.ErrTruncated
	}
	return hdr, nil
}
