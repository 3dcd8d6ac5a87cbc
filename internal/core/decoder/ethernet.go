package decoder

import (
	"encoding/binary"
	"net"

	"firestige.xyz/netvis/internal/core"
)

const (
	// Ethernet constants
	ethernetHeaderLen = 14
	vlanHeaderLen     = 4
	macLen            = 6

	// EtherType values
	etherTypeIPv4 = 0x0800
	etherTypeARP  = 0x0806
	etherTypeVLAN = 0x8100
	etherTypeQinQ = 0x88A8

	// Values up to this are an 802.3 length, not an EtherType.
	maxIEEE8023Length = 1500
)

// Ethernet decodes the Ethernet header at the start of frame.
func Ethernet(frame []byte) (core.EthernetHeader, error) {
	eth, _, err := decodeEthernet(frame)
	return eth, err
}

// decodeEthernet decodes Ethernet frame header (including VLAN tags).
// Returns EthernetHeader and remaining payload.
func decodeEthernet(data []byte) (core.EthernetHeader, []byte, error) {
	if len(data) < ethernetHeaderLen {
		return core.EthernetHeader{}, nil, core.ErrTruncated
	}

	eth := core.EthernetHeader{
		DstMAC: net.HardwareAddr(data[0:macLen]),
		SrcMAC: net.HardwareAddr(data[macLen : 2*macLen]),
	}

	etherType := binary.BigEndian.Uint16(data[12:14])
	offset := ethernetHeaderLen

	// VLAN tags can be nested (QinQ)
	for etherType == etherTypeVLAN || etherType == etherTypeQinQ {
		if len(data) < offset+vlanHeaderLen {
			return eth, nil, core.ErrTruncated
		}

		// VLAN header: 2 bytes TCI + 2 bytes EtherType
		tci := binary.BigEndian.Uint16(data[offset : offset+2])
		eth.VLANs = append(eth.VLANs, tci&0x0FFF)

		etherType = binary.BigEndian.Uint16(data[offset+2 : offset+4])
		offset += vlanHeaderLen
	}

	eth.EtherType = etherType
	payload := data[offset:]

	if etherType <= maxIEEE8023Length {
		// 802.3 frame: the field is the payload length, padding follows.
		if int(etherType) > len(payload) {
			return eth, nil, core.ErrMalformed
		}
		payload = payload[:etherType]
	}

	eth.PayloadLen = len(payload)
	return eth, payload, nil
}

// payloadOf returns the payload for the given EtherType, or ErrAbsent when
// the frame carries something else.
func payloadOf(frame []byte, etherType uint16) ([]byte, error) {
	eth, payload, err := decodeEthernet(frame)
	if err != nil {
		return nil, err
	}
	if eth.EtherType != etherType {
		return nil, core.ErrAbsent
	}
	return payload, nil
}
