package decoder

import (
	"encoding/binary"
	"net"
	"net/netip"

	"firestige.xyz/netvis/internal/core"
)

const (
	arpLen             = 28
	arpHardwareEther   = 1
	arpProtocolIPv4    = etherTypeIPv4
	arpHardwareAddrLen = macLen
	arpProtocolAddrLen = 4
)

// ARP decodes an Ethernet/IPv4 ARP request or reply.
func ARP(frame []byte) (core.ARPHeader, error) {
	payload, err := payloadOf(frame, etherTypeARP)
	if err != nil {
		return core.ARPHeader{}, err
	}
	return decodeARP(payload)
}

func decodeARP(data []byte) (core.ARPHeader, error) {
	if len(data) < arpLen {
		return core.ARPHeader{}, core.ErrTruncated
	}

	// Fixed layout is only valid for Ethernet hardware and IPv4 addresses.
	if binary.BigEndian.Uint16(data[0:2]) != arpHardwareEther ||
		binary.BigEndian.Uint16(data[2:4]) != arpProtocolIPv4 ||
		data[4] != arpHardwareAddrLen ||
		data[5] != arpProtocolAddrLen {
		return core.ARPHeader{}, core.ErrMalformed
	}

	arp := core.ARPHeader{
		Operation: binary.BigEndian.Uint16(data[6:8]),
		SenderMAC: net.HardwareAddr(data[8:14]),
		SenderIP:  netip.AddrFrom4([4]byte(data[14:18])),
		TargetMAC: net.HardwareAddr(data[18:24]),
		TargetIP:  netip.AddrFrom4([4]byte(data[24:28])),
	}
	if arp.Operation != core.ARPRequest && arp.Operation != core.ARPReply {
		return arp, core.ErrMalformed
	}
	return arp, nil
}
