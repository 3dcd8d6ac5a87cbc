package decoder

import (
	"errors"
	"testing"

	"github.com/google/gopacket/layers"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/coretest"
)

func makeIPv4Header(ihl byte, totalLen uint16, proto byte) []byte {
	return []byte{
		0x40 | ihl, 0x00, // Version/IHL, TOS
		byte(totalLen >> 8), byte(totalLen), // Total Length
		0x00, 0x01, 0x00, 0x00, // ID, Flags/Fragment
		0x40, proto, 0x00, 0x00, // TTL, Protocol, Checksum
		192, 168, 1, 1, // Src IP
		192, 168, 1, 2, // Dst IP
	}
}

func TestDecodeIPv4Basic(t *testing.T) {
	data := append(makeIPv4Header(5, 24, protocolUDP), 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00)

	ip, payload, err := decodeIPv4(data)
	if err != nil {
		t.Fatalf("decodeIPv4 failed: %v", err)
	}
	if ip.SrcIP.String() != "192.168.1.1" || ip.DstIP.String() != "192.168.1.2" {
		t.Errorf("Unexpected addresses %s -> %s", ip.SrcIP, ip.DstIP)
	}
	if ip.Protocol != protocolUDP {
		t.Errorf("Expected protocol 17, got %d", ip.Protocol)
	}
	// Trailing padding beyond TotalLen is dropped
	if len(payload) != 4 {
		t.Errorf("Expected payload length 4, got %d", len(payload))
	}
}

func TestDecodeIPv4Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", make([]byte, 19), core.ErrTruncated},
		{"ihl below minimum", makeIPv4Header(4, 20, 6), core.ErrMalformed},
		{"options missing", makeIPv4Header(6, 24, 6), core.ErrTruncated},
		{"total length below header", makeIPv4Header(5, 10, 6), core.ErrMalformed},
		{"version 6", append([]byte{0x60}, make([]byte, 39)...), core.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodeIPv4(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIPv4FromFrame(t *testing.T) {
	frame := coretest.ICMPFrame(coretest.SrcIP, coretest.DstIP)

	ip, err := IPv4(frame)
	if err != nil {
		t.Fatalf("IPv4 failed: %v", err)
	}
	if ip.Protocol != uint8(layers.IPProtocolICMPv4) {
		t.Errorf("Expected ICMP, got %d", ip.Protocol)
	}
	if ip.SrcIP.String() != "10.0.0.1" {
		t.Errorf("Unexpected SrcIP %s", ip.SrcIP)
	}
}

func TestIPv4OnARPFrame(t *testing.T) {
	frame := coretest.ARPFrame(1, coretest.SrcMAC, coretest.SrcIP, coretest.DstMAC, coretest.DstIP)
	if _, err := IPv4(frame); !errors.Is(err, core.ErrAbsent) {
		t.Errorf("Expected ErrAbsent, got %v", err)
	}
}
