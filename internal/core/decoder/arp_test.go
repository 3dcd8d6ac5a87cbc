package decoder

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/coretest"
)

func TestARPRequest(t *testing.T) {
	frame := coretest.ARPFrame(1, coretest.SrcMAC, net.IP{192, 168, 1, 10}, net.HardwareAddr{0, 0, 0, 0, 0, 0}, net.IP{192, 168, 1, 1})

	arp, err := ARP(frame)
	require.NoError(t, err)
	assert.Equal(t, core.ARPRequest, arp.Operation)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", arp.SenderMAC.String())
	assert.Equal(t, "192.168.1.10", arp.SenderIP.String())
	assert.Equal(t, "192.168.1.1", arp.TargetIP.String())
}

func TestARPReply(t *testing.T) {
	frame := coretest.ARPFrame(2, coretest.SrcMAC, net.IP{192, 168, 1, 1}, coretest.DstMAC, net.IP{192, 168, 1, 10})

	arp, err := ARP(frame)
	require.NoError(t, err)
	assert.Equal(t, core.ARPReply, arp.Operation)
	assert.Equal(t, "00:11:22:33:44:55", arp.TargetMAC.String())
}

func TestARPNotPresent(t *testing.T) {
	frame := coretest.UDPFrame(coretest.SrcIP, coretest.DstIP, 53, 53, []byte{1})
	_, err := ARP(frame)
	assert.True(t, errors.Is(err, core.ErrAbsent))
}

func TestDecodeARPErrors(t *testing.T) {
	valid := coretest.ARPFrame(1, coretest.SrcMAC, coretest.SrcIP, coretest.DstMAC, coretest.DstIP)[ethernetHeaderLen:]

	_, err := decodeARP(valid[:27])
	assert.ErrorIs(t, err, core.ErrTruncated)

	badLen := append([]byte(nil), valid...)
	badLen[4] = 8 // hardware address length
	_, err = decodeARP(badLen)
	assert.ErrorIs(t, err, core.ErrMalformed)

	rarp := append([]byte(nil), valid...)
	rarp[7] = 3 // RARP request
	_, err = decodeARP(rarp)
	assert.ErrorIs(t, err, core.ErrMalformed)
}
