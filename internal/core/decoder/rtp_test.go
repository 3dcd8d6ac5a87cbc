package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/coretest"
)

func mediaFrame(payload []byte) []byte {
	return coretest.UDPFrame(coretest.SrcIP, coretest.DstIP, 16384, 16386, payload)
}

func TestRTPBasic(t *testing.T) {
	frame := mediaFrame(coretest.RTPPayload(0, 1234, 160000, 160))

	rtp, err := RTP(frame)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), rtp.PayloadType)
	assert.Equal(t, uint16(1234), rtp.Sequence)
	assert.Equal(t, uint32(160000), rtp.Timestamp)
	assert.Equal(t, uint32(0xDEADBEEF), rtp.SSRC)
	assert.Equal(t, 160, rtp.PayloadLen)
}

func TestRTPWithCSRCAndPadding(t *testing.T) {
	p := coretest.RTPPayload(8, 1, 1, 0)
	p[0] = 0x80 | 0x20 | 0x02                         // V=2, P=1, CC=2
	p = append(p, make([]byte, 8)...)                 // two CSRC entries
	p = append(p, 0xAA, 0xBB, 0xCC, 0x00, 0x00, 0x03) // 3 data bytes + 3 padding

	rtp, err := RTP(mediaFrame(p))
	require.NoError(t, err)
	assert.Equal(t, 3, rtp.PayloadLen)
}

func TestRTPWithExtension(t *testing.T) {
	p := coretest.RTPPayload(96, 7, 7, 0)
	p[0] |= 0x10                                      // X=1
	p = append(p, 0xBE, 0xDE, 0x00, 0x01, 1, 2, 3, 4) // profile, 1 word
	p = append(p, 9, 9)

	rtp, err := RTP(mediaFrame(p))
	require.NoError(t, err)
	assert.Equal(t, 2, rtp.PayloadLen)
}

func TestRTPRejects(t *testing.T) {
	wrongVersion := coretest.RTPPayload(0, 1, 1, 20)
	wrongVersion[0] = 0x40

	badPadding := coretest.RTPPayload(0, 1, 1, 4)
	badPadding[0] |= 0x20
	badPadding[len(badPadding)-1] = 200

	tests := []struct {
		name  string
		frame []byte
		want  error
	}{
		{"too short", mediaFrame(make([]byte, 11)), core.ErrAbsent},
		{"version 1", mediaFrame(wrongVersion), core.ErrAbsent},
		{"rtcp sender report", mediaFrame(coretest.RTCPPayload(200, 6)), core.ErrAbsent},
		{"rtcp receiver report", mediaFrame(coretest.RTCPPayload(201, 1)), core.ErrAbsent},
		{"well-known port", coretest.UDPFrame(coretest.SrcIP, coretest.DstIP, 53, 16384, coretest.RTPPayload(0, 1, 1, 20)), core.ErrAbsent},
		{"csrc list cut", mediaFrame(append([]byte{0x8F}, make([]byte, 15)...)), core.ErrTruncated},
		{"padding beyond payload", mediaFrame(badPadding), core.ErrMalformed},
		{"tcp", coretest.TCPFrame(coretest.SrcIP, coretest.DstIP, 2000, 2002, coretest.TCPFlags{}, coretest.RTPPayload(0, 1, 1, 20)), core.ErrAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RTP(tt.frame)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRTCPTypes(t *testing.T) {
	sr, err := RTCP(mediaFrame(coretest.RTCPPayload(core.RTCPSenderReport, 6)))
	require.NoError(t, err)
	assert.Equal(t, core.RTCPSenderReport, sr.PacketType)
	assert.Equal(t, uint16(6), sr.Length)

	rr, err := RTCP(mediaFrame(coretest.RTCPPayload(core.RTCPReceiverReport, 1)))
	require.NoError(t, err)
	assert.Equal(t, core.RTCPReceiverReport, rr.PacketType)
}

func TestRTCPRejects(t *testing.T) {
	sdes := coretest.RTCPPayload(202, 2)
	_, err := RTCP(mediaFrame(sdes))
	assert.ErrorIs(t, err, core.ErrAbsent)

	cut := coretest.RTCPPayload(200, 6)[:12]
	_, err = RTCP(mediaFrame(cut))
	assert.ErrorIs(t, err, core.ErrTruncated)

	_, err = RTCP(mediaFrame(coretest.RTPPayload(0, 1, 1, 20)))
	assert.ErrorIs(t, err, core.ErrAbsent)
}

func BenchmarkRTP(b *testing.B) {
	frame := mediaFrame(coretest.RTPPayload(0, 1, 1, 160))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = RTP(frame)
	}
}
