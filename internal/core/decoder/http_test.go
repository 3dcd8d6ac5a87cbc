package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/core/coretest"
)

func httpFrame(payload string) []byte {
	return coretest.TCPFrame(coretest.SrcIP, coretest.DstIP, 51000, 80, coretest.TCPFlags{PSH: true, ACK: true}, []byte(payload))
}

func TestHTTPRequest(t *testing.T) {
	msg, err := HTTP(httpFrame("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	require.NoError(t, err)
	assert.False(t, msg.Response)
	assert.Equal(t, "GET", msg.Method)
	assert.Equal(t, "/index.html", msg.URL)
	assert.Equal(t, "HTTP/1.1", msg.Version)
}

func TestHTTPResponse(t *testing.T) {
	msg, err := HTTP(httpFrame("HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n"))
	require.NoError(t, err)
	assert.True(t, msg.Response)
	assert.Equal(t, 404, msg.StatusCode)
	assert.Equal(t, "Not Found", msg.Reason)
}

func TestHTTPResponseWithoutReason(t *testing.T) {
	msg, err := HTTP(httpFrame("HTTP/1.0 204\n"))
	require.NoError(t, err)
	assert.Equal(t, 204, msg.StatusCode)
	assert.Empty(t, msg.Reason)
}

func TestHTTPRejects(t *testing.T) {
	tests := map[string]string{
		"empty payload":     "",
		"no line end":       "GET / HTTP/1.1",
		"unknown method":    "FETCH / HTTP/1.1\r\n",
		"bad version":       "GET / HTTP/x\r\n",
		"sip request":       "INVITE sip:bob@example.com SIP/2.0\r\n",
		"tls bytes":         "\x16\x03\x01\x02\x00\x01\x00\x01\xfc\x03\x03\n",
		"status not digits": "HTTP/1.1 OK fine\r\n",
		"missing url":       "GET  HTTP/1.1\r\n",
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := HTTP(httpFrame(payload))
			assert.ErrorIs(t, err, core.ErrAbsent)
		})
	}
}

func TestHTTPOnUDP(t *testing.T) {
	frame := coretest.UDPFrame(coretest.SrcIP, coretest.DstIP, 5000, 80, []byte("GET / HTTP/1.1\r\n"))
	_, err := HTTP(frame)
	assert.ErrorIs(t, err, core.ErrAbsent)
}
