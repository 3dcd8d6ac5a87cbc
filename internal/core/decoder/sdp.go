package decoder

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ghettovoice/gosip/sip/parser"

	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/log"
)

var (
	sdpPrefix  = []byte("v=0")
	sipVersion = []byte("SIP/2.0")
)

// sipParser is safe for concurrent use: ParseMessage keeps no state
// between calls. It logs through whatever slog.Default is at the time.
var sipParser = parser.NewPacketParser(log.NewSIPLogger(nil))

// SDP decodes a session description carried directly in a UDP or TCP
// payload, or as the body of a SIP message.
func SDP(frame []byte) (core.SDPDescription, error) {
	_, payload, err := udpPayload(frame)
	if errors.Is(err, core.ErrAbsent) {
		_, payload, err = tcpPayload(frame)
	}
	if err != nil {
		return core.SDPDescription{}, err
	}

	if bytes.HasPrefix(payload, sdpPrefix) {
		return decodeSDP(string(payload))
	}
	if looksLikeSIP(payload) {
		body, err := sipBody(payload)
		if err != nil {
			return core.SDPDescription{}, err
		}
		return decodeSDP(body)
	}
	return core.SDPDescription{}, core.ErrAbsent
}

// looksLikeSIP checks the start line: "SIP/2.0 200 OK" or "INVITE sip:x SIP/2.0".
func looksLikeSIP(payload []byte) bool {
	if bytes.HasPrefix(payload, sipVersion) {
		return true
	}
	eol := bytes.IndexByte(payload, '\n')
	if eol < 0 {
		return false
	}
	return bytes.HasSuffix(bytes.TrimRight(payload[:eol], "\r"), sipVersion)
}

func sipBody(payload []byte) (string, error) {
	msg, err := sipParser.ParseMessage(payload)
	if err != nil {
		return "", core.ErrMalformed
	}

	body := msg.Body()
	if !strings.HasPrefix(body, string(sdpPrefix)) {
		return "", core.ErrAbsent
	}
	return body, nil
}

// decodeSDP keeps the session name, origin and media lines.
func decodeSDP(body string) (core.SDPDescription, error) {
	var desc core.SDPDescription
	for i, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if i == 0 && line != "v=0" {
			return desc, core.ErrAbsent
		}
		if len(line) < 2 || line[1] != '=' {
			continue
		}
		value := line[2:]
		switch line[0] {
		case 's':
			desc.SessionName = value
		case 'o':
			desc.Origin = value
		case 'm':
			desc.Media = append(desc.Media, value)
		}
	}
	return desc, nil
}
