package decoder

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"firestige.xyz/netvis/internal/core"
)

// maxStartLine bounds the search for the end of an HTTP start line.
const maxStartLine = 8 << 10

var httpMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// HTTP decodes the start line of an HTTP/1.x message at the beginning of a
// TCP payload.
func HTTP(frame []byte) (core.HTTPMessage, error) {
	_, payload, err := tcpPayload(frame)
	if err != nil {
		return core.HTTPMessage{}, err
	}
	return decodeHTTP(payload)
}

func decodeHTTP(payload []byte) (core.HTTPMessage, error) {
	if len(payload) == 0 {
		return core.HTTPMessage{}, core.ErrAbsent
	}

	window := payload
	if len(window) > maxStartLine {
		window = window[:maxStartLine]
	}
	eol := bytes.IndexByte(window, '\n')
	if eol < 0 {
		return core.HTTPMessage{}, core.ErrAbsent
	}
	line := strings.TrimSuffix(string(window[:eol]), "\r")

	if strings.HasPrefix(line, "HTTP/") {
		return parseStatusLine(line)
	}
	return parseRequestLine(line)
}

// parseStatusLine parses "HTTP/1.1 200 OK". The reason phrase may be empty.
func parseStatusLine(line string) (core.HTTPMessage, error) {
	version, rest, ok := strings.Cut(line, " ")
	if !ok {
		return core.HTTPMessage{}, core.ErrAbsent
	}
	if _, _, ok := http.ParseHTTPVersion(version); !ok {
		return core.HTTPMessage{}, core.ErrAbsent
	}

	code, reason, _ := strings.Cut(rest, " ")
	if len(code) != 3 {
		return core.HTTPMessage{}, core.ErrAbsent
	}
	status, err := strconv.Atoi(code)
	if err != nil || status < 100 {
		return core.HTTPMessage{}, core.ErrAbsent
	}

	return core.HTTPMessage{
		Response:   true,
		Version:    version,
		StatusCode: status,
		Reason:     reason,
	}, nil
}

// parseRequestLine parses "GET /index.html HTTP/1.1".
func parseRequestLine(line string) (core.HTTPMessage, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 || parts[1] == "" {
		return core.HTTPMessage{}, core.ErrAbsent
	}
	if _, ok := httpMethods[parts[0]]; !ok {
		return core.HTTPMessage{}, core.ErrAbsent
	}
	if _, _, ok := http.ParseHTTPVersion(parts[2]); !ok {
		return core.HTTPMessage{}, core.ErrAbsent
	}

	return core.HTTPMessage{
		Method:  parts[0],
		URL:     parts[1],
		Version: parts[2],
	}, nil
}
