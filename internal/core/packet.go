// Package core defines core data structures with zero external dependencies.
package core

import "time"

// Packet is one captured frame. It is built once by the capture loop and
// never modified afterwards.
type Packet struct {
	data       []byte
	capturedAt int64
}

// NewPacket wraps captured bytes. The timestamp is truncated to whole
// seconds; data must not be retained or modified by the caller.
func NewPacket(data []byte, ts time.Time) Packet {
	return Packet{data: data, capturedAt: ts.Unix()}
}

// Data returns the frame bytes, link layer upward. The slice is shared and
// must be treated as read-only.
func (p Packet) Data() []byte { return p.data }

// CapturedAt returns the capture time in whole seconds since the epoch.
func (p Packet) CapturedAt() int64 { return p.capturedAt }

// TotalSize returns the captured frame length in bytes.
func (p Packet) TotalSize() int { return len(p.data) }

// Summary is the one-line classification of a packet.
type Summary struct {
	Layer Layer
	Text  string
}
