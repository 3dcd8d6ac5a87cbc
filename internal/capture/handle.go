// Package capture acquires frames from a network interface on a background
// goroutine.
package capture

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"firestige.xyz/netvis/internal/config"
	"firestige.xyz/netvis/internal/core"
)

// Handle is an opened capture source.
//
// ReadFrame blocks for at most the handle's read timeout and returns
// core.ErrWouldBlock when it expires without a frame. The returned bytes are
// owned by the caller. Interrupt makes pending and later reads return
// promptly; it is safe to call from another goroutine. Close releases the
// source and must not race with ReadFrame.
type Handle interface {
	ReadFrame() ([]byte, gopacket.CaptureInfo, error)
	Interrupt()
	Close() error
}

// OpenLive opens a live handle on cfg.Device with the configured backend.
// Errors wrap core.ErrOpenFailed.
func OpenLive(cfg config.CaptureConfig) (Handle, error) {
	var (
		h   Handle
		err error
	)
	switch cfg.Backend {
	case "", "pcap":
		h, err = openPcap(cfg)
	case "afpacket":
		h, err = openAFPacket(cfg)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrOpenFailed, cfg.Device, err)
	}
	return h, nil
}

// Device is a capture-capable interface.
type Device struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Addresses   []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`
}

// Devices lists the interfaces libpcap can open.
func Devices() ([]Device, error) {
	ifs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	out := make([]Device, 0, len(ifs))
	for _, i := range ifs {
		d := Device{Name: i.Name, Description: i.Description}
		for _, a := range i.Addresses {
			d.Addresses = append(d.Addresses, a.IP.String())
		}
		out = append(out, d)
	}
	return out, nil
}
