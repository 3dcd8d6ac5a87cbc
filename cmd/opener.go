package cmd

import (
	"firestige.xyz/netvis/internal/capture"
	"firestige.xyz/netvis/internal/config"
)

// HandleOpener opens capture handles and lists devices.
type HandleOpener interface {
	Open(cfg config.CaptureConfig) (capture.Handle, error)
	Devices() ([]capture.Device, error)
}

// liveOpener talks to the real capture backends.
type liveOpener struct{}

func (liveOpener) Open(cfg config.CaptureConfig) (capture.Handle, error) {
	return capture.OpenLive(cfg)
}

func (liveOpener) Devices() ([]capture.Device, error) {
	return capture.Devices()
}
