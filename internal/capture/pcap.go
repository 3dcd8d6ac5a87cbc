package capture

import (
	"errors"
	"sync/atomic"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"firestige.xyz/netvis/internal/config"
	"firestige.xyz/netvis/internal/core"
)

// pcapHandle reads through libpcap. libpcap offers no way to wake a blocked
// read from another thread, so Interrupt relies on the read timeout.
type pcapHandle struct {
	h           *pcap.Handle
	interrupted atomic.Bool
}

func openPcap(cfg config.CaptureConfig) (*pcapHandle, error) {
	h, err := pcap.OpenLive(cfg.Device, int32(cfg.SnapLen), cfg.Promiscuous, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if cfg.BPFFilter != "" {
		if err := h.SetBPFFilter(cfg.BPFFilter); err != nil {
			h.Close()
			return nil, err
		}
	}
	return &pcapHandle{h: h}, nil
}

func (p *pcapHandle) ReadFrame() ([]byte, gopacket.CaptureInfo, error) {
	if p.interrupted.Load() {
		return nil, gopacket.CaptureInfo{}, core.ErrWouldBlock
	}
	// ReadPacketData copies out of the libpcap buffer.
	data, ci, err := p.h.ReadPacketData()
	if errors.Is(err, pcap.NextErrorTimeoutExpired) {
		return nil, ci, core.ErrWouldBlock
	}
	return data, ci, err
}

func (p *pcapHandle) Interrupt() {
	p.interrupted.Store(true)
}

func (p *pcapHandle) Close() error {
	p.h.Close()
	return nil
}
