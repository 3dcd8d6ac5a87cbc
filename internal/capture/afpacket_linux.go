//go:build linux

package capture

import (
	"errors"
	"os"
	"sync/atomic"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"golang.org/x/net/bpf"

	"firestige.xyz/netvis/internal/config"
	"firestige.xyz/netvis/internal/core"
)

// afpacketHandle reads from a TPACKET_V3 ring. The poll timeout bounds how
// long a read can block after Interrupt.
type afpacketHandle struct {
	tp          *afpacket.TPacket
	interrupted atomic.Bool
}

func openAFPacket(cfg config.CaptureConfig) (*afpacketHandle, error) {
	frameSize, blockSize, numBlocks, err := recomputeSize(cfg.BufferSizeMB, cfg.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, err
	}

	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(cfg.Device),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(cfg.Timeout),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, err
	}

	if cfg.BPFFilter != "" {
		if err := setBPF(tp, cfg.BPFFilter, cfg.SnapLen); err != nil {
			tp.Close()
			return nil, err
		}
	}
	return &afpacketHandle{tp: tp}, nil
}

// setBPF compiles filter with libpcap and installs it on the socket.
func setBPF(tp *afpacket.TPacket, filter string, snapLen int) error {
	insns, err := pcap.CompileBPFFilter(layers.LinkTypeEthernet, snapLen, filter)
	if err != nil {
		return err
	}
	raw := make([]bpf.RawInstruction, len(insns))
	for i, ins := range insns {
		raw[i] = bpf.RawInstruction{
			Op: ins.Code,
			Jt: ins.Jt,
			Jf: ins.Jf,
			K:  ins.K,
		}
	}
	return tp.SetBPF(raw)
}

func (a *afpacketHandle) ReadFrame() ([]byte, gopacket.CaptureInfo, error) {
	if a.interrupted.Load() {
		return nil, gopacket.CaptureInfo{}, core.ErrWouldBlock
	}
	// ReadPacketData copies out of the ring; the zero-copy variant would
	// hand out memory the kernel reuses.
	data, ci, err := a.tp.ReadPacketData()
	if errors.Is(err, afpacket.ErrTimeout) {
		return nil, ci, core.ErrWouldBlock
	}
	return data, ci, err
}

func (a *afpacketHandle) Interrupt() {
	a.interrupted.Store(true)
}

func (a *afpacketHandle) Close() error {
	a.tp.Close()
	return nil
}
