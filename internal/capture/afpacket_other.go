//go:build !linux

package capture

import (
	"errors"

	"firestige.xyz/netvis/internal/config"
)

func openAFPacket(config.CaptureConfig) (Handle, error) {
	return nil, errors.New("afpacket backend requires linux")
}
