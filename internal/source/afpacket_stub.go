//go:build !linux || !cgo

package source

import (
	"fmt"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
)

func openAFPacket(cfg config.CaptureConfig) (Source, error) {
	return nil, fmt.Errorf("%w: af_packet capture needs linux and cgo", core.ErrSourceUnsupported)
}
