//go:build !cgo

package source

import (
	"fmt"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
)

func openLive(cfg config.CaptureConfig) (Source, error) {
	return nil, fmt.Errorf("%w: live capture needs libpcap (build with cgo)", core.ErrSourceUnsupported)
}
