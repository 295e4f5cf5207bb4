// Package source opens the frame sources the capture loop reads from.
package source

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
	"firestige.xyz/netproc/internal/log"
)

// Source is a packet data source with an Ethernet link layer. Read
// timeouts are reported as core.ErrCaptureTimeout and exhaustion as io.EOF.
type Source interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
	Close() error
}

// Open creates the source selected by cfg.Source.
func Open(cfg config.CaptureConfig) (Source, error) {
	var (
		src Source
		err error
	)
	switch cfg.Source {
	case config.SourceLive:
		src, err = openLive(cfg)
	case config.SourceAFPacket:
		src, err = openAFPacket(cfg)
	case config.SourceFile:
		src, err = openFile(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown capture source %q", core.ErrConfigInvalid, cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	if lt := src.LinkType(); lt != layers.LinkTypeEthernet {
		src.Close()
		return nil, fmt.Errorf("%w: %s", core.ErrNotEthernet, lt)
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"source":    cfg.Source,
		"interface": cfg.Interface,
		"file":      cfg.File,
		"filter":    cfg.Filter,
	}).Info("capture source opened")
	return src, nil
}
