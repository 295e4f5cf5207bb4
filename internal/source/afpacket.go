//go:build linux && cgo

package source

import (
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
)

// afpacketSource captures through a TPACKET_V3 memory-mapped ring.
type afpacketSource struct {
	handle *afpacket.TPacket
}

func openAFPacket(cfg config.CaptureConfig) (Source, error) {
	device := cfg.Interface
	if device == "" {
		d, err := DefaultDevice()
		if err != nil {
			return nil, err
		}
		device = d
	}

	frameSize, blockSize, numBlocks, err := recomputeSize(cfg.BufferSizeMB, cfg.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, err
	}

	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(device),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(cfg.Timeout),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't open af_packet ring on %s: %w", device, err)
	}

	if cfg.Filter != "" {
		rawBPF, err := compileFilter(layers.LinkTypeEthernet, frameSize, cfg.Filter)
		if err != nil {
			tp.Close()
			return nil, err
		}
		if err := tp.SetBPF(rawBPF); err != nil {
			tp.Close()
			return nil, fmt.Errorf("couldn't attach filter %q on %s: %w", cfg.Filter, device, err)
		}
	}

	return &afpacketSource{handle: tp}, nil
}

func (s *afpacketSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := s.handle.ReadPacketData()
	if err == afpacket.ErrTimeout {
		return nil, ci, core.ErrCaptureTimeout
	}
	return data, ci, err
}

func (s *afpacketSource) LinkType() layers.LinkType {
	return layers.LinkTypeEthernet
}

func (s *afpacketSource) Close() error {
	s.handle.Close()
	return nil
}
