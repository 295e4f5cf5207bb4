//go:build cgo

package source

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
)

// liveSource captures from a network device through libpcap.
type liveSource struct {
	handle *pcap.Handle
}

func openLive(cfg config.CaptureConfig) (Source, error) {
	device := cfg.Interface
	if device == "" {
		d, err := DefaultDevice()
		if err != nil {
			return nil, err
		}
		device = d
	}

	handle, err := pcap.OpenLive(device, int32(cfg.SnapLen), cfg.Promiscuous, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("couldn't open device %s: %w", device, err)
	}

	if cfg.Filter != "" {
		if err := handle.SetBPFFilter(cfg.Filter); err != nil {
			handle.Close()
			return nil, fmt.Errorf("couldn't install filter %q on %s: %w", cfg.Filter, device, err)
		}
	}

	return &liveSource{handle: handle}, nil
}

func (s *liveSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := s.handle.ReadPacketData()
	if err == pcap.NextErrorTimeoutExpired {
		return nil, ci, core.ErrCaptureTimeout
	}
	return data, ci, err
}

func (s *liveSource) LinkType() layers.LinkType {
	return s.handle.LinkType()
}

func (s *liveSource) Close() error {
	s.handle.Close()
	return nil
}
