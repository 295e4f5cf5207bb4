package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/log"
)

// pcapng section header block type, read in file byte order.
var pcapngMagic = []byte{0x0A, 0x0D, 0x0D, 0x0A}

type packetReader interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

// fileSource replays a pcap or pcapng file without libpcap.
type fileSource struct {
	path   string
	file   io.Closer
	reader packetReader
	filter *packetFilter
}

func openFile(cfg config.CaptureConfig) (Source, error) {
	if cfg.File == "" {
		return nil, fmt.Errorf("file path is required")
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", cfg.File, err)
	}

	src, err := newFileSource(f, cfg.SnapLen, cfg.Filter)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read capture file %s: %w", cfg.File, err)
	}
	src.path = cfg.File
	src.file = f
	return src, nil
}

// newFileSource detects the capture format from its magic number.
func newFileSource(r io.Reader, snapLen int, filterExpr string) (*fileSource, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("failed to read file magic: %w", err)
	}

	var reader packetReader
	if bytes.Equal(magic, pcapngMagic) {
		reader, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		reader, err = pcapgo.NewReader(br)
	}
	if err != nil {
		return nil, err
	}

	s := &fileSource{reader: reader}
	if filterExpr != "" {
		raw, err := compileFilter(reader.LinkType(), snapLen, filterExpr)
		if err != nil {
			log.GetLogger().WithError(err).WithField("filter", filterExpr).
				Warn("capture filter not applied to file source")
		} else if s.filter, err = newPacketFilter(raw); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *fileSource) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	for {
		data, ci, err := s.reader.ReadPacketData()
		if err != nil {
			return nil, gopacket.CaptureInfo{}, err
		}
		if s.filter == nil || s.filter.Matches(data) {
			return data, ci, nil
		}
	}
}

func (s *fileSource) LinkType() layers.LinkType {
	return s.reader.LinkType()
}

func (s *fileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
