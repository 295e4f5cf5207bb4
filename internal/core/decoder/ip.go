// Package decoder implements bounds-checked L2-L4 frame dissection.
package decoder

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/netproc/internal/core"
)

const ipv4HeaderMinLen = 20

// decodeIPv4 decodes the IPv4 header including options.
// Returns IPHeader and the bytes following the header.
func decodeIPv4(data []byte) (core.IPHeader, []byte, error) {
	if err := require(len(data), ipv4HeaderMinLen, "IP header"); err != nil {
		return core.IPHeader{}, nil, err
	}

	// IHL is the lower nibble, in 32-bit words
	headerLen := int(data[0]&0x0F) * 4
	if headerLen < ipv4HeaderMinLen {
		return core.IPHeader{}, nil, core.InvalidHeader("IP header length", headerLen)
	}
	if err := require(len(data), headerLen, "IP header with options"); err != nil {
		return core.IPHeader{}, nil, err
	}

	ip := core.IPHeader{
		Version:   data[0] >> 4,
		HeaderLen: headerLen,
		TOS:       data[1],
		TotalLen:  binary.BigEndian.Uint16(data[2:4]),
		ID:        binary.BigEndian.Uint16(data[4:6]),
		TTL:       data[8],
		Protocol:  data[9],
		SrcIP:     netip.AddrFrom4([4]byte(data[12:16])),
		DstIP:     netip.AddrFrom4([4]byte(data[16:20])),
	}

	return ip, data[headerLen:], nil
}
