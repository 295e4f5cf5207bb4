// Package decoder implements bounds-checked L2-L4 frame dissection.
package decoder

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/gopacket/layers"

	"firestige.xyz/netproc/internal/core"
)

const (
	udpHeaderLen    = 8
	tcpHeaderMinLen = 20

	// Protocol numbers
	protocolIP   = 0
	protocolICMP = 1
	protocolIGMP = 2
	protocolTCP  = 6
	protocolUDP  = 17
)

// decodeUDP decodes the 8-byte UDP header.
func decodeUDP(data []byte) (core.TransportHeader, error) {
	if err := require(len(data), udpHeaderLen, "UDP header"); err != nil {
		return core.TransportHeader{}, err
	}

	return core.TransportHeader{
		Kind:     core.TransportUDP,
		SrcPort:  binary.BigEndian.Uint16(data[0:2]),
		DstPort:  binary.BigEndian.Uint16(data[2:4]),
		Length:   binary.BigEndian.Uint16(data[4:6]), // includes the 8 header bytes
		Checksum: binary.BigEndian.Uint16(data[6:8]),
	}, nil
}

// decodeTCP decodes the fixed 20-byte TCP header. Options are not read, so
// only the fixed part has to be captured.
func decodeTCP(data []byte) (core.TransportHeader, error) {
	if err := require(len(data), tcpHeaderMinLen, "TCP header"); err != nil {
		return core.TransportHeader{}, err
	}

	// Data Offset is the upper nibble of byte 12, in 32-bit words
	dataOffset := data[12] >> 4
	headerLen := int(dataOffset) * 4
	if headerLen < tcpHeaderMinLen {
		return core.TransportHeader{}, core.InvalidHeader("TCP header length", headerLen)
	}

	return core.TransportHeader{
		Kind:       core.TransportTCP,
		SrcPort:    binary.BigEndian.Uint16(data[0:2]),
		DstPort:    binary.BigEndian.Uint16(data[2:4]),
		SeqNum:     binary.BigEndian.Uint32(data[4:8]),
		AckNum:     binary.BigEndian.Uint32(data[8:12]),
		DataOffset: dataOffset,
		HeaderLen:  headerLen,
		Flags:      data[13],
		Window:     binary.BigEndian.Uint16(data[14:16]),
		Checksum:   binary.BigEndian.Uint16(data[16:18]),
		Urgent:     binary.BigEndian.Uint16(data[18:20]),
	}, nil
}

// ProtocolName names an IP protocol number for diagnostics.
func ProtocolName(protocol uint8) string {
	switch protocol {
	case protocolIP:
		return "IP"
	case protocolICMP:
		return "ICMP"
	case protocolIGMP:
		return "IGMP"
	case protocolTCP:
		return "TCP"
	case protocolUDP:
		return "UDP"
	}
	name := layers.IPProtocol(protocol).String()
	if name == "" || strings.HasPrefix(name, "Unknown") {
		return fmt.Sprintf("unknown(%d)", protocol)
	}
	return name
}
