// Package core defines core types with zero external dependencies.
package core

import (
	"fmt"
	"net/netip"
)

// EthernetHeader represents the fixed 14-byte L2 header.
// Only its presence matters for accounting.
type EthernetHeader struct {
	DstMAC    [6]byte
	SrcMAC    [6]byte
	EtherType uint16
}

// IPHeader represents an IPv4 header.
type IPHeader struct {
	Version   uint8
	HeaderLen int // IHL * 4, validated >= 20
	TOS       uint8
	TotalLen  uint16
	ID        uint16
	TTL       uint8
	Protocol  uint8 // TCP=6, UDP=17, ICMP=1
	SrcIP     netip.Addr
	DstIP     netip.Addr
}

// TransportKind tags which variant of TransportHeader is populated.
type TransportKind uint8

const (
	TransportNone TransportKind = iota
	TransportUDP
	TransportTCP
)

func (k TransportKind) String() string {
	switch k {
	case TransportNone:
		return "none"
	case TransportUDP:
		return "UDP"
	case TransportTCP:
		return "TCP"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// TransportHeader represents the L4 header (TCP/UDP).
type TransportHeader struct {
	Kind    TransportKind
	SrcPort uint16
	DstPort uint16

	// UDP-specific fields (only populated for UDP)
	Length   uint16 // declared datagram length, header included
	Checksum uint16

	// TCP-specific fields (only populated for TCP)
	SeqNum     uint32
	AckNum     uint32
	DataOffset uint8 // in 32-bit words
	HeaderLen  int   // DataOffset * 4, validated >= 20
	Flags      uint8
	Window     uint16
	Urgent     uint16
}
