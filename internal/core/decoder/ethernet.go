// Package decoder implements bounds-checked L2-L4 frame dissection.
package decoder

import (
	"encoding/binary"

	"firestige.xyz/netproc/internal/core"
)

const ethernetHeaderLen = 14

// decodeEthernet decodes the fixed Ethernet header.
// Returns EthernetHeader and remaining payload.
func decodeEthernet(data []byte) (core.EthernetHeader, []byte, error) {
	if err := require(len(data), ethernetHeaderLen, "Ethernet header"); err != nil {
		return core.EthernetHeader{}, nil, err
	}

	eth := core.EthernetHeader{}
	copy(eth.DstMAC[:], data[0:6])
	copy(eth.SrcMAC[:], data[6:12])
	eth.EtherType = binary.BigEndian.Uint16(data[12:14])

	return eth, data[ethernetHeaderLen:], nil
}
