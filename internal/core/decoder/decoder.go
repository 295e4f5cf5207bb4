// Package decoder implements bounds-checked L2-L4 frame dissection.
package decoder

import "firestige.xyz/netproc/internal/core"

// Decoder dissects captured frames into structured headers.
type Decoder interface {
	Dissect(frame core.Frame) (core.Dissection, error)
}

// Dissector walks a frame Ethernet -> IPv4 -> TCP/UDP exactly once.
// It keeps no state between frames and is safe for concurrent use.
type Dissector struct{}

// NewDissector creates a Dissector.
func NewDissector() *Dissector {
	return &Dissector{}
}

// Dissect decodes frame. A returned error is a *core.Problem describing why
// the frame cannot be accounted; soft problems are set on Dissection.Anomaly
// and leave the addresses usable for classification.
func (d *Dissector) Dissect(frame core.Frame) (core.Dissection, error) {
	out := core.Dissection{Timestamp: frame.Timestamp}

	eth, rest, err := decodeEthernet(frame.Bytes())
	if err != nil {
		return out, err
	}
	out.Ethernet = eth

	ip, rest, err := decodeIPv4(rest)
	if err != nil {
		return out, err
	}
	out.IP = ip

	switch ip.Protocol {
	case protocolUDP:
		udp, err := decodeUDP(rest)
		if err != nil {
			return out, err
		}
		out.Transport = udp
		out.ByteCount = int(udp.Length)

	case protocolTCP:
		tcp, err := decodeTCP(rest)
		if err != nil {
			return out, err
		}
		out.Transport = tcp
		out.ByteCount = int(ip.TotalLen) - (ip.HeaderLen + tcp.HeaderLen)
		if out.ByteCount < 0 {
			out.Anomaly = core.NegativePayload(out.ByteCount)
		}

	default:
		out.Anomaly = core.UnhandledProtocol(ProtocolName(ip.Protocol))
	}

	return out, nil
}
