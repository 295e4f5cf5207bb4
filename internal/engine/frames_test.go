package engine

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

var (
	hostMAC   = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	remoteMAC = net.HardwareAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
)

func serialize(t *testing.T, l ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true}, l...); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return append([]byte(nil), buf.Bytes()...)
}

func ethernet() *layers.Ethernet {
	return &layers.Ethernet{SrcMAC: hostMAC, DstMAC: remoteMAC, EthernetType: layers.EthernetTypeIPv4}
}

func ipv4(src, dst string, proto layers.IPProtocol) *layers.IPv4 {
	return &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: proto,
		SrcIP:    net.ParseIP(src).To4(),
		DstIP:    net.ParseIP(dst).To4(),
	}
}

// udpFrame builds a UDP frame whose declared length is 8+payloadLen.
func udpFrame(t *testing.T, src, dst string, sport, dport uint16, payloadLen int) []byte {
	return serialize(t,
		ethernet(),
		ipv4(src, dst, layers.IPProtocolUDP),
		&layers.UDP{SrcPort: layers.UDPPort(sport), DstPort: layers.UDPPort(dport)},
		gopacket.Payload(make([]byte, payloadLen)),
	)
}

// tcpFrame builds a TCP frame with a 20 byte TCP header and payloadLen bytes.
func tcpFrame(t *testing.T, src, dst string, sport, dport uint16, payloadLen int) []byte {
	return serialize(t,
		ethernet(),
		ipv4(src, dst, layers.IPProtocolTCP),
		&layers.TCP{SrcPort: layers.TCPPort(sport), DstPort: layers.TCPPort(dport), ACK: true, Window: 1024},
		gopacket.Payload(make([]byte, payloadLen)),
	)
}

func icmpFrame(t *testing.T, src, dst string) []byte {
	return serialize(t,
		ethernet(),
		ipv4(src, dst, layers.IPProtocolICMPv4),
		&layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0), Id: 1, Seq: 1},
	)
}

// negativeTCPFrame declares an IP total length of 60 and a TCP data offset
// of 11 words, so the computed payload is 60 - (20 + 44) = -4.
func negativeTCPFrame(src, dst [4]byte) []byte {
	frame := []byte{
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0x08, 0x00,
		0x45, 0x00, 0x00, 60, // version/ihl, tos, total length
		0x00, 0x01, 0x00, 0x00, // id, flags/fragment
		64, 6, 0x00, 0x00, // ttl, protocol TCP, checksum
	}
	frame = append(frame, src[:]...)
	frame = append(frame, dst[:]...)

	tcp := make([]byte, 20)
	tcp[0], tcp[1] = 0x1F, 0x90 // 8080
	tcp[2], tcp[3] = 0xC3, 0x50 // 50000
	tcp[12] = 11 << 4
	tcp[13] = 0x10
	return append(frame, tcp...)
}
