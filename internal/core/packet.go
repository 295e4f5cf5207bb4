// Package core defines core data structures with zero external dependencies.
package core

import "time"

// Frame is one captured unit of link-layer data. Data is only valid for the
// duration of a single dissection and must not be retained.
type Frame struct {
	Data       []byte
	CaptureLen int // bytes actually captured, may be less than the wire length
	Timestamp  time.Time
}

// Bytes returns the readable part of the frame, never past CaptureLen.
func (f Frame) Bytes() []byte {
	n := f.CaptureLen
	if n < 0 {
		n = 0
	}
	if n > len(f.Data) {
		n = len(f.Data)
	}
	return f.Data[:n]
}

// Dissection is the result of decoding one frame through Ethernet, IP and
// transport headers.
type Dissection struct {
	Timestamp time.Time
	Ethernet  EthernetHeader
	IP        IPHeader
	Transport TransportHeader

	// ByteCount is the amount to credit: the declared UDP length, or the
	// TCP payload length. Negative only when Anomaly is a negative payload.
	ByteCount int

	// Anomaly is a soft problem that does not stop classification.
	Anomaly *Problem
}

// Accountable reports whether the dissection can produce accounting events.
func (d Dissection) Accountable() bool {
	return d.Transport.Kind != TransportNone && d.ByteCount >= 0
}

// TrafficEvent is a single (port, byte count, side) credit.
type TrafficEvent struct {
	Port     string
	Bytes    int
	IsSource bool
}
