// Package accounting turns classifications into per-port byte credits.
package accounting

import (
	"strconv"

	"firestige.xyz/netproc/internal/core"
)

// Accountant receives byte credits keyed by the decimal port string.
// Implementations own their locking.
type Accountant interface {
	AccountBytes(port string, bytes int, isSource bool)
}

// Emitter maps a classification to zero, one or two accountant calls.
type Emitter struct {
	accountant Accountant
}

// NewEmitter creates an Emitter forwarding to accountant.
func NewEmitter(accountant Accountant) *Emitter {
	return &Emitter{accountant: accountant}
}

// Emit credits bytes according to class and returns the number of calls
// made. A negative byte count is suppressed, never clamped. BothLocal
// credits the same datagram once per local role.
func (e *Emitter) Emit(class core.Classification, srcPort, dstPort uint16, bytes int) int {
	events := Events(class, srcPort, dstPort, bytes)
	for _, ev := range events {
		e.accountant.AccountBytes(ev.Port, ev.Bytes, ev.IsSource)
	}
	return len(events)
}

// Events returns the credits Emit would make, without making them.
func Events(class core.Classification, srcPort, dstPort uint16, bytes int) []core.TrafficEvent {
	if bytes < 0 {
		return nil
	}

	src := core.TrafficEvent{Port: PortKey(srcPort), Bytes: bytes, IsSource: true}
	dst := core.TrafficEvent{Port: PortKey(dstPort), Bytes: bytes, IsSource: false}

	switch class {
	case core.SourceLocal:
		return []core.TrafficEvent{src}
	case core.DestLocal:
		return []core.TrafficEvent{dst}
	case core.BothLocal:
		return []core.TrafficEvent{src, dst}
	default:
		return nil
	}
}

// PortKey formats a port the way accountants key it.
func PortKey(port uint16) string {
	return strconv.FormatUint(uint64(port), 10)
}
