package core

import (
	"fmt"
	"net/netip"
)

// Classification is the directionality verdict for a frame.
type Classification uint8

const (
	NoneLocal Classification = iota
	SourceLocal
	DestLocal
	BothLocal
)

func (c Classification) String() string {
	switch c {
	case NoneLocal:
		return "none_local"
	case SourceLocal:
		return "source_local"
	case DestLocal:
		return "dest_local"
	case BothLocal:
		return "both_local"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// DefaultLoopback is the loopback literal always treated as local.
var DefaultLoopback = netip.AddrFrom4([4]byte{127, 0, 0, 1})

// Identity is the set of addresses recognised as this host.
// It is established once before capture starts and never mutated.
type Identity struct {
	Addrs    []netip.Addr
	Loopback netip.Addr
}

// NewIdentity builds an identity from host addresses. An invalid loopback
// falls back to DefaultLoopback.
func NewIdentity(loopback netip.Addr, addrs ...netip.Addr) Identity {
	if !loopback.IsValid() {
		loopback = DefaultLoopback
	}
	cp := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		if a.IsValid() {
			cp = append(cp, a.Unmap())
		}
	}
	return Identity{Addrs: cp, Loopback: loopback.Unmap()}
}

// IsLocal reports whether addr is the loopback literal or a host address.
func (id Identity) IsLocal(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	if addr == id.Loopback {
		return true
	}
	for _, a := range id.Addrs {
		if a == addr {
			return true
		}
	}
	return false
}

// Primary returns the first host address, or the loopback when none is set.
func (id Identity) Primary() netip.Addr {
	if len(id.Addrs) > 0 {
		return id.Addrs[0]
	}
	return id.Loopback
}
