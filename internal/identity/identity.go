// Package identity resolves the addresses that make a frame "local".
package identity

import (
	"fmt"
	"net"
	"net/netip"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
	"firestige.xyz/netproc/internal/log"
)

// Resolver finds host addresses when none are configured.
type Resolver interface {
	HostAddrs() ([]netip.Addr, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func() ([]netip.Addr, error)

func (f ResolverFunc) HostAddrs() ([]netip.Addr, error) { return f() }

// Resolve builds the host identity from cfg using the platform resolvers:
// the default route source on Linux, then the interface scan.
func Resolve(cfg config.IdentityConfig) (core.Identity, error) {
	return ResolveWith(cfg, RouteResolver(), ResolverFunc(interfaceAddrs))
}

// ResolveWith builds the host identity. Explicit addresses win; otherwise
// the first resolver returning at least one address is used. The loopback
// literal is always part of the identity.
func ResolveWith(cfg config.IdentityConfig, resolvers ...Resolver) (core.Identity, error) {
	if len(cfg.Addresses) > 0 {
		return core.NewIdentity(cfg.Loopback, cfg.Addresses...), nil
	}

	var lastErr error
	for _, r := range resolvers {
		if r == nil {
			continue
		}
		addrs, err := r.HostAddrs()
		if err != nil {
			log.GetLogger().WithError(err).Debug("identity resolver failed")
			lastErr = err
			continue
		}
		if len(addrs) > 0 {
			return core.NewIdentity(cfg.Loopback, addrs...), nil
		}
	}

	if lastErr != nil {
		return core.Identity{}, fmt.Errorf("%w: %v", core.ErrIdentityUnresolved, lastErr)
	}
	return core.Identity{}, fmt.Errorf("%w: set NETPROC_IDENTITY_ADDRESSES or netproc.identity.addresses", core.ErrIdentityUnresolved)
}

// interfaceAddrs returns the first usable IPv4 address: up, not loopback,
// not link-local.
func interfaceAddrs() ([]netip.Addr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if addr, ok := firstUsable(addrs); ok {
			return []netip.Addr{addr}, nil
		}
	}
	return nil, nil
}

func firstUsable(addrs []net.Addr) (netip.Addr, bool) {
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		addr, ok := netip.AddrFromSlice(ipNet.IP)
		if !ok {
			continue
		}
		addr = addr.Unmap()
		if !addr.Is4() || addr.IsLoopback() || addr.IsLinkLocalUnicast() {
			continue
		}
		return addr, true
	}
	return netip.Addr{}, false
}
