//go:build linux

package identity

import (
	"fmt"
	"net/netip"

	"github.com/vishvananda/netlink"
)

// RouteResolver returns the IPv4 addresses of the interface carrying the
// default route, preferring the route's preferred source.
func RouteResolver() Resolver {
	return ResolverFunc(defaultRouteAddrs)
}

func defaultRouteAddrs() ([]netip.Addr, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	for _, r := range routes {
		if r.Dst != nil {
			continue
		}
		if src, ok := netip.AddrFromSlice(r.Src); ok && src.Unmap().Is4() {
			return []netip.Addr{src.Unmap()}, nil
		}

		link, err := netlink.LinkByIndex(r.LinkIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to get link %d: %w", r.LinkIndex, err)
		}
		addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			return nil, fmt.Errorf("failed to list addresses of %s: %w", link.Attrs().Name, err)
		}

		var out []netip.Addr
		for _, a := range addrs {
			if a.IPNet == nil {
				continue
			}
			if addr, ok := netip.AddrFromSlice(a.IP); ok && addr.Unmap().Is4() {
				out = append(out, addr.Unmap())
			}
		}
		return out, nil
	}
	return nil, nil
}
