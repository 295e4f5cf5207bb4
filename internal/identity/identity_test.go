package identity

import (
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
)

func fixed(addrs ...string) Resolver {
	return ResolverFunc(func() ([]netip.Addr, error) {
		out := make([]netip.Addr, 0, len(addrs))
		for _, a := range addrs {
			out = append(out, netip.MustParseAddr(a))
		}
		return out, nil
	})
}

func failing(msg string) Resolver {
	return ResolverFunc(func() ([]netip.Addr, error) { return nil, errors.New(msg) })
}

func TestResolveExplicitWins(t *testing.T) {
	cfg := config.IdentityConfig{
		Addresses: []netip.Addr{netip.MustParseAddr("10.0.0.5")},
		Loopback:  core.DefaultLoopback,
	}

	id, err := ResolveWith(cfg, fixed("192.168.1.1"))
	require.NoError(t, err)

	assert.True(t, id.IsLocal(netip.MustParseAddr("10.0.0.5")))
	assert.False(t, id.IsLocal(netip.MustParseAddr("192.168.1.1")))
	assert.True(t, id.IsLocal(core.DefaultLoopback))
}

func TestResolveFallsThrough(t *testing.T) {
	id, err := ResolveWith(config.IdentityConfig{},
		nil,
		failing("no netlink"),
		fixed(),
		fixed("192.168.1.1"),
	)
	require.NoError(t, err)

	assert.Equal(t, netip.MustParseAddr("192.168.1.1"), id.Primary())
	assert.True(t, id.IsLocal(core.DefaultLoopback))
}

func TestResolveUnresolved(t *testing.T) {
	_, err := ResolveWith(config.IdentityConfig{}, fixed())
	assert.ErrorIs(t, err, core.ErrIdentityUnresolved)

	_, err = ResolveWith(config.IdentityConfig{}, failing("boom"))
	assert.ErrorIs(t, err, core.ErrIdentityUnresolved)
	assert.Contains(t, err.Error(), "boom")
}

func TestResolveCustomLoopback(t *testing.T) {
	cfg := config.IdentityConfig{Loopback: netip.MustParseAddr("127.0.1.1")}

	id, err := ResolveWith(cfg, fixed("192.168.1.1"))
	require.NoError(t, err)

	assert.True(t, id.IsLocal(netip.MustParseAddr("127.0.1.1")))
	assert.False(t, id.IsLocal(core.DefaultLoopback))
}

func TestFirstUsable(t *testing.T) {
	mask := net.CIDRMask(24, 32)
	addrs := []net.Addr{
		&net.IPAddr{IP: net.ParseIP("10.9.9.9")},
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: mask},
		&net.IPNet{IP: net.ParseIP("169.254.1.2"), Mask: mask},
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPNet{IP: net.ParseIP("192.168.7.3"), Mask: mask},
	}

	addr, ok := firstUsable(addrs)
	require.True(t, ok)
	assert.Equal(t, netip.MustParseAddr("192.168.7.3"), addr)

	_, ok = firstUsable(addrs[:4])
	assert.False(t, ok)
}
