package classify

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"firestige.xyz/netproc/internal/core"
)

var (
	host   = netip.MustParseAddr("192.168.1.10")
	remote = netip.MustParseAddr("93.184.216.34")
	other  = netip.MustParseAddr("10.1.1.1")
	lo     = netip.MustParseAddr("127.0.0.1")
)

func TestClassify(t *testing.T) {
	c := NewClassifier(core.NewIdentity(lo, host))

	tests := []struct {
		name     string
		src, dst netip.Addr
		want     core.Classification
	}{
		{"outbound", host, remote, core.SourceLocal},
		{"inbound", remote, host, core.DestLocal},
		{"host to itself", host, host, core.BothLocal},
		{"loopback", lo, lo, core.BothLocal},
		{"host to loopback", host, lo, core.BothLocal},
		{"loopback source", lo, remote, core.SourceLocal},
		{"loopback destination", remote, lo, core.DestLocal},
		{"transit", remote, other, core.NoneLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.src, tt.dst))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := NewClassifier(core.NewIdentity(lo, host))

	first := c.Classify(host, remote)
	second := c.Classify(host, remote)
	assert.Equal(t, first, second)
}

func TestClassifyMultipleHostAddresses(t *testing.T) {
	second := netip.MustParseAddr("172.16.0.5")
	c := NewClassifier(core.NewIdentity(lo, host, second))

	assert.Equal(t, core.BothLocal, c.Classify(host, second))
	assert.Equal(t, core.DestLocal, c.Classify(remote, second))
	assert.Equal(t, host, c.Identity().Primary())
}

func TestClassifyInvalidAddresses(t *testing.T) {
	c := NewClassifier(core.NewIdentity(lo, host))

	assert.Equal(t, core.NoneLocal, c.Classify(netip.Addr{}, netip.Addr{}))
}
