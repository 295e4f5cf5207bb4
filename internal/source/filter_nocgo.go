//go:build !cgo

package source

import (
	"fmt"

	"github.com/google/gopacket/layers"
	"golang.org/x/net/bpf"

	"firestige.xyz/netproc/internal/core"
)

func compileFilter(_ layers.LinkType, _ int, expr string) ([]bpf.RawInstruction, error) {
	return nil, fmt.Errorf("%w: compiling filter %q needs libpcap", core.ErrSourceUnsupported, expr)
}
