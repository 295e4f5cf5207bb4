package source

import (
	"fmt"

	"golang.org/x/net/bpf"
)

// packetFilter runs a classic BPF program in user space for sources that
// cannot attach one to a socket.
type packetFilter struct {
	vm *bpf.VM
}

func newPacketFilter(raw []bpf.RawInstruction) (*packetFilter, error) {
	insns, ok := bpf.Disassemble(raw)
	if !ok {
		return nil, fmt.Errorf("capture filter contains undecodable instructions")
	}
	vm, err := bpf.NewVM(insns)
	if err != nil {
		return nil, fmt.Errorf("invalid capture filter program: %w", err)
	}
	return &packetFilter{vm: vm}, nil
}

// Matches reports whether the program accepts data.
func (f *packetFilter) Matches(data []byte) bool {
	n, err := f.vm.Run(data)
	return err == nil && n > 0
}
