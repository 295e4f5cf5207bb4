// Package process attributes local ports to the processes owning them.
package process

import (
	"context"
	"fmt"
	"strconv"

	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Info identifies the process bound to a port.
type Info struct {
	PID  int32  `json:"pid" yaml:"pid"`
	Name string `json:"name" yaml:"name"`
}

// Resolver maps decimal port strings to their owning process.
type Resolver interface {
	Resolve(ctx context.Context) (map[string]Info, error)
}

// GopsutilResolver reads the socket tables through gopsutil.
type GopsutilResolver struct{}

// NewGopsutilResolver creates a GopsutilResolver.
func NewGopsutilResolver() *GopsutilResolver {
	return &GopsutilResolver{}
}

// Resolve implements Resolver for TCP and UDP sockets of both families.
func (r *GopsutilResolver) Resolve(ctx context.Context) (map[string]Info, error) {
	conns, err := gnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return buildMapping(conns, func(pid int32) (string, error) {
		p, err := process.NewProcessWithContext(ctx, pid)
		if err != nil {
			return "", err
		}
		return p.NameWithContext(ctx)
	}), nil
}

// buildMapping keys sockets by local port. Sockets without an owning pid
// (other users' sockets without privileges) are skipped.
func buildMapping(conns []gnet.ConnectionStat, name func(pid int32) (string, error)) map[string]Info {
	names := make(map[int32]string)
	out := make(map[string]Info, len(conns))

	for _, c := range conns {
		if c.Pid <= 0 || c.Laddr.Port == 0 {
			continue
		}
		port := strconv.FormatUint(uint64(c.Laddr.Port), 10)
		if _, ok := out[port]; ok {
			continue
		}

		n, ok := names[c.Pid]
		if !ok {
			var err error
			n, err = name(c.Pid)
			if err != nil {
				n = ""
			}
			names[c.Pid] = n
		}
		out[port] = Info{PID: c.Pid, Name: n}
	}
	return out
}
