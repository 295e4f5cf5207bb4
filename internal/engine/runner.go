package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"

	"firestige.xyz/netproc/internal/core"
)

// Run reads frames from src and hands each to proc until src is exhausted,
// ctx is cancelled or count frames were processed (count <= 0 means no
// limit). Read timeouts are skipped. It returns the number of frames
// processed.
func Run(ctx context.Context, src gopacket.PacketDataSource, proc *Processor, count int) (int, error) {
	processed := 0
	for count <= 0 || processed < count {
		select {
		case <-ctx.Done():
			return processed, nil
		default:
		}

		data, ci, err := src.ReadPacketData()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return processed, nil
			case errors.Is(err, core.ErrCaptureTimeout):
				continue
			default:
				return processed, fmt.Errorf("read packet data: %w", err)
			}
		}

		proc.Process(core.Frame{
			Data:       data,
			CaptureLen: ci.CaptureLength,
			Timestamp:  ci.Timestamp,
		})
		processed++
	}
	return processed, nil
}
