// Package decoder implements bounds-checked L2-L4 frame dissection.
package decoder

import "firestige.xyz/netproc/internal/core"

// require fails with TruncatedHeader when fewer than needed bytes remain.
// It must be called before every header-sized read.
func require(remaining, needed int, layer string) error {
	if remaining < needed {
		return core.TruncatedHeader(layer)
	}
	return nil
}
