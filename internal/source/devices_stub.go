//go:build !cgo

package source

import (
	"fmt"

	"firestige.xyz/netproc/internal/core"
)

// Devices needs libpcap.
func Devices() ([]Device, error) {
	return nil, fmt.Errorf("%w: listing devices needs libpcap (build with cgo)", core.ErrSourceUnsupported)
}

// DefaultDevice needs libpcap.
func DefaultDevice() (string, error) {
	_, err := Devices()
	return "", err
}
