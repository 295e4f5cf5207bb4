package source

import (
	"fmt"

	"firestige.xyz/netproc/internal/core"
)

// Device describes a capture device.
type Device struct {
	Name        string
	Description string
	Addresses   []string
	Loopback    bool
}

func pickDefault(devices []Device) (string, error) {
	if len(devices) == 0 {
		return "", fmt.Errorf("%w: no capture devices found", core.ErrSourceUnsupported)
	}
	for _, d := range devices {
		if !d.Loopback && len(d.Addresses) > 0 {
			return d.Name, nil
		}
	}
	return devices[0].Name, nil
}
