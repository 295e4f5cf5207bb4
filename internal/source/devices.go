//go:build cgo

package source

import (
	"fmt"

	"github.com/google/gopacket/pcap"
)

// Devices lists the capture devices libpcap can open.
func Devices() ([]Device, error) {
	ifaces, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("couldn't list capture devices: %w", err)
	}

	devices := make([]Device, 0, len(ifaces))
	for _, iface := range ifaces {
		d := Device{Name: iface.Name, Description: iface.Description}
		for _, addr := range iface.Addresses {
			if addr.IP == nil {
				continue
			}
			d.Addresses = append(d.Addresses, addr.IP.String())
			if addr.IP.IsLoopback() {
				d.Loopback = true
			}
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// DefaultDevice picks the device to capture on when none is configured:
// the first non-loopback device with an address, else the first device.
func DefaultDevice() (string, error) {
	devices, err := Devices()
	if err != nil {
		return "", err
	}
	return pickDefault(devices)
}

