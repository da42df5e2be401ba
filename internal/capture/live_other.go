//go:build !linux

package capture

import "fmt"

// OpenLive is only supported on linux, where an AF_PACKET handle is
// available without libpcap.
func OpenLive(iface string) (Source, error) {
	return nil, fmt.Errorf("live capture on %s: only supported on linux", iface)
}
