//go:build linux

package capture

import (
	"fmt"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// LiveSource reads packets from a network interface via an AF_PACKET handle.
type LiveSource struct {
	h   *pcapgo.EthernetHandle
	dec *Decoder
}

// OpenLive attaches to the given interface.
func OpenLive(iface string) (Source, error) {
	h, err := pcapgo.NewEthernetHandle(iface)
	if err != nil {
		return nil, fmt.Errorf("failed to open interface %s: %w", iface, err)
	}
	return &LiveSource{h: h, dec: NewDecoder(layers.LinkTypeEthernet)}, nil
}

// Next blocks for the next captured packet.
func (s *LiveSource) Next() (*flow.Packet, error) {
	data, ci, err := s.h.ReadPacketData()
	if err != nil {
		return nil, fmt.Errorf("failed to read from interface: %w", err)
	}
	return s.dec.Decode(data, ci.Timestamp)
}

// Close detaches from the interface.
func (s *LiveSource) Close() error {
	s.h.Close()
	return nil
}
