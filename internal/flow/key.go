package flow

import (
	"encoding/binary"
	"net/netip"

	"github.com/zeebo/xxh3"
)

// Key identifies a bidirectional flow. It is symmetric in the two endpoints,
// so packets of both directions land in the same table bucket. Direction is
// recovered by comparing a packet's source endpoint against the forward
// endpoint frozen in the flow state.
type Key uint64

// KeyOf canonicalizes the packet's 5-tuple into a direction-agnostic key by
// ordering the two endpoints before hashing.
func KeyOf(pkt *Packet) Key {
	lo := endpointBytes(pkt.SrcAddr, pkt.SrcPort)
	hi := endpointBytes(pkt.DstAddr, pkt.DstPort)
	if endpointLess(pkt.DstAddr, pkt.DstPort, pkt.SrcAddr, pkt.SrcPort) {
		lo, hi = hi, lo
	}

	var buf [2*endpointSize + 1]byte
	copy(buf[:endpointSize], lo[:])
	copy(buf[endpointSize:2*endpointSize], hi[:])
	buf[2*endpointSize] = pkt.Protocol
	return Key(xxh3.Hash(buf[:]))
}

// endpointSize is a 16-byte address (IPv4 mapped) plus a 2-byte port.
const endpointSize = 18

func endpointBytes(addr netip.Addr, port uint16) [endpointSize]byte {
	var out [endpointSize]byte
	a16 := addr.As16()
	copy(out[:16], a16[:])
	binary.BigEndian.PutUint16(out[16:], port)
	return out
}

func endpointLess(a netip.Addr, aPort uint16, b netip.Addr, bPort uint16) bool {
	if c := a.Compare(b); c != 0 {
		return c < 0
	}
	return aPort < bPort
}
