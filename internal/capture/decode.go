package capture

import (
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// Decoder turns raw link-layer frames into the flow engine's packet records.
type Decoder struct {
	link gopacket.Decoder
}

// NewDecoder creates a decoder for frames of the given link type.
func NewDecoder(link layers.LinkType) *Decoder {
	return &Decoder{link: link}
}

// Decode extracts the L3/L4 fields the flow table needs. Frames without an
// IP layer return ErrSkip. Non-TCP/UDP IP packets are still returned, with
// ports zero, and produce degenerate flows downstream.
func (d *Decoder) Decode(data []byte, ts time.Time) (*flow.Packet, error) {
	packet := gopacket.NewPacket(data, d.link, gopacket.Default)

	pkt := &flow.Packet{
		Timestamp: float64(ts.UnixMicro()) / 1e6,
	}

	switch {
	case packet.Layer(layers.LayerTypeIPv4) != nil:
		ip := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
		pkt.SrcAddr, _ = netip.AddrFromSlice(ip.SrcIP.To4())
		pkt.DstAddr, _ = netip.AddrFromSlice(ip.DstIP.To4())
		pkt.Protocol = uint8(ip.Protocol)
		pkt.IPHeaderLen = int(ip.IHL) * 4
		pkt.TotalLen = int(ip.Length)
	case packet.Layer(layers.LayerTypeIPv6) != nil:
		ip := packet.Layer(layers.LayerTypeIPv6).(*layers.IPv6)
		pkt.SrcAddr, _ = netip.AddrFromSlice(ip.SrcIP)
		pkt.DstAddr, _ = netip.AddrFromSlice(ip.DstIP)
		pkt.Protocol = uint8(ip.NextHeader)
		pkt.IPHeaderLen = 40
		pkt.TotalLen = 40 + int(ip.Length)
	default:
		return nil, ErrSkip
	}

	if !pkt.SrcAddr.IsValid() || !pkt.DstAddr.IsValid() {
		return nil, ErrSkip
	}

	if tcpLayer := packet.Layer(layers.LayerTypeTCP); tcpLayer != nil {
		tcp := tcpLayer.(*layers.TCP)
		pkt.SrcPort = uint16(tcp.SrcPort)
		pkt.DstPort = uint16(tcp.DstPort)
		pkt.L4HeaderLen = int(tcp.DataOffset) * 4
		pkt.PayloadLen = len(tcp.Payload)
		pkt.TCP = &flow.TCPInfo{
			Flags:  tcpFlags(tcp),
			Window: tcp.Window,
		}
	} else if udpLayer := packet.Layer(layers.LayerTypeUDP); udpLayer != nil {
		udp := udpLayer.(*layers.UDP)
		pkt.SrcPort = uint16(udp.SrcPort)
		pkt.DstPort = uint16(udp.DstPort)
		pkt.L4HeaderLen = 8
		pkt.PayloadLen = len(udp.Payload)
	}

	return pkt, nil
}

func tcpFlags(tcp *layers.TCP) uint8 {
	var f uint8
	if tcp.FIN {
		f |= flow.FlagFIN
	}
	if tcp.SYN {
		f |= flow.FlagSYN
	}
	if tcp.RST {
		f |= flow.FlagRST
	}
	if tcp.PSH {
		f |= flow.FlagPSH
	}
	if tcp.ACK {
		f |= flow.FlagACK
	}
	if tcp.URG {
		f |= flow.FlagURG
	}
	if tcp.ECE {
		f |= flow.FlagECE
	}
	if tcp.CWR {
		f |= flow.FlagCWR
	}
	return f
}
