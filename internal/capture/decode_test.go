package capture

import (
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

var (
	srcMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	dstMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
)

func serialize(t *testing.T, ls ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ls...))
	return buf.Bytes()
}

func TestDecodeTCP(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{
		Version: 4, IHL: 5, TTL: 64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.IPv4(10, 0, 0, 1),
		DstIP:    net.IPv4(10, 0, 0, 2),
	}
	tcp := &layers.TCP{
		SrcPort: 40000, DstPort: 443,
		SYN: true, ACK: true, PSH: true,
		Window: 64240,
	}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	payload := []byte("hello flow meter")
	data := serialize(t, eth, ip, tcp, gopacket.Payload(payload))

	ts := time.Unix(1700000000, 123456000).UTC()
	pkt, err := NewDecoder(layers.LinkTypeEthernet).Decode(data, ts)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", pkt.SrcAddr.String())
	assert.Equal(t, "10.0.0.2", pkt.DstAddr.String())
	assert.Equal(t, flow.ProtoTCP, pkt.Protocol)
	assert.Equal(t, uint16(40000), pkt.SrcPort)
	assert.Equal(t, uint16(443), pkt.DstPort)
	assert.Equal(t, 20, pkt.IPHeaderLen)
	assert.Equal(t, 20, pkt.L4HeaderLen)
	assert.Equal(t, len(payload), pkt.PayloadLen)
	assert.Equal(t, 40+len(payload), pkt.TotalLen)
	assert.InDelta(t, 1700000000.123456, pkt.Timestamp, 1e-6)

	require.NotNil(t, pkt.TCP)
	assert.Equal(t, flow.FlagSYN|flow.FlagACK|flow.FlagPSH, pkt.TCP.Flags)
	assert.Equal(t, uint16(64240), pkt.TCP.Window)
}

func TestDecodeUDP(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{
		Version: 4, IHL: 5, TTL: 64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4(192, 168, 1, 10),
		DstIP:    net.IPv4(8, 8, 8, 8),
	}
	udp := &layers.UDP{SrcPort: 5353, DstPort: 53}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	data := serialize(t, eth, ip, udp, gopacket.Payload(make([]byte, 32)))

	pkt, err := NewDecoder(layers.LinkTypeEthernet).Decode(data, time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, flow.ProtoUDP, pkt.Protocol)
	assert.Equal(t, uint16(5353), pkt.SrcPort)
	assert.Equal(t, uint16(53), pkt.DstPort)
	assert.Equal(t, 8, pkt.L4HeaderLen)
	assert.Equal(t, 32, pkt.PayloadLen)
	assert.Nil(t, pkt.TCP)
}

func TestDecodeIPv6(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv6}
	ip := &layers.IPv6{
		Version: 6, HopLimit: 64,
		NextHeader: layers.IPProtocolUDP,
		SrcIP:      net.ParseIP("2001:db8::1"),
		DstIP:      net.ParseIP("2001:db8::2"),
	}
	udp := &layers.UDP{SrcPort: 1024, DstPort: 53}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	data := serialize(t, eth, ip, udp, gopacket.Payload([]byte("abc")))

	pkt, err := NewDecoder(layers.LinkTypeEthernet).Decode(data, time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, "2001:db8::1", pkt.SrcAddr.String())
	assert.Equal(t, flow.ProtoUDP, pkt.Protocol)
	assert.Equal(t, 40, pkt.IPHeaderLen)
	assert.Equal(t, 3, pkt.PayloadLen)
}

func TestDecodeNonIPSkipped(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeARP}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   srcMAC,
		SourceProtAddress: []byte{10, 0, 0, 1},
		DstHwAddress:      make([]byte, 6),
		DstProtAddress:    []byte{10, 0, 0, 2},
	}
	data := serialize(t, eth, arp)

	_, err := NewDecoder(layers.LinkTypeEthernet).Decode(data, time.Unix(0, 0))
	assert.ErrorIs(t, err, ErrSkip)
}

func TestDecodeICMPDegenerateFlow(t *testing.T) {
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{
		Version: 4, IHL: 5, TTL: 64,
		Protocol: layers.IPProtocolICMPv4,
		SrcIP:    net.IPv4(10, 0, 0, 1),
		DstIP:    net.IPv4(10, 0, 0, 2),
	}
	icmp := &layers.ICMPv4{TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0)}
	data := serialize(t, eth, ip, icmp)

	pkt, err := NewDecoder(layers.LinkTypeEthernet).Decode(data, time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, uint8(1), pkt.Protocol)
	assert.Zero(t, pkt.SrcPort)
	assert.Zero(t, pkt.DstPort)
	assert.Nil(t, pkt.TCP)
}
