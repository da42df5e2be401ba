package flow

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeySymmetric(t *testing.T) {
	fwd := &Packet{
		SrcAddr: netip.MustParseAddr("10.0.0.1"),
		DstAddr: netip.MustParseAddr("10.0.0.2"),
		SrcPort: 40000, DstPort: 443,
		Protocol: ProtoTCP,
	}
	rev := &Packet{
		SrcAddr: fwd.DstAddr,
		DstAddr: fwd.SrcAddr,
		SrcPort: fwd.DstPort, DstPort: fwd.SrcPort,
		Protocol: ProtoTCP,
	}

	assert.Equal(t, KeyOf(fwd), KeyOf(rev))
}

func TestKeyDistinguishesTuples(t *testing.T) {
	base := &Packet{
		SrcAddr: netip.MustParseAddr("10.0.0.1"),
		DstAddr: netip.MustParseAddr("10.0.0.2"),
		SrcPort: 40000, DstPort: 443,
		Protocol: ProtoTCP,
	}

	otherPort := *base
	otherPort.SrcPort = 40001
	assert.NotEqual(t, KeyOf(base), KeyOf(&otherPort))

	otherProto := *base
	otherProto.Protocol = ProtoUDP
	assert.NotEqual(t, KeyOf(base), KeyOf(&otherProto))

	otherAddr := *base
	otherAddr.DstAddr = netip.MustParseAddr("10.0.0.3")
	assert.NotEqual(t, KeyOf(base), KeyOf(&otherAddr))
}

func TestKeyIPv6(t *testing.T) {
	fwd := &Packet{
		SrcAddr: netip.MustParseAddr("2001:db8::1"),
		DstAddr: netip.MustParseAddr("2001:db8::2"),
		SrcPort: 1234, DstPort: 53,
		Protocol: ProtoUDP,
	}
	rev := &Packet{
		SrcAddr: fwd.DstAddr,
		DstAddr: fwd.SrcAddr,
		SrcPort: fwd.DstPort, DstPort: fwd.SrcPort,
		Protocol: ProtoUDP,
	}

	assert.Equal(t, KeyOf(fwd), KeyOf(rev))
}
