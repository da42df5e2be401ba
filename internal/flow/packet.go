package flow

import "net/netip"

// TCP flag bits as they appear on the wire.
const (
	FlagFIN uint8 = 1 << iota
	FlagSYN
	FlagRST
	FlagPSH
	FlagACK
	FlagURG
	FlagECE
	FlagCWR
)

// IP protocol numbers handled specially by the state machine.
const (
	ProtoTCP uint8 = 6
	ProtoUDP uint8 = 17
)

// Direction of a packet relative to the flow's first-seen sender.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "reverse"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	return 1 - d
}

// TCPInfo carries the TCP-specific fields of a decoded packet.
type TCPInfo struct {
	Flags  uint8
	Window uint16
}

// Packet is one decoded, timestamped unit handed to the flow table.
// Timestamp is fractional UTC seconds with microsecond precision.
// TCP is nil for anything that is not TCP.
type Packet struct {
	Timestamp   float64
	SrcAddr     netip.Addr
	DstAddr     netip.Addr
	Protocol    uint8
	SrcPort     uint16
	DstPort     uint16
	IPHeaderLen int
	L4HeaderLen int
	PayloadLen  int
	TotalLen    int
	TCP         *TCPInfo
}

// HasFlag reports whether the packet carries the given TCP flag.
func (p *Packet) HasFlag(flag uint8) bool {
	return p.TCP != nil && p.TCP.Flags&flag != 0
}
