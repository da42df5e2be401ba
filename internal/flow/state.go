package flow

import "net/netip"

// bulkDetector tracks one direction's bulk transfers: a tentative run of
// payload-carrying packets, confirmed once BulkBound of them accumulate
// without an opposite-direction packet or a clump-timeout gap in between.
type bulkDetector struct {
	open     bool
	startTmp float64
	lastTmp  float64
	countTmp int64
	sizeTmp  int64

	count       int64
	packetCount int64
	size        int64
	duration    float64
}

type flagCounters struct {
	fin, syn, rst, psh, ack, urg, ece, cwr uint64
}

// State owns every per-flow accumulator. It keeps only rolling sums, so
// memory per flow is constant no matter how many packets arrive. The forward
// endpoint is the sender of the first observed packet.
type State struct {
	cfg *Config

	SrcAddr  netip.Addr
	DstAddr  netip.Addr
	SrcPort  uint16
	DstPort  uint16
	Protocol uint8

	startTS  float64
	latestTS float64

	pkts      [2]uint64
	lenStats  [2]running
	lenAll    running
	flowIAT   running
	dirIAT    [2]running
	lastDirTS [2]float64

	headerBytes [2]int64
	minFwdSeg   int64
	fwdActData  uint64

	flags  flagCounters
	dirPSH [2]uint64
	dirURG [2]uint64

	initWindow [2]uint16

	bulks [2]bulkDetector

	startActive float64
	lastActive  float64
	active      running
	idle        running

	finSeen  [2]bool
	finAcked bool
	rstSeen  bool
}

// NewState opens a flow keyed to the given first packet. The packet itself is
// not ingested; call AddPacket(pkt, Forward) with it.
func NewState(pkt *Packet, cfg *Config) *State {
	return &State{
		cfg:      cfg,
		SrcAddr:  pkt.SrcAddr,
		DstAddr:  pkt.DstAddr,
		SrcPort:  pkt.SrcPort,
		DstPort:  pkt.DstPort,
		Protocol: pkt.Protocol,
	}
}

// AddPacket folds one packet into the flow. Packets must arrive in source
// order; timestamps may still regress (reordered captures), in which case the
// inter-arrival delta is stored negative and latestTS only moves forward.
func (s *State) AddPacket(pkt *Packet, dir Direction) {
	s.pkts[dir]++
	first := s.pkts[Forward]+s.pkts[Reverse] == 1

	s.lenStats[dir].push(float64(pkt.TotalLen))
	s.lenAll.push(float64(pkt.TotalLen))
	s.headerBytes[dir] += int64(pkt.IPHeaderLen + pkt.L4HeaderLen)

	if dir == Forward {
		if s.pkts[Forward] == 1 || int64(pkt.L4HeaderLen) < s.minFwdSeg {
			s.minFwdSeg = int64(pkt.L4HeaderLen)
		}
		if pkt.PayloadLen > 0 {
			s.fwdActData++
		}
	}

	if s.pkts[dir] > 1 {
		s.dirIAT[dir].push(1e6 * (pkt.Timestamp - s.lastDirTS[dir]))
	}
	s.lastDirTS[dir] = pkt.Timestamp

	s.countFlags(pkt, dir)
	s.updateBulk(pkt, dir)

	if first {
		s.startTS = pkt.Timestamp
		s.latestTS = pkt.Timestamp
		s.startActive = pkt.Timestamp
		s.lastActive = pkt.Timestamp
	} else {
		s.updateActiveIdle(pkt.Timestamp)
		s.flowIAT.push(1e6 * (pkt.Timestamp - s.latestTS))
		if pkt.Timestamp > s.latestTS {
			s.latestTS = pkt.Timestamp
		}
	}

	if pkt.TCP != nil {
		if dir == Forward {
			if s.pkts[Forward] == 1 {
				s.initWindow[Forward] = pkt.TCP.Window
			}
		} else if !s.cfg.StrictInitWindow || s.pkts[Reverse] == 1 {
			s.initWindow[Reverse] = pkt.TCP.Window
		}
	}
}

func (s *State) countFlags(pkt *Packet, dir Direction) {
	if pkt.TCP == nil {
		return
	}
	f := pkt.TCP.Flags
	if f&FlagFIN != 0 {
		s.flags.fin++
	}
	if f&FlagSYN != 0 {
		s.flags.syn++
	}
	if f&FlagRST != 0 {
		s.flags.rst++
		s.rstSeen = true
	}
	if f&FlagPSH != 0 {
		s.flags.psh++
		s.dirPSH[dir]++
	}
	if f&FlagACK != 0 {
		s.flags.ack++
		// an ACK once both sides have FINed completes the teardown
		if s.finSeen[Forward] && s.finSeen[Reverse] {
			s.finAcked = true
		}
	}
	if f&FlagURG != 0 {
		s.flags.urg++
		s.dirURG[dir]++
	}
	if f&FlagECE != 0 {
		s.flags.ece++
	}
	if f&FlagCWR != 0 {
		s.flags.cwr++
	}
	if f&FlagFIN != 0 {
		s.finSeen[dir] = true
	}
}

// updateBulk advances the direction's bulk detector. Payload-free packets are
// invisible to it; an opposite-direction payload packet since the tentative
// start invalidates the run.
func (s *State) updateBulk(pkt *Packet, dir Direction) {
	if pkt.PayloadLen == 0 {
		return
	}
	b := &s.bulks[dir]
	opp := &s.bulks[dir.Opposite()]

	if b.open && opp.lastTmp > b.startTmp {
		b.open = false
	}
	if !b.open || pkt.Timestamp-b.lastTmp > s.cfg.ClumpTimeout {
		b.open = true
		b.startTmp = pkt.Timestamp
		b.lastTmp = pkt.Timestamp
		b.countTmp = 1
		b.sizeTmp = int64(pkt.PayloadLen)
		return
	}

	b.countTmp++
	b.sizeTmp += int64(pkt.PayloadLen)
	switch bound := int64(s.cfg.BulkBound); {
	case b.countTmp == bound:
		b.count++
		b.packetCount += b.countTmp
		b.size += b.sizeTmp
		b.duration += pkt.Timestamp - b.startTmp
	case b.countTmp > bound:
		b.packetCount++
		b.size += int64(pkt.PayloadLen)
		b.duration += pkt.Timestamp - b.lastTmp
	}
	b.lastTmp = pkt.Timestamp
}

// updateActiveIdle classifies the gap before this packet, using the latest
// timestamp as it stood before the packet was applied. A gap beyond
// ActiveTimeout closes the current active window and records an idle period.
func (s *State) updateActiveIdle(now float64) {
	gap := now - s.latestTS
	if gap <= s.cfg.ClumpTimeout {
		return
	}
	if gap > s.cfg.ActiveTimeout {
		if d := s.lastActive - s.startActive; d > 0 {
			s.active.push(1e6 * d)
		}
		s.idle.push(1e6 * gap)
		s.startActive = now
		s.lastActive = now
	} else {
		s.lastActive = now
	}
}

// Terminated reports whether TCP teardown completed: a RST in either
// direction, or FINs from both sides with an ACK observed after the later FIN.
func (s *State) Terminated() bool {
	return s.rstSeen || (s.finSeen[Forward] && s.finSeen[Reverse] && s.finAcked)
}

// StartTimestamp returns the flow's first packet time in fractional seconds.
func (s *State) StartTimestamp() float64 { return s.startTS }

// LatestTimestamp returns the newest packet time seen, clamped monotonic.
func (s *State) LatestTimestamp() float64 { return s.latestTS }

// Duration returns latest minus start in fractional seconds.
func (s *State) Duration() float64 { return s.latestTS - s.startTS }

// PacketCount returns the number of packets ingested so far.
func (s *State) PacketCount() uint64 { return s.pkts[Forward] + s.pkts[Reverse] }
