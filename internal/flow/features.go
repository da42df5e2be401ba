package flow

// Record is the fixed-schema feature vector emitted for one completed flow.
// Durations and inter-arrival times are microseconds, rates are per second.
type Record struct {
	SrcIP     string
	DstIP     string
	SrcPort   uint16
	DstPort   uint16
	Protocol  uint8
	Timestamp float64

	FlowDuration float64
	FlowBytsPerS float64
	FlowPktsPerS float64
	FwdPktsPerS  float64
	BwdPktsPerS  float64

	TotFwdPkts    uint64
	TotBwdPkts    uint64
	TotLenFwdPkts float64
	TotLenBwdPkts float64

	FwdPktLenMax  float64
	FwdPktLenMin  float64
	FwdPktLenMean float64
	FwdPktLenStd  float64
	BwdPktLenMax  float64
	BwdPktLenMin  float64
	BwdPktLenMean float64
	BwdPktLenStd  float64
	PktLenMax     float64
	PktLenMin     float64
	PktLenMean    float64
	PktLenStd     float64
	PktLenVar     float64

	FwdHeaderLen   int64
	BwdHeaderLen   int64
	FwdSegSizeMin  int64
	FwdActDataPkts uint64

	FlowIATMean float64
	FlowIATMax  float64
	FlowIATMin  float64
	FlowIATStd  float64
	FwdIATTot   float64
	FwdIATMax   float64
	FwdIATMin   float64
	FwdIATMean  float64
	FwdIATStd   float64
	BwdIATTot   float64
	BwdIATMax   float64
	BwdIATMin   float64
	BwdIATMean  float64
	BwdIATStd   float64

	FwdPSHFlags uint64
	BwdPSHFlags uint64
	FwdURGFlags uint64
	BwdURGFlags uint64
	FINFlagCnt  uint64
	SYNFlagCnt  uint64
	RSTFlagCnt  uint64
	PSHFlagCnt  uint64
	ACKFlagCnt  uint64
	URGFlagCnt  uint64
	ECEFlagCnt  uint64
	CWRFlagCnt  uint64

	DownUpRatio    float64
	PktSizeAvg     float64
	InitFwdWinByts uint16
	InitBwdWinByts uint16

	ActiveMax  float64
	ActiveMin  float64
	ActiveMean float64
	ActiveStd  float64
	IdleMax    float64
	IdleMin    float64
	IdleMean   float64
	IdleStd    float64

	FwdBytsBAvg   float64
	FwdPktsBAvg   float64
	BwdBytsBAvg   float64
	BwdPktsBAvg   float64
	FwdBlkRateAvg float64
	BwdBlkRateAvg float64

	// Denormalized duplicates, kept for schema compatibility.
	FwdSegSizeAvg  float64
	BwdSegSizeAvg  float64
	SubflowFwdPkts uint64
	SubflowBwdPkts uint64
	SubflowFwdByts float64
	SubflowBwdByts float64
}

// Record projects the flow state into the output schema. It is a pure
// function of the accumulators and may be called at any point in the flow's
// life; the table calls it exactly once, on expiry.
func (s *State) Record() *Record {
	durS := s.Duration()

	rate := func(n float64) float64 {
		if durS <= 0 {
			return 0
		}
		return n / durS
	}
	ratio := func(num, den float64) float64 {
		if den == 0 {
			return 0
		}
		return num / den
	}

	fwdPkts := s.pkts[Forward]
	bwdPkts := s.pkts[Reverse]
	totLenFwd := s.lenStats[Forward].total()
	totLenBwd := s.lenStats[Reverse].total()

	fb := &s.bulks[Forward]
	bb := &s.bulks[Reverse]

	r := &Record{
		SrcIP:     s.SrcAddr.String(),
		DstIP:     s.DstAddr.String(),
		SrcPort:   s.SrcPort,
		DstPort:   s.DstPort,
		Protocol:  s.Protocol,
		Timestamp: s.startTS,

		FlowDuration: 1e6 * durS,
		FlowBytsPerS: rate(totLenFwd + totLenBwd),
		FlowPktsPerS: rate(float64(fwdPkts + bwdPkts)),
		FwdPktsPerS:  rate(float64(fwdPkts)),
		BwdPktsPerS:  rate(float64(bwdPkts)),

		TotFwdPkts:    fwdPkts,
		TotBwdPkts:    bwdPkts,
		TotLenFwdPkts: totLenFwd,
		TotLenBwdPkts: totLenBwd,

		FwdPktLenMax:  s.lenStats[Forward].max(),
		FwdPktLenMin:  s.lenStats[Forward].min(),
		FwdPktLenMean: s.lenStats[Forward].mean(),
		FwdPktLenStd:  s.lenStats[Forward].std(),
		BwdPktLenMax:  s.lenStats[Reverse].max(),
		BwdPktLenMin:  s.lenStats[Reverse].min(),
		BwdPktLenMean: s.lenStats[Reverse].mean(),
		BwdPktLenStd:  s.lenStats[Reverse].std(),
		PktLenMax:     s.lenAll.max(),
		PktLenMin:     s.lenAll.min(),
		PktLenMean:    s.lenAll.mean(),
		PktLenStd:     s.lenAll.std(),
		PktLenVar:     s.lenAll.variance(),

		FwdHeaderLen:   s.headerBytes[Forward],
		BwdHeaderLen:   s.headerBytes[Reverse],
		FwdSegSizeMin:  s.minFwdSeg,
		FwdActDataPkts: s.fwdActData,

		FlowIATMean: s.flowIAT.mean(),
		FlowIATMax:  s.flowIAT.max(),
		FlowIATMin:  s.flowIAT.min(),
		FlowIATStd:  s.flowIAT.std(),
		FwdIATTot:   s.dirIAT[Forward].total(),
		FwdIATMax:   s.dirIAT[Forward].max(),
		FwdIATMin:   s.dirIAT[Forward].min(),
		FwdIATMean:  s.dirIAT[Forward].mean(),
		FwdIATStd:   s.dirIAT[Forward].std(),
		BwdIATTot:   s.dirIAT[Reverse].total(),
		BwdIATMax:   s.dirIAT[Reverse].max(),
		BwdIATMin:   s.dirIAT[Reverse].min(),
		BwdIATMean:  s.dirIAT[Reverse].mean(),
		BwdIATStd:   s.dirIAT[Reverse].std(),

		FwdPSHFlags: s.dirPSH[Forward],
		BwdPSHFlags: s.dirPSH[Reverse],
		FwdURGFlags: s.dirURG[Forward],
		BwdURGFlags: s.dirURG[Reverse],
		FINFlagCnt:  s.flags.fin,
		SYNFlagCnt:  s.flags.syn,
		RSTFlagCnt:  s.flags.rst,
		PSHFlagCnt:  s.flags.psh,
		ACKFlagCnt:  s.flags.ack,
		URGFlagCnt:  s.flags.urg,
		ECEFlagCnt:  s.flags.ece,
		CWRFlagCnt:  s.flags.cwr,

		DownUpRatio:    ratio(float64(bwdPkts), float64(fwdPkts)),
		PktSizeAvg:     s.lenAll.mean(),
		InitFwdWinByts: s.initWindow[Forward],
		InitBwdWinByts: s.initWindow[Reverse],

		ActiveMax:  s.active.max(),
		ActiveMin:  s.active.min(),
		ActiveMean: s.active.mean(),
		ActiveStd:  s.active.std(),
		IdleMax:    s.idle.max(),
		IdleMin:    s.idle.min(),
		IdleMean:   s.idle.mean(),
		IdleStd:    s.idle.std(),

		FwdBytsBAvg:   ratio(float64(fb.size), float64(fb.count)),
		FwdPktsBAvg:   ratio(float64(fb.packetCount), float64(fb.count)),
		BwdBytsBAvg:   ratio(float64(bb.size), float64(bb.count)),
		BwdPktsBAvg:   ratio(float64(bb.packetCount), float64(bb.count)),
		FwdBlkRateAvg: ratio(float64(fb.size), fb.duration),
		BwdBlkRateAvg: ratio(float64(bb.size), bb.duration),
	}

	r.FwdSegSizeAvg = r.FwdPktLenMean
	r.BwdSegSizeAvg = r.BwdPktLenMean
	r.SubflowFwdPkts = r.TotFwdPkts
	r.SubflowBwdPkts = r.TotBwdPkts
	r.SubflowFwdByts = r.TotLenFwdPkts
	r.SubflowBwdByts = r.TotLenBwdPkts
	return r
}
