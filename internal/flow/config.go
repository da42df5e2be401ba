package flow

// Config holds the tunables of the flow state machine and table. All
// durations are fractional seconds, matching packet timestamps.
type Config struct {
	// FlowTimeoutIdle evicts a flow once no packet has been seen for this
	// long (judged against the driver's notional clock, not wallclock).
	FlowTimeoutIdle float64

	// FlowTimeoutActive caps the total duration of a flow.
	FlowTimeoutActive float64

	// ClumpTimeout is the gap beyond which a tentative bulk resets and an
	// active period potentially closes.
	ClumpTimeout float64

	// ActiveTimeout is the gap separating active from idle periods.
	ActiveTimeout float64

	// BulkBound is the number of payload-carrying packets needed to
	// confirm a bulk.
	BulkBound int

	// MaxFlows caps the table size; 0 means unlimited. When exceeded the
	// coldest flow is evicted and emitted as if expired.
	MaxFlows int

	// TCPTermination evicts TCP flows on RST, or once both sides have sent
	// a FIN and the later FIN has been acknowledged. Off reproduces the
	// timeout-only behavior of the original meter.
	TCPTermination bool

	// StrictInitWindow records init_bwd_win_byts from the first reverse
	// TCP packet only. Off reproduces the original meter, which overwrites
	// it on every reverse packet.
	StrictInitWindow bool
}

// DefaultConfig returns the standard CICFlowMeter parameters.
func DefaultConfig() Config {
	return Config{
		FlowTimeoutIdle:   120,
		FlowTimeoutActive: 120,
		ClumpTimeout:      1.0,
		ActiveTimeout:     5.0,
		BulkBound:         4,
		MaxFlows:          0,
		TCPTermination:    true,
		StrictInitWindow:  false,
	}
}
