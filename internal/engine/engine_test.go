package engine

import (
	"context"
	"io"
	"net/netip"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesb5959/cicflowmeter/internal/capture"
	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// memSource replays a canned packet sequence; a nil entry simulates a frame
// the decoder skipped.
type memSource struct {
	pkts []*flow.Packet
	pos  int
}

func (s *memSource) Next() (*flow.Packet, error) {
	if s.pos >= len(s.pkts) {
		return nil, io.EOF
	}
	p := s.pkts[s.pos]
	s.pos++
	if p == nil {
		return nil, capture.ErrSkip
	}
	return p, nil
}

func (s *memSource) Close() error { return nil }

// memWriter records every emitted flow record.
type memWriter struct {
	recs []*flow.Record
}

func (w *memWriter) Write(rec *flow.Record) error {
	w.recs = append(w.recs, rec)
	return nil
}

func (w *memWriter) Close() error { return nil }

func udpPkt(ts float64, src string, sport uint16, dst string, dport uint16) *flow.Packet {
	return &flow.Packet{
		Timestamp:   ts,
		SrcAddr:     netip.MustParseAddr(src),
		DstAddr:     netip.MustParseAddr(dst),
		Protocol:    flow.ProtoUDP,
		SrcPort:     sport,
		DstPort:     dport,
		IPHeaderLen: 20,
		L4HeaderLen: 8,
		PayloadLen:  32,
		TotalLen:    60,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunEmitsOneRecordPerFlow(t *testing.T) {
	src := &memSource{pkts: []*flow.Packet{
		udpPkt(0.0, "10.0.0.1", 5000, "10.0.0.9", 53),
		udpPkt(0.1, "10.0.0.2", 5000, "10.0.0.9", 53),
		udpPkt(0.2, "10.0.0.9", 53, "10.0.0.1", 5000),
		nil, // undecodable frame
		udpPkt(0.3, "10.0.0.3", 5000, "10.0.0.9", 53),
	}}
	out := &memWriter{}

	eng := New(Config{}, flow.DefaultConfig(), src, out, quietLogger())
	require.NoError(t, eng.Run(context.Background()))

	assert.Len(t, out.recs, 3, "one record per distinct key")

	st := eng.Stats()
	assert.Equal(t, uint64(4), st.PacketsSeen)
	assert.Equal(t, uint64(1), st.PacketsDropped)
	assert.Equal(t, uint64(3), st.RecordsWritten)
	assert.Zero(t, st.ActiveFlows)
}

func TestPeriodicExpireScan(t *testing.T) {
	flowCfg := flow.DefaultConfig()
	src := &memSource{pkts: []*flow.Packet{
		udpPkt(100, "10.0.0.1", 5000, "10.0.0.9", 53),
		// advances the notional clock past the idle timeout; the scan
		// after this packet must already evict the first flow
		udpPkt(100+flowCfg.FlowTimeoutIdle+1, "10.0.0.2", 5000, "10.0.0.9", 53),
	}}
	out := &memWriter{}

	eng := New(Config{ExpireScanInterval: 1}, flowCfg, src, out, quietLogger())
	require.NoError(t, eng.Run(context.Background()))

	require.Len(t, out.recs, 2)
	assert.Equal(t, "10.0.0.1", out.recs[0].SrcIP, "idle flow emitted before the drain")
}

func TestCancelledContextDrains(t *testing.T) {
	src := &memSource{pkts: []*flow.Packet{
		udpPkt(0.0, "10.0.0.1", 5000, "10.0.0.9", 53),
	}}
	out := &memWriter{}
	eng := New(Config{}, flow.DefaultConfig(), src, out, quietLogger())

	// one packet flows in, then end of source drains it
	require.NoError(t, eng.Run(context.Background()))
	require.Len(t, out.recs, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src2 := &memSource{pkts: []*flow.Packet{
		udpPkt(0.0, "10.0.0.5", 5000, "10.0.0.9", 53),
	}}
	out2 := &memWriter{}
	eng2 := New(Config{}, flow.DefaultConfig(), src2, out2, quietLogger())
	require.NoError(t, eng2.Run(ctx))
	assert.Empty(t, out2.recs, "cancelled before any packet was read")
	assert.Zero(t, eng2.Stats().ActiveFlows)
}

func TestStatsReporterStops(t *testing.T) {
	src := &memSource{}
	eng := New(Config{StatsInterval: time.Millisecond}, flow.DefaultConfig(), src, &memWriter{}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, eng.Run(ctx))
	cancel()
}
