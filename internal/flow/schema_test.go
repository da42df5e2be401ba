package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsStableAndUnique(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, 82)

	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}

	assert.Equal(t, "src_ip", cols[0])
	assert.Equal(t, "subflow_bwd_byts", cols[len(cols)-1])
}

func TestValuesAlignWithColumns(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(cfg, udpPkt(0, "10.0.0.1", 5000, "10.0.0.2", 53, 60, 60))
	s.AddPacket(udpPkt(0.05, "10.0.0.2", 53, "10.0.0.1", 5000, 120, 120), Reverse)
	rec := s.Record()

	cols := Columns()
	vals := rec.Values()
	require.Len(t, vals, len(cols))

	byName := make(map[string]any, len(cols))
	for i, c := range cols {
		byName[c] = vals[i]
	}
	assert.Equal(t, "10.0.0.1", byName["src_ip"])
	assert.Equal(t, "10.0.0.2", byName["dst_ip"])
	assert.Equal(t, uint64(1), byName["tot_fwd_pkts"])
	assert.Equal(t, float64(120), byName["totlen_bwd_pkts"])
}

func TestDenormalizedDuplicates(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestState(cfg, tcpPkt(0, "10.0.0.1", 1000, "10.0.0.2", 80, 100, FlagACK, 512))
	s.AddPacket(tcpPkt(0.1, "10.0.0.2", 80, "10.0.0.1", 1000, 300, FlagACK, 256), Reverse)
	rec := s.Record()

	assert.Equal(t, rec.FwdPktLenMean, rec.FwdSegSizeAvg)
	assert.Equal(t, rec.BwdPktLenMean, rec.BwdSegSizeAvg)
	assert.Equal(t, rec.TotFwdPkts, rec.SubflowFwdPkts)
	assert.Equal(t, rec.TotBwdPkts, rec.SubflowBwdPkts)
	assert.Equal(t, rec.TotLenFwdPkts, rec.SubflowFwdByts)
	assert.Equal(t, rec.TotLenBwdPkts, rec.SubflowBwdByts)
}
