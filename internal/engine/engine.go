// Package engine drives the pipeline: packet source -> flow table -> sink.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/jamesb5959/cicflowmeter/internal/capture"
	"github.com/jamesb5959/cicflowmeter/internal/flow"
	"github.com/jamesb5959/cicflowmeter/internal/metrics"
	"github.com/jamesb5959/cicflowmeter/internal/output"
	"github.com/sirupsen/logrus"
)

// Config contains driver settings.
type Config struct {
	// ExpireScanInterval is the number of ingested packets between idle
	// expiry scans.
	ExpireScanInterval int

	// StatsInterval is the wallclock period of the statistics report.
	// Zero disables it.
	StatsInterval time.Duration
}

// Engine pulls packets one at a time from the source, feeds the flow table
// and periodically expires idle flows. Expiry decisions use the packet
// timestamps as the notion of "now", never wallclock, so offline replay is
// deterministic.
type Engine struct {
	cfg    Config
	src    capture.Source
	out    output.Writer
	table  *flow.Table
	logger *logrus.Logger

	packetsSeen    atomic.Uint64
	packetsDropped atomic.Uint64
	recordsWritten atomic.Uint64
}

// New wires a source, a flow table and a sink into a runnable pipeline.
func New(cfg Config, flowCfg flow.Config, src capture.Source, out output.Writer, logger *logrus.Logger) *Engine {
	if cfg.ExpireScanInterval <= 0 {
		cfg.ExpireScanInterval = 1000
	}
	e := &Engine{
		cfg:    cfg,
		src:    src,
		out:    out,
		logger: logger,
	}
	e.table = flow.NewTable(flowCfg, e.emit)
	return e
}

func (e *Engine) emit(rec *flow.Record, reason flow.ExpireReason) error {
	if err := e.out.Write(rec); err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	e.recordsWritten.Add(1)
	metrics.RecordsWritten.Inc()
	e.logger.WithFields(logrus.Fields{
		"src":    fmt.Sprintf("%s:%d", rec.SrcIP, rec.SrcPort),
		"dst":    fmt.Sprintf("%s:%d", rec.DstIP, rec.DstPort),
		"reason": string(reason),
	}).Debug("Flow emitted")
	return nil
}

// Run processes the source until EOF or context cancellation, then drains
// every remaining flow. Shutdown is cooperative: the packet in flight is
// finished first, and no active flow is lost.
func (e *Engine) Run(ctx context.Context) error {
	if e.cfg.StatsInterval > 0 {
		go e.reportStats(ctx)
	}

	var (
		latestSeen float64
		sinceScan  int
	)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Shutdown requested, draining flow table...")
			return e.table.Drain()
		default:
		}

		pkt, err := e.src.Next()
		switch {
		case errors.Is(err, io.EOF):
			e.logger.Info("Packet source exhausted, draining flow table...")
			return e.table.Drain()
		case errors.Is(err, capture.ErrSkip):
			e.packetsDropped.Add(1)
			metrics.PacketsDropped.Inc()
			continue
		case err != nil:
			return fmt.Errorf("packet source: %w", err)
		}

		e.packetsSeen.Add(1)
		metrics.PacketsProcessed.Inc()
		if pkt.Timestamp > latestSeen {
			latestSeen = pkt.Timestamp
		}

		if err := e.table.Ingest(pkt); err != nil {
			return err
		}

		sinceScan++
		if sinceScan >= e.cfg.ExpireScanInterval {
			sinceScan = 0
			if err := e.table.ExpireScan(latestSeen); err != nil {
				return err
			}
		}
	}
}

// Stats is a snapshot of the engine counters.
type Stats struct {
	PacketsSeen    uint64
	PacketsDropped uint64
	RecordsWritten uint64
	ActiveFlows    int
}

// Stats returns the current counter values.
func (e *Engine) Stats() Stats {
	return Stats{
		PacketsSeen:    e.packetsSeen.Load(),
		PacketsDropped: e.packetsDropped.Load(),
		RecordsWritten: e.recordsWritten.Load(),
		ActiveFlows:    e.table.Len(),
	}
}

// reportStats periodically logs processing statistics.
func (e *Engine) reportStats(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := e.Stats()
			e.logger.WithFields(logrus.Fields{
				"packets_seen":    st.PacketsSeen,
				"packets_dropped": st.PacketsDropped,
				"active_flows":    st.ActiveFlows,
				"records_written": st.RecordsWritten,
			}).Info("=== Statistics Report ===")
		}
	}
}
