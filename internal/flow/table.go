package flow

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/jamesb5959/cicflowmeter/internal/metrics"
)

// ExpireReason tags why a flow left the table.
type ExpireReason string

const (
	ExpireIdle   ExpireReason = "idle"
	ExpireActive ExpireReason = "active"
	ExpireTCP    ExpireReason = "tcp"
	ExpireLRU    ExpireReason = "lru"
	ExpireDrain  ExpireReason = "drain"
)

// EmitFunc receives exactly one record per expired flow. An error aborts the
// triggering operation and propagates to the driver.
type EmitFunc func(rec *Record, reason ExpireReason) error

// Table is the keyed map of active flows. All mutation goes through Ingest,
// ExpireScan and Drain; a mutex makes it safe to share with a stats reporter.
// Flows are additionally threaded on an LRU list (front = hottest) so that
// idle scans and MaxFlows eviction touch only the coldest entries.
type Table struct {
	cfg  Config
	emit EmitFunc

	mu    sync.Mutex
	flows map[Key]*tableEntry
	order *list.List
}

type tableEntry struct {
	key   Key
	state *State
	elem  *list.Element
}

// NewTable creates an empty flow table emitting expired flows through emit.
func NewTable(cfg Config, emit EmitFunc) *Table {
	return &Table{
		cfg:   cfg,
		emit:  emit,
		flows: make(map[Key]*tableEntry),
		order: list.New(),
	}
}

// Ingest routes one packet to its flow, creating the flow if the key is new.
// Expiry triggers scoped to this flow (TCP termination, active-duration cap)
// are checked immediately after the update.
func (t *Table) Ingest(pkt *Packet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := KeyOf(pkt)
	e, ok := t.flows[key]
	if !ok {
		if t.cfg.MaxFlows > 0 && len(t.flows) >= t.cfg.MaxFlows {
			coldest := t.order.Back().Value.(*tableEntry)
			if err := t.evict(coldest, ExpireLRU); err != nil {
				return err
			}
		}
		e = &tableEntry{key: key, state: NewState(pkt, &t.cfg)}
		e.elem = t.order.PushFront(e)
		t.flows[key] = e
		metrics.FlowsCreated.Inc()
		e.state.AddPacket(pkt, Forward)
	} else {
		dir := Reverse
		if pkt.SrcAddr == e.state.SrcAddr && pkt.SrcPort == e.state.SrcPort {
			dir = Forward
		}
		e.state.AddPacket(pkt, dir)
		t.order.MoveToFront(e.elem)
	}

	if t.cfg.TCPTermination && e.state.Terminated() {
		return t.evict(e, ExpireTCP)
	}
	if e.state.Duration() > t.cfg.FlowTimeoutActive {
		return t.evict(e, ExpireActive)
	}
	return nil
}

// ExpireScan evicts flows idle longer than FlowTimeoutIdle relative to now,
// the driver's notional clock. Work is bounded: the scan walks the LRU list
// from the cold end and stops at the first non-expired entry.
func (t *Table) ExpireScan(now float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for elem := t.order.Back(); elem != nil; elem = t.order.Back() {
		e := elem.Value.(*tableEntry)
		if now-e.state.LatestTimestamp() <= t.cfg.FlowTimeoutIdle {
			break
		}
		if err := t.evict(e, ExpireIdle); err != nil {
			return err
		}
	}
	return nil
}

// Drain emits every remaining flow and clears the table. Called on shutdown;
// every active flow produces exactly one record.
func (t *Table) Drain() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for elem := t.order.Front(); elem != nil; elem = t.order.Front() {
		if err := t.evict(elem.Value.(*tableEntry), ExpireDrain); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of active flows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.flows)
}

func (t *Table) evict(e *tableEntry, reason ExpireReason) error {
	delete(t.flows, e.key)
	t.order.Remove(e.elem)
	metrics.FlowsExpired.WithLabelValues(string(reason)).Inc()
	if err := t.emit(e.state.Record(), reason); err != nil {
		return fmt.Errorf("emit flow %s:%d -> %s:%d: %w",
			e.state.SrcAddr, e.state.SrcPort, e.state.DstAddr, e.state.DstPort, err)
	}
	return nil
}
