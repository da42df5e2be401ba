// Package capture supplies decoded packets to the flow engine, either
// replayed from a capture file or read from a live interface.
package capture

import (
	"errors"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// ErrSkip marks a frame the meter cannot use (no IP layer, truncated
// headers). The driver counts it and moves on.
var ErrSkip = errors.New("packet skipped")

// Source yields decoded packets in capture order until io.EOF. Next returns
// ErrSkip for frames without usable L3/L4 addressing.
type Source interface {
	Next() (*flow.Packet, error)
	Close() error
}
