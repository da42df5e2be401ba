// Package output persists flow feature records. The core hands over typed
// records; the writer chooses the serialization.
package output

import "github.com/jamesb5959/cicflowmeter/internal/flow"

// Writer persists one record per completed flow.
type Writer interface {
	Write(rec *flow.Record) error
	Close() error
}
