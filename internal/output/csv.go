package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// CSVWriter writes records as CICFlowMeter v3 compatible CSV, header first.
type CSVWriter struct {
	f *os.File // nil when writing to stdout
	w *csv.Writer
}

// NewCSVWriter writes to path, or to stdout when path is empty.
func NewCSVWriter(path string) (*CSVWriter, error) {
	out := os.Stdout
	var f *os.File
	if path != "" {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(flow.Columns()); err != nil {
		if f != nil {
			f.Close()
		}
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return &CSVWriter{f: f, w: w}, nil
}

// Write appends one record row.
func (c *CSVWriter) Write(rec *flow.Record) error {
	vals := rec.Values()
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = formatValue(v)
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if c.f != nil {
		return c.f.Close()
	}
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	default:
		return fmt.Sprint(v)
	}
}
