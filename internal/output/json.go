package output

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jamesb5959/cicflowmeter/internal/flow"
)

// JSONWriter emits one JSON object per flow through a dedicated logrus
// instance, one line per record.
type JSONWriter struct {
	log *logrus.Logger
	f   *os.File
}

// NewJSONWriter writes to path, or to stdout when path is empty.
func NewJSONWriter(path string) (*JSONWriter, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	log.SetLevel(logrus.InfoLevel)

	w := &JSONWriter{log: log}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open output file: %w", err)
		}
		w.f = f
		log.SetOutput(f)
	} else {
		log.SetOutput(os.Stdout)
	}
	return w, nil
}

// Write emits one record as a flat JSON object keyed by the schema names,
// plus the time, level and msg keys that the logrus formatter adds.
func (w *JSONWriter) Write(rec *flow.Record) error {
	fields := make(logrus.Fields, len(flow.Columns()))
	cols := flow.Columns()
	for i, v := range rec.Values() {
		fields[cols[i]] = v
	}
	w.log.WithFields(fields).Info("flow")
	return nil
}

// Close closes the output file.
func (w *JSONWriter) Close() error {
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}
