package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/i474232898/flight-weather-insights/internal/metrics"
	"github.com/i474232898/flight-weather-insights/internal/table"
)

// Named pairs a Sink with the name it is reported under.
type Named struct {
	Name string
	Sink Sink
}

// MultiSink saves to every sink in order. A failing sink does not stop the others; all
// failures are returned joined.
type MultiSink struct {
	sinks []Named
	log   *zap.SugaredLogger
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(log *zap.SugaredLogger, sinks ...Named) *MultiSink {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &MultiSink{sinks: sinks, log: log}
}

// Save implements Sink.
func (m *MultiSink) Save(ctx context.Context, t *table.Table) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.Save(ctx, t); err != nil {
			metrics.SinkWritesTotal.WithLabelValues(s.Name, "error").Inc()
			m.log.Errorw("sink write failed", "sink", s.Name, "file", FileName(t), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		metrics.SinkWritesTotal.WithLabelValues(s.Name, "ok").Inc()
		m.log.Infow("table saved", "sink", s.Name, "file", FileName(t), "rows", t.Len())
	}
	return errors.Join(errs...)
}
