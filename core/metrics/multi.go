package metrics

import (
	"errors"
	"io"

	"github.com/kilianp07/chargewatch/core/events"
)

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTick forwards the tick to every sink and joins their errors.
func (m *MultiSink) RecordTick(ev events.TickEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordTick(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRetry forwards retry events to sinks supporting them.
func (m *MultiSink) RecordRetry(ev events.RetryEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RetryRecorder); ok {
			if err := rec.RecordRetry(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordSessionChange forwards session changes to sinks supporting them.
func (m *MultiSink) RecordSessionChange(ev events.SessionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(SessionRecorder); ok {
			if err := rec.RecordSessionChange(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink implementing io.Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
