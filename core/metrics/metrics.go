package metrics

import "github.com/kilianp07/chargewatch/core/events"

// MetricsSink records the outcome of every tick.
type MetricsSink interface {
	RecordTick(ev events.TickEvent) error
}

// RetryRecorder records retry attempts and exhaustion.
type RetryRecorder interface {
	RecordRetry(ev events.RetryEvent) error
}

// SessionRecorder records order identifier changes.
type SessionRecorder interface {
	RecordSessionChange(ev events.SessionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordTick(events.TickEvent) error             { return nil }
func (NopSink) RecordRetry(events.RetryEvent) error           { return nil }
func (NopSink) RecordSessionChange(events.SessionEvent) error { return nil }
