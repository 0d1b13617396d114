// Package events defines the events emitted by the monitor run loop and
// consumed by notifiers and metrics sinks.
//
// Available event types:
//   - TickEvent: outcome of one fetch-and-classify cycle
//   - RetryEvent: a retry is about to happen, or retries are exhausted
//   - SessionEvent: the monitored order identifier changed
//   - SummaryEvent: final report when monitoring stops
package events
