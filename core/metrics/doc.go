// Package metrics defines the sinks that record monitoring events. Sinks
// such as the Prometheus and InfluxDB implementations register themselves
// by type name; NewMetricsSink builds them from configuration and wraps
// several sinks in a MultiSink.
package metrics
