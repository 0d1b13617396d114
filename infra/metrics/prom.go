package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/chargewatch/core/events"
	coremetrics "github.com/kilianp07/chargewatch/core/metrics"
)

// PromSink exposes monitoring events as Prometheus metrics.
type PromSink struct {
	ticks    *prometheus.CounterVec
	alerts   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	power    prometheus.Gauge
	retries  prometheus.Counter
	exhaust  prometheus.Counter
	sessions prometheus.Counter
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargewatch_ticks_total",
			Help: "Fetch-and-classify cycles by outcome",
		}, []string{"outcome"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chargewatch_alerts_total",
			Help: "Power alerts raised by type",
		}, []string{"alert"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chargewatch_request_duration_seconds",
			Help:    "Duration of charging data requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		power: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargewatch_power_watts",
			Help: "Last numeric power reading of the monitored order",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargewatch_retries_total",
			Help: "Retries performed after abnormal ticks",
		}),
		exhaust: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargewatch_retries_exhausted_total",
			Help: "Times every retry failed and a new order was requested",
		}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargewatch_session_changes_total",
			Help: "Order identifier changes",
		}),
	}
	var err error
	if s.ticks, err = register(reg, s.ticks); err != nil {
		return nil, err
	}
	if s.alerts, err = register(reg, s.alerts); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.power, err = register(reg, s.power); err != nil {
		return nil, err
	}
	if s.retries, err = register(reg, s.retries); err != nil {
		return nil, err
	}
	if s.exhaust, err = register(reg, s.exhaust); err != nil {
		return nil, err
	}
	if s.sessions, err = register(reg, s.sessions); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTick counts the tick and its alert and tracks the latest power.
func (s *PromSink) RecordTick(ev events.TickEvent) error {
	outcome := ev.Outcome()
	s.ticks.WithLabelValues(outcome).Inc()
	s.latency.WithLabelValues(outcome).Observe(ev.Duration.Seconds())
	if ev.Abnormal() || ev.Reading == nil {
		return nil
	}
	s.alerts.WithLabelValues(ev.Alert.String()).Inc()
	if ev.Reading.Power != nil {
		s.power.Set(*ev.Reading.Power)
	}
	return nil
}

// RecordRetry counts retries and exhaustions.
func (s *PromSink) RecordRetry(ev events.RetryEvent) error {
	if ev.Exhausted {
		s.exhaust.Inc()
		return nil
	}
	s.retries.Inc()
	return nil
}

// RecordSessionChange counts order changes.
func (s *PromSink) RecordSessionChange(events.SessionEvent) error {
	s.sessions.Inc()
	s.power.Set(0)
	return nil
}

var _ coremetrics.MetricsSink = (*PromSink)(nil)
