package monitor

import (
	"context"
	"time"

	"github.com/kilianp07/chargewatch/core/detector"
	"github.com/kilianp07/chargewatch/core/events"
	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/logger"
	"github.com/kilianp07/chargewatch/core/metrics"
	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/core/monitoring"
	"github.com/kilianp07/chargewatch/core/session"
)

const (
	// PollInterval separates ticks while the order reports normally.
	PollInterval = 5 * time.Second
	// RetryInterval separates retries after an abnormal tick.
	RetryInterval = 10 * time.Second
	// MaxRetries is the number of retries before a new order is requested.
	MaxRetries = 10
	// RequestTimeout bounds a single charging data request.
	RequestTimeout = 10 * time.Second
	// StartDelay is the countdown shown before the first tick.
	StartDelay = 2 * time.Second
	// PromptDelay is the pause between the exhaustion notice and the prompt
	// for a new order.
	PromptDelay = 2 * time.Second
)

// Fetcher retrieves the charging data of an order.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (model.Reading, error)
}

// Notifier renders monitoring events to the user.
type Notifier interface {
	Tick(ev events.TickEvent)
	Retry(ev events.RetryEvent)
	SessionChanged(ev events.SessionEvent)
	Summary(ev events.SummaryEvent)
}

// Options configures a Monitor. Zero values select defaults.
type Options struct {
	RunID    string
	Sink     metrics.MetricsSink
	Logger   logger.Logger
	Now      func() time.Time
	Location *time.Location
}

// Monitor performs fetch-and-classify cycles and keeps run statistics.
type Monitor struct {
	fetcher  Fetcher
	notifier Notifier
	sink     metrics.MetricsSink
	log      logger.Logger
	runID    string
	now      func() time.Time
	loc      *time.Location
	stats    events.SummaryEvent
}

// New returns a Monitor reading through f and reporting to n.
func New(f Fetcher, n Notifier, opts Options) *Monitor {
	if opts.Sink == nil {
		opts.Sink = metrics.NopSink{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	m := &Monitor{
		fetcher:  f,
		notifier: n,
		sink:     opts.Sink,
		log:      opts.Logger,
		runID:    opts.RunID,
		now:      opts.Now,
		loc:      opts.Location,
	}
	if m.log == nil {
		m.log = logger.NopLogger{}
	}
	m.stats = events.SummaryEvent{RunID: m.runID, Started: m.now(), Alerts: map[model.Alert]int{}}
	return m
}

// Tick fetches the reading of sess, classifies it and notifies the result.
// It reports whether the tick was normal. The request is not interrupted by
// ctx cancellation; it is bounded by the fetcher's own timeout.
func (m *Monitor) Tick(ctx context.Context, sess *session.Context) bool {
	start := m.now()
	reading, err := m.fetcher.Fetch(context.WithoutCancel(ctx), sess.ID())
	ev := events.TickEvent{
		RunID:     m.runID,
		Time:      m.now(),
		SessionID: sess.ID(),
		Threshold: sess.Threshold(),
		Duration:  m.now().Sub(start),
	}
	m.stats.Ticks++
	m.stats.SessionID = sess.ID()
	if err != nil {
		ev.Err = err
		m.stats.Failures++
		m.log.Warnf("tick for %s failed: %v", sess.ID(), err)
		if fault.KindOf(err) == fault.KindUnknown {
			monitoring.CaptureException(err, map[string]string{"session_id": sess.ID()})
		}
	} else {
		ev.Reading = &reading
		if reading.Power != nil {
			started, _ := reading.StartedAt(m.loc)
			ev.Alert = detector.Classify(*reading.Power, sess.Threshold(), started, ev.Time, sess.Window())
		}
		if ev.Alert != model.AlertNone {
			m.stats.Alerts[ev.Alert]++
		}
		m.log.Debugw("tick", map[string]any{
			"session_id": sess.ID(),
			"power":      reading.PowerString(),
			"alert":      ev.Alert.String(),
		})
	}
	m.notifier.Tick(ev)
	if err := m.sink.RecordTick(ev); err != nil {
		m.log.Errorf("record tick: %v", err)
	}
	return !ev.Abnormal()
}

func (m *Monitor) retry(sess *session.Context, attempt int, exhausted bool) {
	ev := events.RetryEvent{
		RunID:     m.runID,
		Time:      m.now(),
		SessionID: sess.ID(),
		Attempt:   attempt,
		Max:       MaxRetries,
		Exhausted: exhausted,
	}
	if !exhausted {
		m.stats.Retries++
	}
	m.notifier.Retry(ev)
	if rec, ok := m.sink.(metrics.RetryRecorder); ok {
		if err := rec.RecordRetry(ev); err != nil {
			m.log.Errorf("record retry: %v", err)
		}
	}
}

func (m *Monitor) sessionChanged(previous string, sess *session.Context) {
	ev := events.SessionEvent{RunID: m.runID, Time: m.now(), PreviousID: previous, SessionID: sess.ID()}
	m.stats.Sessions++
	m.stats.SessionID = sess.ID()
	m.notifier.SessionChanged(ev)
	if rec, ok := m.sink.(metrics.SessionRecorder); ok {
		if err := rec.RecordSessionChange(ev); err != nil {
			m.log.Errorf("record session change: %v", err)
		}
	}
}

// Summary returns the statistics gathered so far, stamped with the current time.
func (m *Monitor) Summary() events.SummaryEvent {
	s := m.stats
	s.Stopped = m.now()
	s.Alerts = make(map[model.Alert]int, len(m.stats.Alerts))
	for k, v := range m.stats.Alerts {
		s.Alerts[k] = v
	}
	return s
}
