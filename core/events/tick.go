package events

import (
	"time"

	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/model"
)

// TickEvent is emitted after every fetch-and-classify cycle.
type TickEvent struct {
	RunID     string
	Time      time.Time
	SessionID string
	Threshold float64
	// Reading is nil when the fetch failed.
	Reading *model.Reading
	Alert   model.Alert
	// Err is the classified fetch failure of an abnormal tick.
	Err      error
	Duration time.Duration
}

// Abnormal reports whether the tick failed and should be retried.
func (e TickEvent) Abnormal() bool { return e.Err != nil }

// Outcome returns "ok" for normal ticks and the failure kind otherwise.
func (e TickEvent) Outcome() string {
	if e.Err == nil {
		return "ok"
	}
	return fault.KindOf(e.Err).String()
}

// RetryEvent announces retry Attempt of Max. Exhausted is set once all
// retries failed and a new order identifier is about to be requested.
type RetryEvent struct {
	RunID     string
	Time      time.Time
	SessionID string
	Attempt   int
	Max       int
	Exhausted bool
}

// SessionEvent is emitted when a new order identifier was acquired.
type SessionEvent struct {
	RunID      string
	Time       time.Time
	PreviousID string
	SessionID  string
}

// SummaryEvent is the final report of a monitoring run.
type SummaryEvent struct {
	RunID     string
	Started   time.Time
	Stopped   time.Time
	SessionID string
	Ticks     int
	Failures  int
	Retries   int
	Sessions  int
	Alerts    map[model.Alert]int
}
