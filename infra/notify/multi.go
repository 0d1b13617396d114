package notify

import (
	"github.com/kilianp07/chargewatch/core/events"
	"github.com/kilianp07/chargewatch/core/monitor"
)

// Multi forwards every event to each notifier in order.
type Multi []monitor.Notifier

func (m Multi) Tick(ev events.TickEvent) {
	for _, n := range m {
		n.Tick(ev)
	}
}

func (m Multi) Retry(ev events.RetryEvent) {
	for _, n := range m {
		n.Retry(ev)
	}
}

func (m Multi) SessionChanged(ev events.SessionEvent) {
	for _, n := range m {
		n.SessionChanged(ev)
	}
}

func (m Multi) Summary(ev events.SummaryEvent) {
	for _, n := range m {
		n.Summary(ev)
	}
}
