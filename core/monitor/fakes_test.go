package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/chargewatch/core/events"
	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/model"
)

type fetchResult struct {
	reading model.Reading
	err     error
}

// scriptedFetcher returns results in order and repeats the last one.
type scriptedFetcher struct {
	results []fetchResult
	calls   int
	ids     []string
	// onCall runs before returning the result of the given call number.
	onCall func(n int)
}

func (f *scriptedFetcher) Fetch(_ context.Context, id string) (model.Reading, error) {
	f.calls++
	f.ids = append(f.ids, id)
	if f.onCall != nil {
		f.onCall(f.calls)
	}
	i := f.calls - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	r := f.results[i]
	return r.reading, r.err
}

func failing() fetchResult {
	return fetchResult{err: fault.Transport(errors.New("connection refused"))}
}

func withPower(p float64) fetchResult {
	return fetchResult{reading: model.Reading{Power: &p}}
}

type recordingNotifier struct {
	ticks    []events.TickEvent
	retries  []events.RetryEvent
	sessions []events.SessionEvent
	summary  []events.SummaryEvent
}

func (n *recordingNotifier) Tick(ev events.TickEvent)              { n.ticks = append(n.ticks, ev) }
func (n *recordingNotifier) Retry(ev events.RetryEvent)            { n.retries = append(n.retries, ev) }
func (n *recordingNotifier) SessionChanged(ev events.SessionEvent) { n.sessions = append(n.sessions, ev) }
func (n *recordingNotifier) Summary(ev events.SummaryEvent)        { n.summary = append(n.summary, ev) }

type fakePrompter struct {
	ids   []string
	err   error
	calls int
	// cancel is invoked once the scripted ids are used up.
	cancel context.CancelFunc
}

func (p *fakePrompter) SessionID(ctx context.Context) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if p.calls > len(p.ids) {
		if p.cancel != nil {
			p.cancel()
		}
		return "", ctx.Err()
	}
	return p.ids[p.calls-1], nil
}

type recordingSleeper struct {
	sleeps []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.sleeps = append(s.sleeps, d)
	return ctx.Err()
}
