package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/chargewatch/core/session"
)

// Prompter acquires a replacement order identifier from the user.
type Prompter interface {
	SessionID(ctx context.Context) (string, error)
}

// State is a phase of the poll/retry state machine.
type State int

const (
	StatePolling State = iota
	StateRetrying
	StateAwaitingNewSession
	StateStopped
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateRetrying:
		return "retrying"
	case StateAwaitingNewSession:
		return "awaiting_new_session"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Scheduler repeats ticks at PollInterval while the order is healthy and
// retries up to MaxRetries times at RetryInterval once a tick fails. When
// every retry failed it asks the Prompter for a new identifier.
type Scheduler struct {
	mon     *Monitor
	prompt  Prompter
	sleep   func(ctx context.Context, d time.Duration) error
	state   State
	retries int
}

// NewScheduler returns a scheduler driving m.
func NewScheduler(m *Monitor, p Prompter) *Scheduler {
	return &Scheduler{mon: m, prompt: p, sleep: sleepContext}
}

// State returns the current state.
func (s *Scheduler) State() State { return s.state }

// Retries returns the number of retries performed in the current Retrying phase.
func (s *Scheduler) Retries() int { return s.retries }

// Run monitors sess until ctx is canceled, then emits the final summary and
// returns nil. A Prompter failure that is not caused by cancellation ends the
// run with an error.
func (s *Scheduler) Run(ctx context.Context, sess *session.Context) error {
	s.state = StatePolling
	s.retries = 0
	s.mon.stats.SessionID = sess.ID()
	for {
		if ctx.Err() != nil {
			s.state = StateStopped
		}
		switch s.state {
		case StatePolling:
			if s.mon.Tick(ctx, sess) {
				_ = s.sleep(ctx, PollInterval)
				continue
			}
			s.state = StateRetrying
			s.retries = 0

		case StateRetrying:
			if s.retries >= MaxRetries {
				s.mon.retry(sess, s.retries, true)
				if err := s.sleep(ctx, PromptDelay); err != nil {
					continue
				}
				s.state = StateAwaitingNewSession
				continue
			}
			s.retries++
			s.mon.retry(sess, s.retries, false)
			if err := s.sleep(ctx, RetryInterval); err != nil {
				continue
			}
			if s.mon.Tick(ctx, sess) {
				s.mon.log.Infof("order %s recovered after %d retries", sess.ID(), s.retries)
				s.retries = 0
				_ = s.sleep(ctx, PollInterval)
				s.state = StatePolling
			}

		case StateAwaitingNewSession:
			id, err := s.prompt.SessionID(ctx)
			if err != nil {
				if ctx.Err() != nil {
					s.state = StateStopped
					continue
				}
				s.mon.notifier.Summary(s.mon.Summary())
				return fmt.Errorf("read order identifier: %w", err)
			}
			previous := sess.ID()
			sess.SetID(id)
			s.mon.sessionChanged(previous, sess)
			s.retries = 0
			s.state = StateRetrying

		case StateStopped:
			s.mon.notifier.Summary(s.mon.Summary())
			return nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
