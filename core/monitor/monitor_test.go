package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/core/session"
)

var testNow = time.Date(2024, 5, 1, 8, 10, 0, 0, time.UTC)

func newTestMonitor(f Fetcher, n Notifier) *Monitor {
	return New(f, n, Options{
		RunID:    "run-1",
		Now:      func() time.Time { return testNow },
		Location: time.UTC,
	})
}

func TestTick_NormalReadingFillsWindow(t *testing.T) {
	f := &scriptedFetcher{results: []fetchResult{withPower(1500)}}
	n := &recordingNotifier{}
	m := newTestMonitor(f, n)
	sess := session.New("42", 1000)

	assert.True(t, m.Tick(context.Background(), sess))
	require.Len(t, n.ticks, 1)
	ev := n.ticks[0]
	assert.Equal(t, "42", ev.SessionID)
	assert.Equal(t, "run-1", ev.RunID)
	assert.Equal(t, 1000.0, ev.Threshold)
	assert.Equal(t, model.AlertNone, ev.Alert)
	assert.False(t, ev.Abnormal())
	assert.Equal(t, []float64{1500}, sess.Window().Values())
	assert.Equal(t, []string{"42"}, f.ids)
}

func TestTick_Alerts(t *testing.T) {
	cases := []struct {
		name      string
		threshold float64
		power     float64
		want      model.Alert
	}{
		{"zero", 1000, 0, model.AlertZeroPower},
		{"low", 1000, 999, model.AlertLowPower},
		{"threshold disabled", 0, 5, model.AlertNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := &recordingNotifier{}
			m := newTestMonitor(&scriptedFetcher{results: []fetchResult{withPower(tc.power)}}, n)
			assert.True(t, m.Tick(context.Background(), session.New("1", tc.threshold)))
			assert.Equal(t, tc.want, n.ticks[0].Alert)
		})
	}
}

func TestTick_SuddenIncreaseUsesStartTime(t *testing.T) {
	p := 25.0
	reading := model.Reading{StartTime: model.NewText("2024-05-01 08:00:00"), Power: &p}
	n := &recordingNotifier{}
	m := newTestMonitor(&scriptedFetcher{results: []fetchResult{{reading: reading}}}, n)
	sess := session.New("1", 0)
	for _, v := range []float64{10, 10, 10, 10} {
		sess.Window().Push(v)
	}

	assert.True(t, m.Tick(context.Background(), sess))
	assert.Equal(t, model.AlertSuddenIncrease, n.ticks[0].Alert)

	// Without a parsable start time the surge rule is never applied.
	reading.StartTime = model.NewText("yesterday")
	sess = session.New("1", 0)
	for _, v := range []float64{10, 10, 10, 10} {
		sess.Window().Push(v)
	}
	m = newTestMonitor(&scriptedFetcher{results: []fetchResult{{reading: reading}}}, n)
	m.Tick(context.Background(), sess)
	assert.Equal(t, model.AlertNone, n.ticks[1].Alert)
}

func TestTick_FailureLeavesWindow(t *testing.T) {
	n := &recordingNotifier{}
	m := newTestMonitor(&scriptedFetcher{results: []fetchResult{failing()}}, n)
	sess := session.New("1", 100)
	sess.Window().Push(200)

	assert.False(t, m.Tick(context.Background(), sess))
	require.Len(t, n.ticks, 1)
	assert.True(t, n.ticks[0].Abnormal())
	assert.Nil(t, n.ticks[0].Reading)
	assert.Equal(t, "transport", n.ticks[0].Outcome())
	assert.Equal(t, []float64{200}, sess.Window().Values())
}

func TestTick_NonNumericPowerIsNormal(t *testing.T) {
	reading := model.Reading{RawPower: model.NewText("unknown")}
	n := &recordingNotifier{}
	m := newTestMonitor(&scriptedFetcher{results: []fetchResult{{reading: reading}}}, n)
	sess := session.New("1", 100)

	assert.True(t, m.Tick(context.Background(), sess))
	assert.Equal(t, model.AlertNone, n.ticks[0].Alert)
	assert.Zero(t, sess.Window().Len())
}

func TestTick_IgnoresCancellation(t *testing.T) {
	var sawCanceled bool
	f := &scriptedFetcher{results: []fetchResult{withPower(10)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := newTestMonitor(fetcherFunc(func(c context.Context, id string) (model.Reading, error) {
		sawCanceled = c.Err() != nil
		return f.Fetch(c, id)
	}), &recordingNotifier{})

	assert.True(t, m.Tick(ctx, session.New("1", 0)))
	assert.False(t, sawCanceled)
}

func TestMonitor_Summary(t *testing.T) {
	f := &scriptedFetcher{results: []fetchResult{
		withPower(0), failing(), {err: fault.Parse(errors.New("bad"))}, withPower(0),
	}}
	m := newTestMonitor(f, &recordingNotifier{})
	sess := session.New("7", 0)
	for i := 0; i < 4; i++ {
		m.Tick(context.Background(), sess)
	}
	s := m.Summary()
	assert.Equal(t, 4, s.Ticks)
	assert.Equal(t, 2, s.Failures)
	assert.Equal(t, 2, s.Alerts[model.AlertZeroPower])
	assert.Equal(t, "7", s.SessionID)
	assert.Equal(t, testNow, s.Stopped)
}

type fetcherFunc func(ctx context.Context, id string) (model.Reading, error)

func (f fetcherFunc) Fetch(ctx context.Context, id string) (model.Reading, error) { return f(ctx, id) }
