package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/chargewatch/core/fault"
)

func TestTickOutcome(t *testing.T) {
	assert.Equal(t, "ok", TickEvent{}.Outcome())
	assert.False(t, TickEvent{}.Abnormal())

	ev := TickEvent{Err: fault.Parse(errors.New("bad"))}
	assert.True(t, ev.Abnormal())
	assert.Equal(t, "parse", ev.Outcome())
	assert.Equal(t, "unknown", TickEvent{Err: errors.New("x")}.Outcome())
}
