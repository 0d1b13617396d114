package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("x %d", 1)
	l.Debugw("x", map[string]any{"k": 1})
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
	assert.Equal(t, NopLogger{}, l.With(map[string]any{"k": "v"}))
}
