package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	l.With(map[string]any{"run_id": "r1"}).Infof("child")
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)
	defer SetOutput(os.Stderr, zerolog.ErrorLevel)

	l := New("monitor").With(map[string]any{"session_id": "1001"})
	l.Debugf("hidden")
	l.Infof("tick %d", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "monitor", entry["component"])
	assert.Equal(t, "1001", entry["session_id"])
	assert.Equal(t, "tick 3", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestConfigureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chargewatch.log")
	c, err := Configure(Options{Level: "info", Path: path, MaxSizeMB: 1})
	require.NoError(t, err)
	defer func() {
		_, _ = Configure(Options{})
	}()

	New("test").Infof("to file")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestConfigureBadLevel(t *testing.T) {
	_, err := Configure(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Infof("x")
	assert.Equal(t, l, l.With(map[string]any{"a": 1}))
}
