package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `api:
  url: "http://localhost:8080/charging"
  success_message: "ok"
notify:
  mode: text
  clear_screen: false
logging:
  level: debug
  path: /tmp/chargewatch.log
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: nop
    - type: influx
      conf:
        url: http://influx:8086
        bucket: ev
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cw"
  topic_prefix: "home/ev"
  qos: 1
sentry:
  dsn: "https://key@sentry.example/1"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"api.url", cfg.API.URL, "http://localhost:8080/charging"},
		{"api.user_agent", cfg.API.UserAgent, DefaultUserAgent},
		{"api.success_message", cfg.API.SuccessMessage, "ok"},
		{"notify.mode", cfg.Notify.Mode, "text"},
		{"notify.clear_screen", cfg.Notify.ClearScreen, false},
		{"notify.color", cfg.Notify.Color, true},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.max_backups", cfg.Logging.MaxBackups, 3},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.sinks[1].type", cfg.Metrics.Sinks[1].Type, "influx"},
		{"metrics.sinks[1].conf.bucket", cfg.Metrics.Sinks[1].Conf["bucket"], "ev"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.topic", cfg.MQTT.Topic("1", "tick"), "home/ev/1/tick"},
		{"sentry.dsn", cfg.Sentry.DSN, "https://key@sentry.example/1"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultSuccessMessage, cfg.API.SuccessMessage)
	assert.Equal(t, "auto", cfg.Notify.Mode)
	assert.True(t, cfg.Notify.ClearScreen)
	assert.True(t, cfg.Notify.Color)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.False(t, cfg.MQTT.Enabled())
	assert.Empty(t, cfg.Metrics.Sinks)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"api":{"success_message":"-"},"notify":{"color":false}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.API.SuccessMessage)
	assert.False(t, cfg.Notify.Color)
	assert.True(t, cfg.Notify.ClearScreen)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHARGEWATCH_NOTIFY__MODE", "audible")
	t.Setenv("CHARGEWATCH_NOTIFY__CLEAR_SCREEN", "false")
	t.Setenv("CHARGEWATCH_LOGGING__LEVEL", "info")
	t.Setenv("CHARGEWATCH_MQTT__BROKER", "tcp://broker:1883")

	path := writeFile(t, "config.yaml", "notify:\n  mode: text\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "audible", cfg.Notify.Mode)
	assert.False(t, cfg.Notify.ClearScreen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		name string
		data string
	}{
		"unsupported format": {"config.toml", "a = 1"},
		"bad notify mode":    {"config.yaml", "notify:\n  mode: siren\n"},
		"bad url":            {"config.yaml", "api:\n  url: \"ftp://host/x\"\n"},
		"relative url":       {"config.yaml", "api:\n  url: \"/charging\"\n"},
		"bad level":          {"config.yaml", "logging:\n  level: loud\n"},
		"negative rotation":  {"config.yaml", "logging:\n  max_size_mb: -1\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.name, tc.data))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
