package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ Port int }

type sampleConf struct {
	Port    int  `json:"port"`
	Enabled bool `json:"enabled"`
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*sample]()
	require.NoError(t, reg.Register("s", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{Port: c.Port}, nil
	}))
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"port": 9100}})
	require.NoError(t, err)
	assert.Equal(t, 9100, inst.Port)
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }))
	assert.Error(t, reg.Register("z", nil))

	_, err := reg.Create(ModuleConfig{Type: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: x")
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"influx", "nop", "prometheus"} {
		require.NoError(t, reg.Register(n, func(map[string]any) (int, error) { return 0, nil }))
	}
	assert.Equal(t, []string{"influx", "nop", "prometheus"}, reg.Names())
}

func TestDecodeWeaklyTyped(t *testing.T) {
	var c sampleConf
	require.NoError(t, Decode(map[string]any{"port": "8086", "enabled": "true"}, &c))
	assert.Equal(t, 8086, c.Port)
	assert.True(t, c.Enabled)
}
