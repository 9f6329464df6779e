package engine_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkTee/Psych403-FinalProject/engine"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := engine.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Blocks)
	assert.Equal(t, 10, cfg.TrialsPerBlock)
	assert.Equal(t, 10, cfg.MaxCircles)
	assert.Equal(t, uint64(1000), cfg.FixationMS)
	assert.Equal(t, uint64(1000), cfg.StimulusMS)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*engine.Config)
	}{
		{"zero blocks", func(c *engine.Config) { c.Blocks = 0 }},
		{"zero trials", func(c *engine.Config) { c.TrialsPerBlock = 0 }},
		{"too many circles", func(c *engine.Config) { c.MaxCircles = 11 }},
		{"balanced mismatch", func(c *engine.Config) { c.Balanced = true; c.TrialsPerBlock = 5 }},
		{"zero radius", func(c *engine.Config) { c.CircleRadius = 0 }},
		{"window too small", func(c *engine.Config) { c.WindowWidth = 100; c.WindowHeight = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := engine.DefaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want engine.Color
	}{
		{"0,0,0,255", engine.Color{R: 0, G: 0, B: 0, A: 255}},
		{"255,128,0,64", engine.Color{R: 255, G: 128, B: 0, A: 64}},
		{"10,20,30", engine.Color{R: 10, G: 20, B: 30, A: 255}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.ParseColor(tt.in), "input %q", tt.in)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subitize.yaml")

	cfg := engine.DefaultConfig()
	cfg.Subject = 7
	cfg.Blocks = 2
	cfg.Balanced = true
	cfg.TrialsPerBlock = cfg.MaxCircles
	cfg.TriggerDevice = "/dev/ttyUSB0"
	cfg.CircleColor = engine.Color{R: 200, G: 10, B: 10, A: 255}
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := engine.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := engine.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
