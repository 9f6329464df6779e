package engine

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Color is an RGBA color. It lives here rather than in the display package so
// the config layer does not depend on SDL types.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// Config holds every tunable of the experiment. Durations are in
// milliseconds.
type Config struct {
	Subject int `yaml:"subject"`

	Blocks         int   `yaml:"blocks"`
	TrialsPerBlock int   `yaml:"trials_per_block"`
	MaxCircles     int   `yaml:"max_circles"`
	Balanced       bool  `yaml:"balanced"`
	Seed           int64 `yaml:"seed"`

	FixationMS   uint64 `yaml:"fixation_ms"`
	StimulusMS   uint64 `yaml:"stimulus_ms"`
	BlockPauseMS uint64 `yaml:"block_pause_ms"`

	WindowWidth  int  `yaml:"window_width"`
	WindowHeight int  `yaml:"window_height"`
	FramePadding int  `yaml:"frame_padding"`
	CircleRadius int  `yaml:"circle_radius"`
	Fullscreen   bool `yaml:"fullscreen"`

	FontFile string `yaml:"font_file"`
	FontSize int    `yaml:"font_size"`

	DataDir       string `yaml:"data_dir"`
	TriggerDevice string `yaml:"trigger_device"`

	BGColor       Color `yaml:"bg_color"`
	CircleColor   Color `yaml:"circle_color"`
	TextColor     Color `yaml:"text_color"`
	FixationColor Color `yaml:"fixation_color"`
}

// DefaultConfig mirrors the original experiment: 3 blocks of 10 trials, up to
// 10 white circles on a black 600x600 window with a 200 px framed border.
func DefaultConfig() *Config {
	white := Color{R: 255, G: 255, B: 255, A: 255}
	return &Config{
		Blocks:         3,
		TrialsPerBlock: 10,
		MaxCircles:     10,
		FixationMS:     1000,
		StimulusMS:     1000,
		BlockPauseMS:   2000,
		WindowWidth:    600,
		WindowHeight:   600,
		FramePadding:   200,
		CircleRadius:   9,
		FontSize:       24,
		DataDir:        "data",
		BGColor:        Color{R: 0, G: 0, B: 0, A: 255},
		CircleColor:    white,
		TextColor:      white,
		FixationColor:  white,
	}
}

// ParseColor parses "R,G,B,A" (alpha optional, defaults to opaque).
func ParseColor(s string) Color {
	c := Color{A: 255}
	n, _ := fmt.Sscanf(s, "%d,%d,%d,%d", &c.R, &c.G, &c.B, &c.A)
	if n == 3 {
		c.A = 255
	}
	return c
}

// LoadFile reads a YAML config file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveFile writes the config as YAML, so a run can be reproduced later.
func (cfg *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write config file", goerr.V("path", path))
	}
	return nil
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.Blocks < 1:
		return goerr.New("blocks must be at least 1", goerr.V("blocks", cfg.Blocks))
	case cfg.TrialsPerBlock < 1:
		return goerr.New("trials_per_block must be at least 1", goerr.V("trials", cfg.TrialsPerBlock))
	case cfg.MaxCircles < 1 || cfg.MaxCircles > 10:
		// Responses are a single digit key, so counts above 10 cannot be
		// answered.
		return goerr.New("max_circles must be in 1..10", goerr.V("max_circles", cfg.MaxCircles))
	case cfg.Balanced && cfg.TrialsPerBlock != cfg.MaxCircles:
		return goerr.New("balanced blocks need trials_per_block == max_circles",
			goerr.V("trials", cfg.TrialsPerBlock), goerr.V("max_circles", cfg.MaxCircles))
	case cfg.CircleRadius < 1:
		return goerr.New("circle_radius must be positive", goerr.V("radius", cfg.CircleRadius))
	}
	if _, err := cfg.StimulusField(); err != nil {
		return err
	}
	return nil
}
