package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wlengine/logging"
)

// Config is the engine configuration read from a YAML file
type Config struct {
	Window WindowConfig   `yaml:"window"`
	Audio  AudioConfig    `yaml:"audio"`
	Log    logging.Config `yaml:"log"`
	// Scene is the path of the scene file loaded by the run command
	Scene string `yaml:"scene"`
}

// WindowConfig controls the window and the logical screen
type WindowConfig struct {
	Title        string `yaml:"title"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	Fullscreen   bool   `yaml:"fullscreen"`
}

// AudioConfig controls the audio context
type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
	Music      string  `yaml:"music"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:        "wlengine",
			Width:        WindowWidth,
			Height:       WindowHeight,
			ScreenWidth:  ScreenWidth,
			ScreenHeight: ScreenHeight,
		},
		Audio: AudioConfig{
			SampleRate: DefaultSampleRate,
			Volume:     DefaultVolume,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(content)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(content []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.ScreenWidth <= 0 || c.Window.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Window.ScreenWidth, c.Window.ScreenHeight))
	}
	switch c.Audio.SampleRate {
	case 22050, 44100, 48000:
	default:
		errs = append(errs, fmt.Errorf("unsupported sample rate %d", c.Audio.SampleRate))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be between 0 and 1, got %g", c.Audio.Volume))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
