package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GenerationConfig holds the last used generator settings
type GenerationConfig struct {
	Engine        string `yaml:"engine"`
	DrumStyle     string `yaml:"drumStyle"`
	BassStyle     string `yaml:"bassStyle"`
	Key           string `yaml:"key"`
	Scale         string `yaml:"scale"`
	Octave        int    `yaml:"octave"`
	Bars          int    `yaml:"bars"`
	TimeSignature string `yaml:"timeSignature"`
	RestPct       int    `yaml:"restPct"`
	DottedPct     int    `yaml:"dottedPct"`
	TripletPct    int    `yaml:"tripletPct"`
	SwingPct      int    `yaml:"swingPct"`
	Seed          int64  `yaml:"seed"` // -1 picks a fresh seed per call
	FlipDensity   int    `yaml:"flipDensity"`
}

// CaptureConfig sizes the capture buffer
type CaptureConfig struct {
	Seconds    float64 `yaml:"seconds"`
	SampleRate int     `yaml:"sampleRate"`
	Source     string  `yaml:"source"`
}

// TranscriptionConfig supplies the tempo that onsets are quantized against
type TranscriptionConfig struct {
	BPM  int `yaml:"bpm"`
	Bars int `yaml:"bars"`
}

// ExportConfig controls MIDI file output
type ExportConfig struct {
	Dir string `yaml:"dir,omitempty"`
	Kit string `yaml:"kit"`
	BPM int    `yaml:"bpm"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette    string `yaml:"palette,omitempty"`
	LastEngine string `yaml:"lastEngine,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Debug         bool                `yaml:"debug,omitempty"`
	Generation    GenerationConfig    `yaml:"generation"`
	Capture       CaptureConfig       `yaml:"capture"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Export        ExportConfig        `yaml:"export"`
	UI            UIConfig            `yaml:"ui"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			Engine:        "Drums",
			DrumStyle:     "hip hop",
			BassStyle:     "trap",
			Key:           "C",
			Scale:         "Natural Minor",
			Bars:          4,
			TimeSignature: "4/4",
			Seed:          -1,
			FlipDensity:   50,
		},
		Capture: CaptureConfig{
			Seconds:    65,
			SampleRate: 44100,
			Source:     "loopback",
		},
		Transcription: TranscriptionConfig{
			BPM:  120,
			Bars: 4,
		},
		Export: ExportConfig{
			Kit: "gm",
			BPM: 120,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-boom"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Environment overrides are applied either way.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		cfg.ApplyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from BOOM_* environment variables. Values that
// do not parse are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("BOOM_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv("BOOM_SAMPLE_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Capture.SampleRate = n
		}
	}
	if v := os.Getenv("BOOM_BPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Transcription.BPM = n
			c.Export.BPM = n
		}
	}
	if v := os.Getenv("BOOM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Generation.Seed = n
		}
	}
}

// ExportDir returns where exported files go, defaulting to an exports folder
// in the config dir
func (c *Config) ExportDir() (string, error) {
	if c.Export.Dir != "" {
		return c.Export.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exports"), nil
}
