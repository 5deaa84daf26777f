// Package config loads the settings of the dtmf command and service: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/faiface/dtmf"
	"github.com/faiface/dtmf/generators"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Defaults Defaults `yaml:"defaults"`
	Log      Log      `yaml:"log"`
}

// Server configures the HTTP render service.
type Server struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxDuration    time.Duration `yaml:"max_duration"` // longest render a request may ask for
	MaxSampleRate  int           `yaml:"max_sample_rate"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// Defaults are used for every parameter a command or request leaves out.
type Defaults struct {
	generators.Settings `yaml:",inline"`

	Duration   time.Duration   `yaml:"duration"`
	SampleRate dtmf.SampleRate `yaml:"sample_rate"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxDuration:    5 * time.Minute,
			MaxSampleRate:  192000,
			WriteTimeout:   60 * time.Second,
		},
		Defaults: Defaults{
			Settings:   generators.DefaultSettings(),
			Duration:   time.Second,
			SampleRate: 44100,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the YAML file at path over the built-in defaults and applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "config: %s", path)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envStr("DTMF_ADDR", c.Server.Addr)
	if v := envStr("DTMF_ALLOWED_ORIGINS", ""); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	c.Server.MaxDuration = envDuration("DTMF_MAX_DURATION", c.Server.MaxDuration)
	c.Server.MaxSampleRate = envInt("DTMF_MAX_SAMPLE_RATE", c.Server.MaxSampleRate)
	c.Defaults.Sequence = envStr("DTMF_SEQUENCE", c.Defaults.Sequence)
	c.Defaults.DutyCycle = envFloat("DTMF_DUTY_CYCLE", c.Defaults.DutyCycle)
	c.Defaults.Amplitude = envFloat("DTMF_AMPLITUDE", c.Defaults.Amplitude)
	c.Defaults.Duration = envDuration("DTMF_DURATION", c.Defaults.Duration)
	c.Defaults.SampleRate = dtmf.SampleRate(envInt("DTMF_SAMPLE_RATE", int(c.Defaults.SampleRate)))
	c.Log.Level = envStr("DTMF_LOG_LEVEL", c.Log.Level)
}

// Validate rejects a configuration whose defaults could not render anything.
func (c Config) Validate() error {
	if err := c.Defaults.Settings.Validate(); err != nil {
		return errors.Wrap(err, "config: defaults")
	}
	if c.Defaults.SampleRate <= 0 {
		return errors.Errorf("config: defaults: sample rate %d is not positive", c.Defaults.SampleRate)
	}
	if c.Defaults.Duration < 0 || c.Server.MaxDuration <= 0 {
		return errors.New("config: durations must be positive")
	}
	if int(c.Defaults.SampleRate) > c.Server.MaxSampleRate {
		return errors.Errorf("config: defaults: sample rate %d exceeds the maximum of %d", c.Defaults.SampleRate, c.Server.MaxSampleRate)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
