// Package config loads the TOML configuration for the sessionstream CLI.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Stream StreamConfig `toml:"stream"`
	Log    LogConfig    `toml:"log"`
}

// Duration decodes TOML strings like "1s" or "500ms". go-toml only maps
// bare time.Duration from integer nanoseconds, which no one wants to write
// in a config file.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	// StreamURL is the websocket endpoint without the session segment.
	StreamURL string `toml:"stream_url"`
	// HTTPURL is the backend's HTTP base for the health probe.
	HTTPURL string `toml:"http_url"`
}

type StreamConfig struct {
	BaseDelay   Duration `toml:"base_delay"`
	MaxDelay    Duration `toml:"max_delay"`
	MaxAttempts int      `toml:"max_attempts"`
	DialTimeout Duration `toml:"dial_timeout"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration targeting a local booking backend.
func Default() Config {
	return Config{
		Server: ServerConfig{
			StreamURL: "ws://localhost:8000/ws",
			HTTPURL:   "http://localhost:8000",
		},
		Stream: StreamConfig{
			BaseDelay:   Duration(1 * time.Second),
			MaxDelay:    Duration(10 * time.Second),
			MaxAttempts: 5,
			DialTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads path into a Config on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config load failed (%s)", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config parse failed (%s)", path)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Server.StreamURL) == "" {
		return errors.New("config missing server.stream_url")
	}
	if !strings.HasPrefix(cfg.Server.StreamURL, "ws://") && !strings.HasPrefix(cfg.Server.StreamURL, "wss://") {
		return errors.Errorf("server.stream_url must be a ws:// or wss:// URL, got %q", cfg.Server.StreamURL)
	}
	if cfg.Stream.BaseDelay <= 0 {
		return errors.New("stream.base_delay must be positive")
	}
	if cfg.Stream.MaxDelay < cfg.Stream.BaseDelay {
		return errors.New("stream.max_delay must be >= stream.base_delay")
	}
	if cfg.Stream.MaxAttempts < 0 {
		return errors.New("stream.max_attempts must be >= 0")
	}
	return nil
}
