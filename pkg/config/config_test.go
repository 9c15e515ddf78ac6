package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessionstream.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
stream_url = "wss://agent.example.com/ws"

[stream]
max_attempts = 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "wss://agent.example.com/ws", cfg.Server.StreamURL)
	require.Equal(t, 8, cfg.Stream.MaxAttempts)
	// untouched sections keep their defaults
	require.Equal(t, 1*time.Second, cfg.Stream.BaseDelay.Std())
	require.Equal(t, "http://localhost:8000", cfg.Server.HTTPURL)
}

func TestLoadParsesDurationStrings(t *testing.T) {
	path := writeConfig(t, `
[stream]
base_delay = "250ms"
max_delay = "5s"
dial_timeout = "3s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.Stream.BaseDelay.Std())
	require.Equal(t, 5*time.Second, cfg.Stream.MaxDelay.Std())
	require.Equal(t, 3*time.Second, cfg.Stream.DialTimeout.Std())
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	path := writeConfig(t, `
[stream]
base_delay = "soon"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadStreamURL(t *testing.T) {
	path := writeConfig(t, `
[server]
stream_url = "http://not-a-websocket"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvertedDelays(t *testing.T) {
	path := writeConfig(t, `
[stream]
base_delay = "5s"
max_delay = "1s"
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "max_delay")
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
