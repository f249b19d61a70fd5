package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(apiURLEnvVar, "")
	t.Setenv(userEnvVar, "")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", config.APIURL)
	require.Equal(t, "en-US-AriaNeural", config.DefaultVoice)
	require.Empty(t, config.UserID)

	// The file must now exist with the defaults written out.
	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	onDisk := &Config{}
	require.NoError(t, json.Unmarshal(bytes, onDisk))
	require.Equal(t, defaultConfig.APIURL, onDisk.APIURL)
}

func TestParseReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	existing := &Config{
		APIURL:         "http://companion.example.com",
		UserID:         "alice",
		DefaultVoice:   "en-GB-SoniaNeural",
		RequestTimeout: 30,
		HistoryFile:    filepath.Join(t.TempDir(), "history"),
	}
	require.NoError(t, existing.save(path))
	t.Setenv(apiURLEnvVar, "")
	t.Setenv(userEnvVar, "")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "http://companion.example.com", config.APIURL)
	require.Equal(t, "alice", config.UserID)
	require.Equal(t, "en-GB-SoniaNeural", config.DefaultVoice)
}

func TestParseEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(apiURLEnvVar, "http://override:9000")
	t.Setenv(userEnvVar, "bob")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "http://override:9000", config.APIURL)
	require.Equal(t, "bob", config.UserID)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/.companion/config.json")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".companion/config.json"), expanded)

	unchanged, err := ExpandPath("/tmp/config.json")
	require.NoError(t, err)
	require.Equal(t, "/tmp/config.json", unchanged)
}
