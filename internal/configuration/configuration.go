package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// COMPANION_API_URL overrides the configured backend base URL,
// COMPANION_USER overrides the configured user id.
const (
	apiURLEnvVar = "COMPANION_API_URL"
	userEnvVar   = "COMPANION_USER"
)

var defaultConfig = Config{
	APIURL:         "http://localhost:8000",
	UserID:         "",
	DefaultVoice:   "en-US-AriaNeural",
	RequestTimeout: 60,
	HistoryFile:    "~/.companion/chat_history",
}

// Config holds configuration for the companion tool.
type Config struct {
	// Base URL of the companion backend.
	APIURL string `json:"api_url"`
	// Identity of the signed-in user. Empty means signed out.
	UserID string `json:"user_id"`
	// Voice selected when none has been chosen yet.
	DefaultVoice string `json:"default_voice"`
	// Request timeout in seconds for backend calls.
	RequestTimeout int `json:"request_timeout"`
	// Where the input history of the chat composer is persisted.
	HistoryFile string `json:"history_file"`
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Parse a configuration file, creating it with defaults if absent.
// Environment variables override the file's API URL and user id.
func Parse(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}

	if apiURL := os.Getenv(apiURLEnvVar); apiURL != "" {
		config.APIURL = apiURL
	}
	if userID := os.Getenv(userEnvVar); userID != "" {
		config.UserID = userID
	}

	expandedHistoryFile, err := ExpandPath(config.HistoryFile)
	if err != nil {
		return nil, errors.Wrap(err, "expanding history file path")
	}
	config.HistoryFile = expandedHistoryFile
	return config, nil
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home dir")
	}
	return filepath.Join(home, path[2:]), nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
