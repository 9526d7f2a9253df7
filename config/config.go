package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Config is the resolved runtime configuration.
type Config struct {
	// APIKey is the upstream credential. Its prefix selects the transport;
	// when empty, sending is disabled entirely.
	APIKey        string
	Model         string
	SystemPrompt  string
	DataDirectory string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// HasCredential reports whether an upstream credential is configured.
func (c *Config) HasCredential() bool {
	return c.APIKey != ""
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("LUME_API_KEY"); key != "" {
		c.APIKey = key
	}
	if model := os.Getenv("LUME_MODEL"); model != "" {
		c.Model = model
	}
	if dataDir := os.Getenv("LUME_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if prompt := os.Getenv("LUME_SYSTEM_PROMPT"); prompt != "" {
		c.SystemPrompt = prompt
	}
}

func CheckDebug() bool {
	debug := os.Getenv("LUME_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens the debug log under the data directory when LUME_DEBUG
// is set. DebugLog stays nil otherwise; callers guard every use.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain conversation fragments
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (LUME_DEBUG=%s) ===", os.Getenv("LUME_DEBUG"))
}

// Load resolves configuration from defaults, the settings file, and
// environment overrides (highest priority), then ensures the data
// directory exists.
func Load() (*Config, error) {
	cfg := &Config{
		Model:         DefaultModel,
		SystemPrompt:  DefaultSystemPrompt,
		DataDirectory: DefaultDataDirectory,
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		settings, err := LoadSettings(settingsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		if settings.APIKey != "" {
			cfg.APIKey = settings.APIKey
		}
		if settings.Model != "" {
			cfg.Model = settings.Model
		}
		if settings.SystemPrompt != "" {
			cfg.SystemPrompt = settings.SystemPrompt
		}
		if settings.DataDirectory != "" {
			cfg.DataDirectory = settings.DataDirectory
		}
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}
