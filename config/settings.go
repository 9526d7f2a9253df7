package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings mirrors the on-disk settings.toml file.
type Settings struct {
	APIKey        string `toml:"api_key"`
	Model         string `toml:"model"`
	SystemPrompt  string `toml:"system_prompt,omitempty"`
	DataDirectory string `toml:"data_directory"`
}

func LoadSettings(path string) (*Settings, error) {
	settings := &Settings{}
	if _, err := toml.DecodeFile(path, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

// CreateDefaultSettings writes the commented settings template so users have
// something to edit on first run.
func CreateDefaultSettings() error {
	configDir := GetConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := GetSettingsFilePath()
	if FileExists(path) {
		return nil
	}

	// 0600 - the settings file holds the API credential
	if err := os.WriteFile(path, []byte(GenerateSettingsTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
