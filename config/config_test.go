package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME at a temp dir and clears the env overrides so each
// test resolves against a clean slate.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LUME_API_KEY", "")
	t.Setenv("LUME_MODEL", "")
	t.Setenv("LUME_DATA_DIR", "")
	t.Setenv("LUME_SYSTEM_PROMPT", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
	if cfg.HasCredential() {
		t.Error("HasCredential must be false with no key")
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.DataDirectory != DefaultDataDirectory {
		t.Errorf("DataDirectory = %q", cfg.DataDirectory)
	}

	// The data directory must exist after Load.
	dataDir := filepath.Join(home, ".local", "share", "lume")
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		t.Errorf("data directory not created at %s: %v", dataDir, err)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	home := isolate(t)

	configDir := filepath.Join(home, ".config", "lume")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatal(err)
	}
	settings := `
api_key = "sk-from-file"
model = "some-model"
data_directory = "` + filepath.Join(home, "data") + `"
`
	if err := os.WriteFile(filepath.Join(configDir, "settings.toml"), []byte(settings), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-from-file" || cfg.Model != "some-model" {
		t.Errorf("cfg = %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("SystemPrompt = %q", cfg.SystemPrompt)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := isolate(t)

	configDir := filepath.Join(home, ".config", "lume")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "settings.toml"), []byte(`api_key = "sk-from-file"`), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LUME_API_KEY", "sk-or-from-env")
	t.Setenv("LUME_MODEL", "env-model")
	t.Setenv("LUME_DATA_DIR", filepath.Join(home, "env-data"))

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-or-from-env" {
		t.Errorf("APIKey = %q, env must win over the file", cfg.APIKey)
	}
	if cfg.Model != "env-model" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if _, err := os.Stat(filepath.Join(home, "env-data")); err != nil {
		t.Errorf("overridden data directory not created: %v", err)
	}
}

func TestCreateDefaultSettings(t *testing.T) {
	home := isolate(t)

	if err := CreateDefaultSettings(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(home, ".config", "lume", "settings.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// The template must parse and must not set a credential.
	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if settings.APIKey != "" {
		t.Errorf("template ships a credential: %q", settings.APIKey)
	}

	// Rewriting must not clobber user edits.
	edited := append(data, []byte("\napi_key = \"sk-user\"\n")...)
	if err := os.WriteFile(path, edited, 0600); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultSettings(); err != nil {
		t.Fatal(err)
	}
	settings, err = LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if settings.APIKey != "sk-user" {
		t.Error("existing settings file was overwritten")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		input string
		want  string
	}{
		{"~/.local/share/lume", "/home/tester/.local/share/lume"},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
