package config

const (
	DefaultModel         = "gpt-4o-mini"
	DefaultDataDirectory = "~/.local/share/lume"

	// DefaultSystemPrompt is injected when a conversation carries no system
	// instruction of its own.
	DefaultSystemPrompt = "You are a helpful assistant. Be concise and friendly. " +
		"Use the calculator tool for arithmetic and the get_time tool when asked about the current time."
)

func GenerateSettingsTemplate() string {
	return `# Lume Configuration
# Location: ~/.config/lume/settings.toml
# This file uses TOML format: https://toml.io

# Upstream API credential. A key starting with "sk-or-" routes requests
# through the OpenRouter streaming endpoint; any other key uses the managed
# SDK transport. Leave empty to disable sending.
api_key = ""

# Model identifier sent upstream.
model = "gpt-4o-mini"

# System prompt for new conversations (optional).
system_prompt = ""

# Directory where sessions are stored.
data_directory = "~/.local/share/lume"
`
}
