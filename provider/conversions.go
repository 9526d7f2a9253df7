package provider

import (
	"encoding/json"

	"lume/model"
)

// ParseToolArguments parses a JSON arguments string into a map. A malformed
// payload yields an empty map rather than an error; the tool itself will
// then report invalid arguments as a tool result.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return make(map[string]any)
	}
	return args
}

// upstreamRole maps a conversation role into the vocabulary both upstreams
// expect ("model" becomes "assistant").
func upstreamRole(role string) string {
	if role == model.RoleAssistant {
		return "assistant"
	}
	return role
}

// replayable filters a session's messages down to the entries a transport
// may replay upstream: error-flagged messages never leave the client.
func replayable(messages []model.Message) []model.Message {
	result := make([]model.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.IsError {
			continue
		}
		result = append(result, msg)
	}
	return result
}
