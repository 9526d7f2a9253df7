// Package provider implements the two upstream transports behind the
// model.Transport interface: a managed-SDK adapter (openai-go streaming,
// with tool support) and a raw HTTP/SSE adapter (OpenRouter framing, no
// tool support). Transport selection happens once, at construction, from
// the credential's prefix; nothing outside this package inspects which
// transport is in use.
package provider

import (
	"fmt"
	"strings"

	"lume/config"
	"lume/model"
	"lume/tools"
)

// OpenRouterKeyPrefix routes a credential to the HTTP/SSE transport.
// Any other non-empty credential uses the managed SDK transport.
const OpenRouterKeyPrefix = "sk-or-"

// KindForCredential reports which transport a credential selects.
func KindForCredential(apiKey string) model.TransportKind {
	if strings.HasPrefix(apiKey, OpenRouterKeyPrefix) {
		return model.TransportSSE
	}
	return model.TransportSDK
}

// NewTransport creates the transport selected by the configured credential.
// The registry is only exercised by the SDK transport; the SSE transport
// has no tool support.
func NewTransport(cfg *config.Config, registry *tools.Registry) (model.Transport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API credential configured")
	}

	switch KindForCredential(cfg.APIKey) {
	case model.TransportSSE:
		return NewSSETransport(cfg.APIKey, cfg.Model, cfg.SystemPrompt), nil
	default:
		return NewSDKTransport(cfg.APIKey, cfg.Model, cfg.SystemPrompt, registry), nil
	}
}
