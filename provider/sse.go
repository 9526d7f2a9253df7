package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lume/config"
	"lume/model"
)

const (
	openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	sseDataPrefix      = "data: "
	sseDoneSentinel    = "[DONE]"

	// Required by the OpenRouter API for request attribution.
	appReferrer = "https://github.com/lume-chat/lume"
	appTitle    = "Lume"
)

// SSETransport implements model.Transport over a raw streaming HTTP
// request with Server-Sent-Events framing. It keeps conversation history
// as a flat role/content list and has no tool support.
type SSETransport struct {
	endpoint     string
	apiKey       string
	model        string
	systemPrompt string
	client       *http.Client
	history      []sseMessage
}

type sseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sseRequest struct {
	Model    string       `json:"model"`
	Messages []sseMessage `json:"messages"`
	Stream   bool         `json:"stream"`
}

type sseEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// NewSSETransport creates the HTTP/SSE transport against the OpenRouter
// endpoint.
func NewSSETransport(apiKey, modelName, systemPrompt string) *SSETransport {
	return &SSETransport{
		endpoint:     openRouterEndpoint,
		apiKey:       apiKey,
		model:        modelName,
		systemPrompt: systemPrompt,
		client:       &http.Client{Timeout: 5 * time.Minute},
	}
}

// NewSSETransportWithEndpoint is like NewSSETransport against an alternate
// endpoint. Used by tests.
func NewSSETransportWithEndpoint(endpoint, apiKey, modelName, systemPrompt string) *SSETransport {
	t := NewSSETransport(apiKey, modelName, systemPrompt)
	t.endpoint = endpoint
	return t
}

// Kind implements model.Transport.
func (t *SSETransport) Kind() model.TransportKind { return model.TransportSSE }

// StartChat implements model.Transport. System entries are preserved; when
// the translated history carries no system instruction, the default one is
// injected at the front.
func (t *SSETransport) StartChat(messages []model.Message) {
	history := make([]sseMessage, 0, len(messages)+1)
	hasSystem := false
	for _, msg := range replayable(messages) {
		if msg.Role == model.RoleSystem {
			hasSystem = true
		}
		history = append(history, sseMessage{
			Role:    upstreamRole(msg.Role),
			Content: msg.Content,
		})
	}
	if !hasSystem {
		history = append([]sseMessage{{Role: "system", Content: t.systemPrompt}}, history...)
	}
	t.history = history
}

// Send implements model.Transport.
func (t *SSETransport) Send(ctx context.Context, text string, callback model.SnapshotCallback) error {
	if t.history == nil {
		t.StartChat(nil)
	}
	baseline := len(t.history)
	t.history = append(t.history, sseMessage{Role: "user", Content: text})

	accumulated, err := t.streamCompletion(ctx, callback)
	if err != nil {
		t.history = t.history[:baseline]
		return err
	}

	t.history = append(t.history, sseMessage{Role: "assistant", Content: accumulated})
	return nil
}

func (t *SSETransport) streamCompletion(ctx context.Context, callback model.SnapshotCallback) (string, error) {
	body, err := json.Marshal(sseRequest{
		Model:    t.model,
		Messages: t.history,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", appReferrer)
	req.Header.Set("X-Title", appTitle)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upstream returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var accumulated strings.Builder

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, sseDataPrefix)
		if payload == sseDoneSentinel {
			break
		}

		var event sseEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			// Partial frames split across reads arrive malformed; the
			// remainder comes with the next read, so skip silently.
			if config.DebugLog != nil {
				config.DebugLog.Printf("[sse] skipping unparseable frame (%d bytes)", len(payload))
			}
			continue
		}

		if len(event.Choices) == 0 || event.Choices[0].Delta.Content == "" {
			continue
		}

		accumulated.WriteString(event.Choices[0].Delta.Content)
		if err := callback(accumulated.String()); err != nil {
			return "", err
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("stream read failed: %w", err)
	}

	return accumulated.String(), nil
}
