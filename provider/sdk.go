package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"lume/config"
	"lume/model"
	"lume/tools"
)

// maxToolHops bounds the tool-call/resume loop for one turn. The upstream
// could in principle request tools forever; past this bound the turn fails
// with a transport error instead of looping.
const maxToolHops = 8

// toolStatusNotice is appended to the accumulated text when tool execution
// begins, so the snapshot sequence stays a pure prefix extension while still
// showing progress.
const toolStatusNotice = "_Running tools..._\n\n"

// SDKTransport implements model.Transport over the managed streaming SDK.
// It is the only transport with tool support: tool calls collected during a
// stream are executed after the stream is fully drained, their results sent
// back upstream in one follow-up request, and the reply resumes on a fresh
// stream concatenated onto the accumulated text.
type SDKTransport struct {
	client       openai.Client
	model        string
	temperature  float64
	systemPrompt string
	registry     *tools.Registry
	history      []openai.ChatCompletionMessageParamUnion
}

// NewSDKTransport creates the managed-SDK transport. Extra request options
// (base URL overrides and the like) are passed through to the client.
func NewSDKTransport(apiKey, modelName, systemPrompt string, registry *tools.Registry, opts ...option.RequestOption) *SDKTransport {
	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &SDKTransport{
		client:       openai.NewClient(clientOpts...),
		model:        modelName,
		temperature:  0.7,
		systemPrompt: systemPrompt,
		registry:     registry,
	}
}

// Kind implements model.Transport.
func (t *SDKTransport) Kind() model.TransportKind { return model.TransportSDK }

// StartChat implements model.Transport. The replayed history drops system
// and error entries, maps roles into the SDK vocabulary, and skips leading
// assistant entries (the seeded welcome message) because the upstream
// requires the first turn to be user-authored.
func (t *SDKTransport) StartChat(messages []model.Message) {
	history := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	seenUser := false
	for _, msg := range replayable(messages) {
		switch msg.Role {
		case model.RoleUser:
			seenUser = true
			history = append(history, openai.UserMessage(msg.Content))
		case model.RoleAssistant:
			if !seenUser {
				continue
			}
			history = append(history, openai.AssistantMessage(msg.Content))
		}
	}
	t.history = history
}

// Send implements model.Transport. On failure the history is rolled back
// to its pre-turn state so an explicit resubmission starts clean.
func (t *SDKTransport) Send(ctx context.Context, text string, callback model.SnapshotCallback) error {
	baseline := len(t.history)
	if err := t.send(ctx, text, callback); err != nil {
		t.history = t.history[:baseline]
		return err
	}
	return nil
}

func (t *SDKTransport) send(ctx context.Context, text string, callback model.SnapshotCallback) error {
	t.history = append(t.history, openai.UserMessage(text))

	var accumulated strings.Builder
	hops := 0

	for {
		roundText, toolCalls, err := t.streamRound(ctx, &accumulated, callback)
		if err != nil {
			return err
		}

		if len(toolCalls) == 0 {
			if roundText != "" {
				t.history = append(t.history, openai.AssistantMessage(roundText))
			}
			return nil
		}

		hops++
		if hops > maxToolHops {
			return fmt.Errorf("tool call limit exceeded (%d rounds)", maxToolHops)
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("[sdk] %d tool calls after round %d", len(toolCalls), hops)
		}

		// Progress notice becomes part of the accumulated text so every
		// later snapshot still extends every earlier one.
		if accumulated.Len() > 0 {
			accumulated.WriteString("\n\n")
		}
		accumulated.WriteString(toolStatusNotice)
		if err := callback(accumulated.String()); err != nil {
			return err
		}

		t.executeToolRound(toolCalls)
	}
}

// streamRound drains one streaming call to completion, emitting accumulated
// snapshots along the way. Tool calls are returned only once the stream is
// fully exhausted, never interleaved with still-unread content.
func (t *SDKTransport) streamRound(ctx context.Context, accumulated *strings.Builder, callback model.SnapshotCallback) (string, []openai.ChatCompletionMessageToolCallUnion, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(t.model),
		Temperature: openai.Float(t.temperature),
		Messages:    t.messagesWithSystem(),
		Tools:       tools.Declarations(),
	}

	stream := t.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	var roundText strings.Builder

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			content := chunk.Choices[0].Delta.Content
			roundText.WriteString(content)
			accumulated.WriteString(content)
			if err := callback(accumulated.String()); err != nil {
				return "", nil, err
			}
		}
	}

	if err := stream.Err(); err != nil {
		return "", nil, fmt.Errorf("streaming error: %w", err)
	}

	var toolCalls []openai.ChatCompletionMessageToolCallUnion
	if len(acc.Choices) > 0 {
		toolCalls = acc.Choices[0].Message.ToolCalls
	}
	if len(toolCalls) > 0 {
		// The assistant turn that requested the tools must be replayed
		// verbatim (including its tool_calls) ahead of the results.
		t.history = append(t.history, acc.Choices[0].Message.ToParam())
	}

	return roundText.String(), toolCalls, nil
}

// executeToolRound runs each collected call sequentially, in the order
// received, and appends the results to history as one follow-up block.
func (t *SDKTransport) executeToolRound(toolCalls []openai.ChatCompletionMessageToolCallUnion) {
	for _, call := range toolCalls {
		args := ParseToolArguments(call.Function.Arguments)
		result := t.registry.Execute(call.Function.Name, args)

		payload, err := json.Marshal(result)
		if err != nil {
			payload = []byte(`{"error": "tool result not serializable"}`)
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("[sdk] tool %s(%s) -> %s", call.Function.Name, call.Function.Arguments, payload)
		}

		t.history = append(t.history, openai.ToolMessage(string(payload), call.ID))
	}
}

func (t *SDKTransport) messagesWithSystem() []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(t.history)+1)
	messages = append(messages, openai.SystemMessage(t.systemPrompt))
	messages = append(messages, t.history...)
	return messages
}
