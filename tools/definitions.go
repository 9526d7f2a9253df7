package tools

import (
	"github.com/openai/openai-go/v3"
)

// Declarations returns the tool declarations advertised to the managed
// transport, in the SDK's function-tool format.
func Declarations() []openai.ChatCompletionToolUnionParam {
	return []openai.ChatCompletionToolUnionParam{
		openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        NameCalculator,
				Description: openai.String("Evaluate an arithmetic expression. Supports + - * /, parentheses, and the functions sin, cos, tan, log, sqrt."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"expression": map[string]any{
							"type":        "string",
							"description": "The arithmetic expression to evaluate, e.g. \"2 + 2*5\".",
						},
					},
					"required": []string{"expression"},
				},
			},
		),
		openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        NameGetTime,
				Description: openai.String("Get the current local date and time."),
				Parameters: openai.FunctionParameters{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		),
	}
}
