// Package tools implements the two built-in tools the model can invoke
// mid-reply: an arithmetic calculator and a current-time lookup.
//
// Tool execution never fails from the caller's point of view: every
// failure is captured as an {"error": ...} payload and sent upstream as a
// normal tool result, so a bad expression never aborts a streaming turn.
package tools

import (
	"time"

	"lume/config"
)

// Tool names understood by the registry. These are also the function names
// declared to the upstream model.
const (
	NameCalculator = "calculator"
	NameGetTime    = "get_time"
)

// Result is the JSON-serializable payload returned for a tool call.
type Result map[string]any

// Registry dispatches tool calls to their implementations.
type Registry struct {
	now func() time.Time
}

// NewRegistry creates a registry using the wall clock.
func NewRegistry() *Registry {
	return &Registry{now: time.Now}
}

// NewRegistryWithClock creates a registry with an injected clock for tests.
func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{now: now}
}

// Execute runs the named tool and returns its result payload. Unknown tools
// and invalid arguments become error payloads, never Go errors.
func (r *Registry) Execute(name string, args map[string]any) Result {
	switch name {
	case NameCalculator:
		expr, _ := args["expression"].(string)
		return r.calculate(expr)
	case NameGetTime:
		return Result{"time": r.now().Format("Mon Jan 2 15:04:05 2006")}
	default:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[tools] Unknown tool requested: %s", name)
		}
		return Result{"error": "Unknown tool: " + name}
	}
}

func (r *Registry) calculate(expression string) Result {
	value, err := Evaluate(expression)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[tools] calculator rejected %q: %v", expression, err)
		}
		return Result{"error": "Invalid expression"}
	}
	return Result{"result": value}
}
