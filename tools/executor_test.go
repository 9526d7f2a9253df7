package tools

import (
	"encoding/json"
	"testing"
	"time"
)

func TestExecuteCalculator(t *testing.T) {
	registry := NewRegistry()

	result := registry.Execute(NameCalculator, map[string]any{"expression": "2 + 2*5"})
	if result["error"] != nil {
		t.Fatalf("unexpected error payload: %v", result["error"])
	}
	if got := result["result"]; got != 12.0 {
		t.Errorf("result = %v, want 12", got)
	}
}

func TestExecuteCalculatorInvalid(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name string
		args map[string]any
	}{
		{"malformed expression", map[string]any{"expression": "2 +* 2"}},
		{"missing argument", map[string]any{}},
		{"wrong argument type", map[string]any{"expression": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := registry.Execute(NameCalculator, tt.args)
			if result["error"] != "Invalid expression" {
				t.Errorf("error payload = %v, want %q", result["error"], "Invalid expression")
			}
		})
	}
}

func TestExecuteGetTime(t *testing.T) {
	fixed := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	registry := NewRegistryWithClock(func() time.Time { return fixed })

	result := registry.Execute(NameGetTime, nil)
	if result["time"] != "Fri Mar 15 10:30:00 2024" {
		t.Errorf("time payload = %v", result["time"])
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	result := NewRegistry().Execute("launch_rockets", nil)
	if result["error"] == nil {
		t.Fatal("expected error payload for unknown tool")
	}
}

func TestResultIsJSONSerializable(t *testing.T) {
	results := []Result{
		NewRegistry().Execute(NameCalculator, map[string]any{"expression": "1/3"}),
		NewRegistry().Execute(NameCalculator, map[string]any{"expression": "bogus("}),
		NewRegistry().Execute(NameGetTime, nil),
	}
	for _, result := range results {
		if _, err := json.Marshal(result); err != nil {
			t.Errorf("result %v not serializable: %v", result, err)
		}
	}
}
