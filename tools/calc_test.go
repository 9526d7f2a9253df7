package tools

import (
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{"addition", "1 + 2", 3},
		{"precedence", "2 + 2*5", 12},
		{"parentheses", "(2 + 2) * 5", 20},
		{"division", "10 / 4", 2.5},
		{"unary minus", "-3 + 5", 2},
		{"double unary", "--3", 3},
		{"nested parens", "((1 + 2) * (3 + 4))", 21},
		{"decimal", "0.5 * 4", 2},
		{"leading dot", ".5 + .5", 1},
		{"sqrt", "sqrt(16)", 4},
		{"math prefix sqrt", "Math.sqrt(16)", 4},
		{"sin zero", "sin(0)", 0},
		{"cos zero", "cos(0)", 1},
		{"tan zero", "tan(0)", 0},
		{"natural log", "log(1)", 0},
		{"pi constant", "pi", math.Pi},
		{"math pi", "Math.PI", math.Pi},
		{"e constant", "e", math.E},
		{"function in expression", "2 * sqrt(9) + 1", 7},
		{"whitespace", "  1+ 1  ", 2},
		{"negative paren", "-(2 + 3)", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) returned error: %v", tt.expr, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"only spaces", "   "},
		{"trailing operator", "1 +"},
		{"leading operator", "* 2"},
		{"unbalanced open", "(1 + 2"},
		{"unbalanced close", "1 + 2)"},
		{"double dot number", "1.2.3"},
		{"bare dot", "."},
		{"unknown identifier", "foo(1)"},
		{"unknown constant", "tau"},
		{"function without parens", "sqrt 4"},
		{"division by zero", "1 / 0"},
		{"sqrt of negative", "sqrt(-1)"},
		{"disallowed characters", "1 + 2; rm -rf /"},
		{"exponent operator", "2 ^ 3"},
		{"trailing garbage", "1 + 2 xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Evaluate(tt.expr); err == nil {
				t.Errorf("Evaluate(%q) succeeded, want error", tt.expr)
			}
		})
	}
}
