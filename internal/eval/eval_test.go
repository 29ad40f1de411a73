package eval

import (
	"math"
	"testing"
)

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1 * 2", 2},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"-3 + 5", 2},
		{"-(2 + 3)", -5},
		{"--4", 4},
		{"1.5 * 2", 3},
		{"8 - 2 - 1", 5},
		{"100 / 10 / 2", 5},
		{"2 * 3 + 4 * 5", 26},
	}

	for _, tt := range tests {
		got, err := Evaluate(tt.expr)
		if err != nil {
			t.Errorf("Evaluate(%q) returned error: %v", tt.expr, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluate_Functions(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"sqrt(16)", 4},
		{"sqrt(2 * 8)", 4},
		{"abs(-7)", 7},
		{"round(2.6)", 3},
		{"pow(2, 10)", 1024},
		{"min(3, 8)", 3},
		{"max(3, 8)", 8},
		{"sqrt(pow(3, 2) + pow(4, 2))", 5},
	}

	for _, tt := range tests {
		got, err := Evaluate(tt.expr)
		if err != nil {
			t.Errorf("Evaluate(%q) returned error: %v", tt.expr, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluate_Errors(t *testing.T) {
	exprs := []string{
		"",
		"   ",
		"1 +",
		"(1 + 2",
		"1 / 0",
		"2 ** 3",
		"sqrt(-1)",
		"foo(1)",
		"x * 2",
		"system(1)",
		"1; 2",
		"pow(2)",
		"1 2",
	}

	for _, expr := range exprs {
		if _, err := Evaluate(expr); err == nil {
			t.Errorf("Evaluate(%q) should fail", expr)
		}
	}
}
