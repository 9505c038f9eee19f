package cmd

import (
	"testing"

	"github.com/fatih/color"
)

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}

func TestFormatStatusWithColor(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name   string
		status string
		want   string
	}{
		{name: "implemented", status: "implemented", want: "implemented"},
		{name: "warning", status: "warning", want: "warning"},
		{name: "missing", status: "MISSING", want: "MISSING"},
		{name: "unknown", status: "pending", want: "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatusWithColor(tt.status); got != tt.want {
				t.Fatalf("formatStatusWithColor(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestFormatGradeWithColor(t *testing.T) {
	disableColor(t)

	for _, grade := range []string{"A+", "B-", "C", "D+", "F", ""} {
		if got := formatGradeWithColor(grade); got != grade {
			t.Errorf("formatGradeWithColor(%q) = %q", grade, got)
		}
	}
}

func TestStatusSymbol(t *testing.T) {
	disableColor(t)

	want := map[string]string{"implemented": "✓", "warning": "!", "missing": "✗"}
	for status, symbol := range want {
		if got := statusSymbol(status); got != symbol {
			t.Errorf("statusSymbol(%q) = %q, want %q", status, got, symbol)
		}
	}
}
