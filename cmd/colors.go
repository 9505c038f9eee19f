package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

func formatStatusWithColor(status string) string {
	switch strings.ToLower(status) {
	case "implemented", "ok", "success":
		return colorSuccess(status)
	case "warning":
		return colorWarn(status)
	case "missing", "error", "failed":
		return colorError(status)
	default:
		return status
	}
}

// formatGradeWithColor colors a letter grade by its leading letter.
func formatGradeWithColor(grade string) string {
	if grade == "" {
		return grade
	}
	switch grade[0] {
	case 'A', 'B':
		return colorSuccess(grade)
	case 'C', 'D':
		return colorWarn(grade)
	default:
		return colorError(grade)
	}
}

func statusSymbol(status string) string {
	switch strings.ToLower(status) {
	case "implemented":
		return colorSuccess("✓")
	case "warning":
		return colorWarn("!")
	default:
		return colorError("✗")
	}
}
