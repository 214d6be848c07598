// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"go.trai.ch/livepush/internal/core/domain"
	"golang.org/x/term"
)

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() domain.OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return domain.OutputLinear
	}
	return domain.OutputTUI
}

// ResolveMode applies the user's choice to auto-detection.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected domain.OutputMode, userFlag string) domain.OutputMode {
	switch userFlag {
	case "tui":
		return domain.OutputTUI
	case "linear", "ci":
		return domain.OutputLinear
	default:
		return autoDetected
	}
}
