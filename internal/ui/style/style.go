// Package style holds the colors and glyphs shared by every renderer.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Ink    = lipgloss.Color("#0B0F19")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Teal   = lipgloss.Color("#0EA5A4")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
	Circle  = "○"
	Join    = "+"
	Leave   = "-"
)

// PlatformColor picks the accent used for a device's console output.
func PlatformColor(platform string) lipgloss.Color {
	switch platform {
	case "ios":
		return Iris
	case "android":
		return Green
	case "web":
		return Teal
	default:
		return Slate
	}
}

// ConsoleColor maps a console method to the color its lines are printed in.
func ConsoleColor(method string) lipgloss.Color {
	switch method {
	case "error":
		return Red
	case "warn":
		return Yellow
	default:
		return White
	}
}
