// Package style holds the colours and icons shared by terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Colours.
var (
	Slate  = lipgloss.Color("#667085")
	Ash    = lipgloss.Color("#CCCCCC")
	Forest = lipgloss.Color("#27A73F")
	Amber  = lipgloss.Color("#FFA500")
	Flame  = lipgloss.Color("#FF0000")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)
