// Package ui holds the color themes shared by the CLI and the TUI. CLI output
// uses raw ANSI sequences from Theme; the TUI uses lipgloss colors from
// TUITheme. Both honor --no-color and NO_COLOR.
package ui
