// Package format holds the display helpers shared by the CLI and the TUI:
// durations, ETAs, progress bars and grouped numbers.
package format
