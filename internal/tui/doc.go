// Package tui implements the --tui dashboard: one progress bar per strategy,
// CPU and memory sparklines, an event log and the final result, driven by the
// same orchestration layer as the command-line mode.
package tui
