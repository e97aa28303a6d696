// Package logging provides a unified logging interface for the factorial
// calculator. Calculators, the orchestrator and the HTTP server log through
// Logger so the backend (zerolog or the standard library) stays swappable.
package logging
