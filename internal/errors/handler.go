package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used to highlight error output.
// A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleCalculationError reports a calculation failure on out and maps it to
// an exit code.
//
// Parameters:
//   - err: The error returned by the calculation (nil means success).
//   - duration: How long the calculation ran before failing.
//   - out: The writer for the message.
//   - colors: Optional color provider.
//
// Returns:
//   - int: The exit code matching the error class.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	var timeoutErr TimeoutError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sCalculation timed out after %s%s%s.%s\n", red, yellow, duration, red, reset)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCalculation canceled after %s%s%s.%s\n", yellow, red, duration, yellow, reset)
		return ExitErrorCanceled
	case IsValidationError(err):
		fmt.Fprintf(out, "%sInvalid input: %v%s\n", red, err, reset)
		return ExitErrorConfig
	default:
		fmt.Fprintf(out, "%sCalculation failed: %v%s\n", red, err, reset)
		return ExitErrorGeneric
	}
}
