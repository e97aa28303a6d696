package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
)

// PromptInputs asks for N and the worker count on in, writing the prompts to
// out. Invalid answers are returned as apperrors.ValidationError.
func PromptInputs(in io.Reader, out io.Writer) (uint64, int, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Please enter in the nonnegative integer value for the factorial: ")
	line, err := readLine(reader)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, 0, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("invalid number %q", line)}
	}
	if n < 0 {
		return 0, 0, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("negative integer value entered (%d)", n)}
	}

	fmt.Fprint(out, "Please enter the number of threads to use: ")
	line, err = readLine(reader)
	if err != nil {
		return 0, 0, err
	}
	workers, err := strconv.Atoi(line)
	if err != nil {
		return 0, 0, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("invalid number %q", line)}
	}
	if workers < 1 || workers > config.MaxWorkers {
		return 0, 0, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("invalid number of threads (%d)", workers)}
	}
	return uint64(n), workers, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
