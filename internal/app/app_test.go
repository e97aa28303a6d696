package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/factcalc/internal/calibration"
	apperrors "github.com/agbru/factcalc/internal/errors"
)

// run builds and runs the application. Run mutates process-wide state (log
// level, theme), so these tests do not use t.Parallel.
func run(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	argv := append([]string{"factcalc", "--no-color"}, args...)
	app, err := New(argv, &stderr, WithInput(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("New(%v): %v", args, err)
	}
	code := app.Run(context.Background(), &stdout)
	return code, stdout.String(), stderr.String()
}

func TestRun_Calculate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"flags", []string{"-n", "10", "-t", "3"}, []string{"10! = 3628800", "Global Status: Success"}},
		{"positional", []string{"12", "4"}, []string{"12! = 479001600"}},
		{"wraps", []string{"-n", "21", "-t", "2"}, []string{"wraps modulo 2^64", "21! = -4249290049419214848"}},
		{"exact", []string{"-n", "25", "-t", "2", "--algo", "big"}, []string{"25! = 15511210043330985984000000"}},
		{"compare all", []string{"-n", "30", "-t", "4", "--algo", "all"}, []string{"comparison of 4 strategies", "Comparison Summary"}},
		{"details", []string{"-n", "15", "-t", "2", "-d"}, []string{"Detailed result analysis", "Memory Stats"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := run(t, "", tt.args...)
			if code != apperrors.ExitSuccess {
				t.Fatalf("exit code %d, output:\n%s", code, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRun_Quiet(t *testing.T) {
	code, out, _ := run(t, "", "-n", "10", "-t", "3", "-q")
	if code != apperrors.ExitSuccess || out != "3628800\n" {
		t.Errorf("quiet run: code=%d out=%q", code, out)
	}
	code, out, _ = run(t, "", "-n", "25", "-t", "3", "-q", "--algo", "all")
	if code != apperrors.ExitSuccess || strings.Count(out, "\n") != 1 {
		t.Errorf("quiet comparison should print one line: code=%d out=%q", code, out)
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "fact.txt")
	code, out, _ := run(t, "", "-n", "10", "-t", "2", "-o", path)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out, "Result saved to: "+path) {
		t.Errorf("save notice missing:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "10! = 3628800") {
		t.Errorf("file content:\n%s", data)
	}
}

func TestRun_Prompt(t *testing.T) {
	code, out, _ := run(t, "6\n2\n", "--prompt", "-q")
	if code != apperrors.ExitSuccess || !strings.HasSuffix(out, "720\n") {
		t.Errorf("prompt run: code=%d out=%q", code, out)
	}

	code, _, errOut := run(t, "-4\n", "--prompt")
	if code != apperrors.ExitErrorConfig || !strings.Contains(errOut, "negative integer value entered (-4)") {
		t.Errorf("negative prompt: code=%d stderr=%q", code, errOut)
	}
}

func TestRun_Interactive(t *testing.T) {
	code, out, _ := run(t, "calc 7\nexit\n", "-i", "-t", "2")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "7! = 5040") {
		t.Errorf("interactive: code=%d out:\n%s", code, out)
	}
}

func TestRun_Completion(t *testing.T) {
	code, out, _ := run(t, "", "--completion", "bash")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "complete -F _factcalc factcalc") {
		t.Errorf("completion: code=%d", code)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"negative N", []string{"-n", "-5"}, apperrors.ExitErrorConfig},
		{"zero workers", []string{"-n", "5", "-t", "0"}, apperrors.ExitErrorConfig},
		{"too many positionals", []string{"1", "2", "3"}, apperrors.ExitErrorConfig},
		{"help", []string{"--help"}, apperrors.ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, err := New(append([]string{"factcalc"}, tt.args...), &stderr)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := HandleStartupError(err, &stderr); code != tt.want {
				t.Errorf("exit code %d, want %d", code, tt.want)
			}
		})
	}
}

func TestNew_CalibrationProfileFillsWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	profile := calibration.NewProfile()
	profile.OptimalWorkers = 3
	if err := profile.SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	app, err := New([]string{"factcalc", "-n", "5", "--calibration-profile", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if app.Config.Workers != 3 {
		t.Errorf("Workers = %d, want 3 from the profile", app.Config.Workers)
	}

	app, err = New([]string{"factcalc", "-n", "5", "-t", "7", "--calibration-profile", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if app.Config.Workers != 7 {
		t.Errorf("Workers = %d, want the explicit 7", app.Config.Workers)
	}
}

func TestVersion(t *testing.T) {
	if !HasVersionFlag([]string{"-n", "5", "--version"}) || !HasVersionFlag([]string{"-V"}) {
		t.Error("version flag not detected")
	}
	if HasVersionFlag([]string{"-v"}) {
		t.Error("-v is --verbose, not --version")
	}
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "factcalc "+Version) {
		t.Errorf("PrintVersion = %q", buf.String())
	}
}
