package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/factcalc/internal/errors"
)

// isFlagSet reports whether a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny reports whether any of the aliased flags was set.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps one environment variable (without EnvPrefix) to the flags
// it stands in for.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

func invalidEnv(key, val string) error {
	return apperrors.ValidationError{
		Field:   EnvPrefix + key,
		Message: fmt.Sprintf("invalid value %q", val),
	}
}

func envBool(key string, dst *bool) func(*AppConfig, string) error {
	return func(_ *AppConfig, v string) error {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			*dst = true
		case "false", "0", "no":
			*dst = false
		default:
			return invalidEnv(key, v)
		}
		return nil
	}
}

// envOverrides returns the override table bound to cfg.
func envOverrides(cfg *AppConfig) []envOverride {
	return []envOverride{
		{"N", []string{"n"}, func(c *AppConfig, v string) error {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil || parsed < 0 {
				return invalidEnv("N", v)
			}
			c.N = uint64(parsed)
			return nil
		}},
		{"WORKERS", []string{"workers", "t"}, func(c *AppConfig, v string) error {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				return invalidEnv("WORKERS", v)
			}
			c.Workers = parsed
			return nil
		}},
		{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) error {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return invalidEnv("TIMEOUT", v)
			}
			c.Timeout = parsed
			return nil
		}},
		{"ALGO", []string{"algo"}, func(c *AppConfig, v string) error {
			c.Algo = v
			return nil
		}},
		{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) error {
			c.OutputFile = v
			return nil
		}},
		{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) error {
			c.LogLevel = v
			return nil
		}},
		{"SERVER", []string{"server"}, func(c *AppConfig, v string) error {
			c.ServerAddr = v
			return nil
		}},
		{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig, v string) error {
			c.CalibrationProfile = v
			return nil
		}},
		{"VERBOSE", []string{"verbose", "v"}, envBool("VERBOSE", &cfg.Verbose)},
		{"DETAILS", []string{"details", "d"}, envBool("DETAILS", &cfg.Details)},
		{"QUIET", []string{"quiet", "q"}, envBool("QUIET", &cfg.Quiet)},
		{"NO_COLOR", []string{"no-color"}, envBool("NO_COLOR", &cfg.NoColor)},
		{"TUI", []string{"tui"}, envBool("TUI", &cfg.TUI)},
	}
}

// applyEnvOverrides fills every field whose flags were not given explicitly
// from FACTCALC_* variables. Priority is CLI flags > environment > defaults.
func applyEnvOverrides(cfg *AppConfig, explicit func(names ...string) bool) error {
	for _, o := range envOverrides(cfg) {
		if explicit(o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			if err := o.apply(cfg, val); err != nil {
				return err
			}
		}
	}
	return nil
}
