package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	// CurrentProfileVersion changes whenever the file layout does.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is stored in the user's home directory.
	DefaultProfileFileName = ".factcalc_calibration.json"
	// ProfileMaxAge is how long a profile is trusted.
	ProfileMaxAge = 30 * 24 * time.Hour
)

// WorkerTiming is one measured worker count.
type WorkerTiming struct {
	Workers    int   `json:"workers"`
	DurationNs int64 `json:"duration_ns"`
}

// CalibrationProfile is the persisted outcome of --calibrate. The hardware
// fields tie it to the machine it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	OptimalWorkers  int            `json:"optimal_workers"`
	CalibrationN    uint64         `json:"calibration_n"`
	CalibrationTime string         `json:"calibration_time"`
	Results         []WorkerTiming `json:"results,omitempty"`
}

// NewProfile returns an empty profile describing the current machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// IsValid reports whether p was measured on hardware like this one.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63) &&
		p.OptimalWorkers >= 1
}

// IsStale reports whether p is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	return p == nil || time.Since(p.CalibratedAt) > maxAge
}

// String summarizes the profile on one line.
func (p *CalibrationProfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "calibration profile: %d workers optimal for %d! on %d CPUs (%s/%s)",
		p.OptimalWorkers, p.CalibrationN, p.NumCPU, p.GOOS, p.GOARCH)
	fmt.Fprintf(&b, ", measured %s", p.CalibratedAt.Format(time.RFC3339))
	return b.String()
}

// SaveProfile writes p to path atomically, creating parent directories.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads path, or returns a fresh profile and false when it
// is missing or unreadable.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns ~/.factcalc_calibration.json, falling back to
// the temporary directory when there is no home.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// ResolveProfilePath returns path, or the default when it is empty.
func ResolveProfilePath(path string) string {
	if path != "" {
		return path
	}
	return GetDefaultProfilePath()
}
