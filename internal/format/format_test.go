package format

import (
	"strings"
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0µs"},
		{10 * time.Microsecond, "10µs"},
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		eta  time.Duration
		want string
	}{
		{"zero", 0, "calculating..."},
		{"negative", -time.Second, "calculating..."},
		{"sub-second", 500 * time.Millisecond, "< 1s"},
		{"seconds", 45 * time.Second, "45s"},
		{"whole minute", time.Minute, "1m"},
		{"minutes and seconds", 2*time.Minute + 30*time.Second, "2m30s"},
		{"whole hours", 2 * time.Hour, "2h"},
		{"hours and minutes", 3*time.Hour + 45*time.Minute, "3h45m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatETA(tt.eta); got != tt.want {
				t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "░░░░░░░░░░"},
		{0.5, "█████░░░░░"},
		{1, "██████████"},
		{1.2, "██████████"},
		{-0.1, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.progress, 10); got != tt.want {
			t.Errorf("ProgressBar(%v, 10) = %s, want %s", tt.progress, got, tt.want)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.5, 30*time.Second, 20)
	for _, want := range []string{"[", "]", " 50.00%", "ETA: 30s"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatProgressBarWithETA() = %q, missing %q", got, want)
		}
	}
}

func TestProgressState(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(2)
	if ps.CalculateAverage() != 0 {
		t.Errorf("initial average = %v, want 0", ps.CalculateAverage())
	}
	ps.Update(0, 0.5)
	ps.Update(1, 1.0)
	ps.Update(7, 1.0)  // ignored
	ps.Update(-1, 1.0) // ignored
	if got := ps.CalculateAverage(); got != 0.75 {
		t.Errorf("average = %v, want 0.75", got)
	}
	ps.Update(0, 3)
	if got := ps.CalculateAverage(); got != 1 {
		t.Errorf("clamped average = %v, want 1", got)
	}
	if NewProgressState(0).CalculateAverage() != 0 {
		t.Error("zero calculators should average to 0")
	}
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(2)
	if p.GetETA() != 0 {
		t.Errorf("initial ETA = %v, want 0", p.GetETA())
	}
	avg, eta := p.UpdateWithETA(0, 0.25)
	if avg != 0.125 {
		t.Errorf("average = %v, want 0.125", avg)
	}
	if eta < 0 {
		t.Errorf("ETA must not be negative, got %v", eta)
	}

	p.Update(0, 0.5)
	p.Update(1, 0.5)
	p.progressRate = 0.1
	if eta := p.GetETA(); eta < 4*time.Second || eta > 6*time.Second {
		t.Errorf("ETA = %v, want about 5s", eta)
	}

	p.progressRate = 1e-9
	if eta := p.GetETA(); eta > maxETA {
		t.Errorf("ETA = %v exceeds cap %v", eta, maxETA)
	}
}

func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"3628800", "3,628,800"},
		{"-4249290049419214848", "-4,249,290,049,419,214,848"},
	}
	for _, tt := range tests {
		if got := FormatNumberString(tt.in); got != tt.want {
			t.Errorf("FormatNumberString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
