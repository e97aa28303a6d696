package tui

import (
	"slices"
	"testing"
)

func TestRingBuffer_PushAndSlice(t *testing.T) {
	r := NewRingBuffer(3)
	if r.Len() != 0 || r.Last() != 0 || len(r.Slice()) != 0 {
		t.Fatal("new buffer should be empty")
	}
	r.Push(1)
	r.Push(2)
	if got := r.Slice(); !slices.Equal(got, []float64{1, 2}) {
		t.Errorf("Slice() = %v, want [1 2]", got)
	}
}

func TestRingBuffer_Overflow(t *testing.T) {
	r := NewRingBuffer(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		r.Push(v)
	}
	if got := r.Slice(); !slices.Equal(got, []float64{3, 4, 5}) {
		t.Errorf("Slice() = %v, want [3 4 5]", got)
	}
	if r.Last() != 5 || r.Len() != 3 {
		t.Errorf("Last() = %v, Len() = %d", r.Last(), r.Len())
	}
}

func TestRingBuffer_ResetAndZeroCapacity(t *testing.T) {
	r := NewRingBuffer(0)
	r.Push(7)
	r.Push(8)
	if r.Len() != 1 || r.Last() != 8 {
		t.Errorf("zero-capacity buffer should hold one sample, got Len=%d Last=%v", r.Len(), r.Last())
	}
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d", r.Len())
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"zero", []float64{0, 0}, "▁▁"},
		{"full", []float64{100}, "█"},
		{"clamped", []float64{-20, 250}, "▁█"},
		{"ramp", []float64{0, 50, 100}, "▁▄█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values); got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}
