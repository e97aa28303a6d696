// Package partition splits the factor range [1, N] of a factorial into
// contiguous, balanced per-worker ranges.
package partition

import "fmt"

// Range is the half-open interval of factors [Start, Start+Length) owned by a
// single worker. An empty range has Length 0 and the sentinel Start 0.
type Range struct {
	Start  uint64
	Length uint64
}

// End returns the exclusive upper bound of the range.
func (r Range) End() uint64 { return r.Start + r.Length }

// Empty reports whether the worker owning r has nothing to multiply.
func (r Range) Empty() bool { return r.Length == 0 }

// String renders the range as [start, end).
func (r Range) String() string {
	if r.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d)", r.Start, r.End())
}

// Partition returns the range owned by worker index out of workers workers for
// the factorial of n.
//
// The base chunk is n/workers; the remainder R is handed out one factor each to
// the first R workers, so lengths differ by at most one. Start is 1 plus the
// lengths of all lower indices, computed in closed form so each worker can
// derive its own range without coordination. Workers with index >= n get an
// empty range.
//
// Callers guarantee workers >= 1 and 0 <= index < workers.
func Partition(n uint64, workers int, index int) Range {
	w := uint64(workers)
	i := uint64(index)
	if i >= n {
		return Range{}
	}
	base := n / w
	rem := n - base*w
	length := base
	if i < rem {
		length++
	}
	return Range{
		Start:  1 + i*base + min(i, rem),
		Length: length,
	}
}

// Plan computes every worker's range centrally with a running start offset.
// Plan(n, w)[i] always equals Partition(n, w, i).
func Plan(n uint64, workers int) []Range {
	ranges := make([]Range, workers)
	w := uint64(workers)
	base := n / w
	rem := n - base*w
	start := uint64(1)
	for i := range ranges {
		idx := uint64(i)
		if idx >= n {
			continue
		}
		length := base
		if idx < rem {
			length++
		}
		ranges[i] = Range{Start: start, Length: length}
		start += length
	}
	return ranges
}
