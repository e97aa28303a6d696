// Command generate-golden writes the factorial golden file used by the
// factorial package tests. Values are computed sequentially with math/big so
// the oracle shares no code with the concurrent strategies under test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// goldenEntry is one record of the golden file.
type goldenEntry struct {
	N       uint64 `json:"n"`
	Exact   string `json:"exact"`
	Wrapped int64  `json:"wrapped"`
}

// goldenNs lists the indices written to the golden file: every n up to 30
// (crossing the 64-bit overflow boundary at 21) plus a few large values.
var goldenNs = func() []uint64 {
	ns := make([]uint64, 0, 36)
	for n := uint64(0); n <= 30; n++ {
		ns = append(ns, n)
	}
	return append(ns, 50, 100, 170, 500, 1000)
}()

func main() {
	out := flag.String("out", "internal/factorial/testdata/factorial_golden.json", "Destination file")
	flag.Parse()

	entries := make([]goldenEntry, 0, len(goldenNs))
	for _, n := range goldenNs {
		exact := factBig(n)
		entries = append(entries, goldenEntry{N: n, Exact: exact.String(), Wrapped: wrapInt64(exact)})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d entries to %s\n", len(entries), *out)
}

// factBig computes n! sequentially.
func factBig(n uint64) *big.Int {
	return new(big.Int).MulRange(1, int64(n))
}

// wrapInt64 returns the low 64 bits of x as a signed integer.
func wrapInt64(x *big.Int) int64 {
	low := new(big.Int).And(x, new(big.Int).SetUint64(^uint64(0)))
	return int64(low.Uint64())
}
