// Package quantizer builds and persists bin tables: given a sorted
// vector of floats and a requested bin count, it partitions the real
// line into bins and derives, for each bin, an upper boundary, a
// representative value, and a frequency count.
package quantizer

import (
	"fmt"
	"sort"

	"github.com/JMMackenzie/lssy"
)

// MinBins is the smallest bin count the quantizer accepts.
const MinBins = 4

// BinTable is the output of the quantizer: for each bin k, U[k] is the
// upper boundary, S[k] the representative value, and C[k] the number of
// source values that fell into the bin.
type BinTable struct {
	NumBins int
	U       []float32
	S       []float32
	C       []uint64
}

// Total returns the sum of all bin frequencies.
func (t *BinTable) Total() uint64 {
	var total uint64
	for _, c := range t.C {
		total += c
	}

	return total
}

// Cumulative returns C[k] = sum(c[0..k]) for k in [0, NumBins), the
// cumulative frequency table the arithmetic coder encodes against.
func (t *BinTable) Cumulative() []uint64 {
	cum := make([]uint64, t.NumBins)

	var running uint64
	for i, c := range t.C {
		running += c
		cum[i] = running
	}

	return cum
}

// Build partitions the sorted vector f into numBins bins using the
// given strategy, deriving U, S and C. f must already be sorted
// non-decreasing and len(f) >= numBins.
func Build(strategy Strategy, numBins int, f []float32) (*BinTable, error) {
	if numBins < MinBins {
		return nil, fmt.Errorf("%w: num_bins must be >= %d, got %d", lssy.ErrFormat, MinBins, numBins)
	}

	if len(f) < numBins {
		return nil, fmt.Errorf("%w: need at least num_bins (%d) values, got %d",
			lssy.ErrInvariant, numBins, len(f))
	}

	if !sort.SliceIsSorted(f, func(i, j int) bool { return f[i] < f[j] }) {
		return nil, fmt.Errorf("%w: input vector is not sorted", lssy.ErrInvariant)
	}

	c := make([]uint64, numBins)
	if err := buildFrequencies(strategy, c, f); err != nil {
		return nil, err
	}

	var total uint64
	for _, v := range c {
		total += v
	}

	if total != uint64(len(f)) {
		return nil, fmt.Errorf("%w: bin frequencies sum to %d, expected %d", lssy.ErrInvariant, total, len(f))
	}

	u, s := deriveBoundariesAndRepresentatives(c, f)

	return &BinTable{NumBins: numBins, U: u, S: s, C: c}, nil
}

// deriveBoundariesAndRepresentatives walks f once, computing the upper
// boundary and mean representative of each bin's slice. An empty bin
// (c[k] == 0) takes U[k] and S[k] from the last value of the preceding
// bin, keeping U non-decreasing.
func deriveBoundariesAndRepresentatives(c []uint64, f []float32) (u, s []float32) {
	numBins := len(c)
	u = make([]float32, numBins)
	s = make([]float32, numBins)

	var start uint64
	for k := 0; k < numBins; k++ {
		if c[k] > 0 {
			last := start + c[k] - 1
			u[k] = f[last]
			s[k] = mean(f[start : start+c[k]])
		} else if start > 0 {
			// Empty bin: both U and S carry the preceding bin's last value.
			u[k] = f[start-1]
			s[k] = u[k]
		} else {
			// Empty bin at the very front of F (only possible for a
			// degenerate, empty input): nothing to carry forward from.
			u[k] = 0
			s[k] = 0
		}

		start += c[k]
	}

	return u, s
}

func mean(f []float32) float32 {
	var sum float64
	for _, v := range f {
		sum += float64(v)
	}

	return float32(sum / float64(len(f)))
}
