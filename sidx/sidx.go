// Package sidx reads the sorted-float index files consumed by the
// quantizer: two size_t counters followed by a contiguous block of
// already-sorted IEEE-754 binary32 values.
package sidx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/JMMackenzie/lssy"
)

// Vector holds the sorted float vector loaded from a .sidx file, along
// with the column/row shape it was declared with.
type Vector struct {
	Cols   uint64
	Rows   uint64
	Values []float32
}

// N returns the number of values in the vector (Cols * Rows).
func (v *Vector) N() int {
	return len(v.Values)
}

// Load reads a .sidx file: two little-endian uint64 counters (cols,
// rows) followed by cols*rows little-endian float32 values. It asserts
// the values are non-decreasing, per the quantizer's Non-goal of
// tolerating unsorted input.
func Load(path string) (*Vector, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens a user-specified sidx file.
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, lssy.ErrIO)
	}
	defer file.Close()

	return Read(bufio.NewReader(file))
}

// Read parses a .sidx stream from r.
func Read(r io.Reader) (*Vector, error) {
	var counters [2]uint64

	for i := range counters {
		if err := binary.Read(r, binary.LittleEndian, &counters[i]); err != nil {
			return nil, fmt.Errorf("reading sidx counters: %w", lssy.ErrIO)
		}
	}

	cols, rows := counters[0], counters[1]
	n := cols * rows

	values := make([]float32, n)
	if n > 0 {
		if err := binary.Read(r, binary.LittleEndian, values); err != nil {
			return nil, fmt.Errorf("reading %d sidx values: %w", n, lssy.ErrIO)
		}
	}

	if err := assertSorted(values); err != nil {
		return nil, err
	}

	return &Vector{Cols: cols, Rows: rows, Values: values}, nil
}

func assertSorted(f []float32) error {
	for i := 1; i < len(f); i++ {
		if f[i] < f[i-1] {
			return fmt.Errorf("%w: value %d (%g) is less than value %d (%g)",
				lssy.ErrInvariant, i, f[i], i-1, f[i-1])
		}
	}

	return nil
}
