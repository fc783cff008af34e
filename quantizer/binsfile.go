package quantizer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/JMMackenzie/lssy"
)

// ncolsMarker is the sentinel written in place of a third sidx counter
// at the head of the bins file. The reference implementation
// double-uses this field: a bins file that began life as a two-column
// sidx file would also read back as ncolsMarker == 2, so readers must
// treat the value strictly as a format tag, never as an actual column
// count.
const ncolsMarker = 2

// WriteFile serializes the bin table to path in the wire format:
//
//	size_t ncols_marker = 2
//	size_t num_bins
//	for k in 0..num_bins:  float U[k]; float S[k]
//	for k in 0..num_bins:  size_t c[k]
func (t *BinTable) WriteFile(path string) error {
	file, err := os.Create(path) //nolint:gosec // CLI tool creates a user-specified bins file.
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, lssy.ErrIO)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := t.Write(w); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, lssy.ErrIO)
	}

	return nil
}

// Write serializes the bin table to w.
func (t *BinTable) Write(w io.Writer) error {
	header := [2]uint64{ncolsMarker, uint64(t.NumBins)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing bins header: %w", lssy.ErrIO)
	}

	for k := 0; k < t.NumBins; k++ {
		pair := [2]float32{t.U[k], t.S[k]}
		if err := binary.Write(w, binary.LittleEndian, pair); err != nil {
			return fmt.Errorf("writing bin %d boundary/representative: %w", k, lssy.ErrIO)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, t.C); err != nil {
		return fmt.Errorf("writing bin frequencies: %w", lssy.ErrIO)
	}

	return nil
}

// ReadFile parses a bins file from path.
func ReadFile(path string) (*BinTable, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens a user-specified bins file.
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, lssy.ErrIO)
	}
	defer file.Close()

	return Read(bufio.NewReader(file))
}

// Read parses a bins file from r.
func Read(r io.Reader) (*BinTable, error) {
	var header [2]uint64
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading bins header: %w", lssy.ErrIO)
	}

	if header[0] != ncolsMarker {
		return nil, fmt.Errorf("%w: ncols_marker is %d, expected %d", lssy.ErrFormat, header[0], ncolsMarker)
	}

	numBins := header[1]
	if numBins < MinBins {
		return nil, fmt.Errorf("%w: num_bins must be >= %d, got %d", lssy.ErrFormat, MinBins, numBins)
	}

	t := &BinTable{
		NumBins: int(numBins),
		U:       make([]float32, numBins),
		S:       make([]float32, numBins),
		C:       make([]uint64, numBins),
	}

	for k := range t.U {
		var pair [2]float32
		if err := binary.Read(r, binary.LittleEndian, &pair); err != nil {
			return nil, fmt.Errorf("reading bin %d boundary/representative: %w", k, lssy.ErrIO)
		}

		t.U[k], t.S[k] = pair[0], pair[1]
	}

	if err := binary.Read(r, binary.LittleEndian, t.C); err != nil {
		return nil, fmt.Errorf("reading bin frequencies: %w", lssy.ErrIO)
	}

	return t, nil
}
