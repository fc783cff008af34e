// Package pipeline wires the quantizer's bin table and the range coder
// together into the encode and decode file-processing paths described
// in SPEC_FULL.md section 4.4.
package pipeline

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/JMMackenzie/lssy"
	"github.com/JMMackenzie/lssy/quantizer"
	"github.com/JMMackenzie/lssy/rangecoder"
)

// EncodeStats summarizes one Encode run, for CLI reporting.
type EncodeStats struct {
	Floats   uint64
	BytesOut uint64
}

// EncodeFile reads the bins file at binsPath, then streams the floats
// in indexPath (a header followed by raw binary32 values) to
// compressedPath as: the header, copied verbatim, followed by the
// range-coded bin-identifier stream.
func EncodeFile(binsPath, indexPath, compressedPath string) (EncodeStats, error) {
	table, err := quantizer.ReadFile(binsPath)
	if err != nil {
		return EncodeStats{}, err
	}

	in, err := os.Open(indexPath) //nolint:gosec // CLI tool opens a user-specified index file.
	if err != nil {
		return EncodeStats{}, fmt.Errorf("opening %s: %w", indexPath, lssy.ErrIO)
	}
	defer in.Close()

	out, err := os.Create(compressedPath) //nolint:gosec // CLI tool creates a user-specified output file.
	if err != nil {
		return EncodeStats{}, fmt.Errorf("creating %s: %w", compressedPath, lssy.ErrIO)
	}
	defer out.Close()

	stats, err := Encode(table, bufio.NewReader(in), bufio.NewWriter(out))
	if err != nil {
		return stats, err
	}

	if err := out.Sync(); err != nil {
		return stats, fmt.Errorf("syncing %s: %w", compressedPath, lssy.ErrIO)
	}

	return stats, nil
}

// Encode drives the coder over the float stream read from r, writing
// the header and compressed bytes to w. r must start with a
// lssy.HeaderSize-byte opaque header followed by raw little-endian
// binary32 values.
func Encode(table *quantizer.BinTable, r io.Reader, w io.Writer) (EncodeStats, error) {
	cum := table.Cumulative()
	if cum[len(cum)-1] > rangecoder.MaxTotal {
		return EncodeStats{}, fmt.Errorf("%w: bin table total %d exceeds coder precision budget %d",
			lssy.ErrInvariant, cum[len(cum)-1], rangecoder.MaxTotal)
	}

	header, err := lssy.ReadHeader(r)
	if err != nil {
		return EncodeStats{}, err
	}

	if err := lssy.WriteHeader(w, header); err != nil {
		return EncodeStats{}, err
	}

	enc := rangecoder.NewEncoder(w)

	var count uint64

	for {
		var bits uint32
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return EncodeStats{}, fmt.Errorf("reading float %d: %w", count, lssy.ErrIO)
		}

		f := math.Float32frombits(bits)
		k := quantizer.Locate(table.U, f)

		if err := enc.Encode(k, cum); err != nil {
			return EncodeStats{}, fmt.Errorf("encoding float %d: %w", count, err)
		}

		count++
	}

	if err := enc.Close(); err != nil {
		return EncodeStats{}, err
	}

	return EncodeStats{Floats: count, BytesOut: enc.BytesOut()}, nil
}

// DecodeStats summarizes one Decode run, for CLI reporting.
type DecodeStats struct {
	Floats uint64
}

// DecodeFile reads the bins file at binsPath, then reconstructs
// outputPath from compressedPath: the header, copied verbatim, followed
// by one binary32 representative value per decoded symbol. The number
// of symbols decoded is the bin table's total frequency, the out-of-band
// metadata this system uses to terminate decoding (SPEC_FULL.md 4.3).
func DecodeFile(binsPath, compressedPath, outputPath string) (DecodeStats, error) {
	table, err := quantizer.ReadFile(binsPath)
	if err != nil {
		return DecodeStats{}, err
	}

	in, err := os.Open(compressedPath) //nolint:gosec // CLI tool opens a user-specified compressed file.
	if err != nil {
		return DecodeStats{}, fmt.Errorf("opening %s: %w", compressedPath, lssy.ErrIO)
	}
	defer in.Close()

	out, err := os.Create(outputPath) //nolint:gosec // CLI tool creates a user-specified output file.
	if err != nil {
		return DecodeStats{}, fmt.Errorf("creating %s: %w", outputPath, lssy.ErrIO)
	}
	defer out.Close()

	bufOut := bufio.NewWriter(out)

	stats, err := Decode(table, bufio.NewReader(in), bufOut)
	if err != nil {
		return stats, err
	}

	if err := bufOut.Flush(); err != nil {
		return stats, fmt.Errorf("flushing %s: %w", outputPath, lssy.ErrIO)
	}

	if err := out.Sync(); err != nil {
		return stats, fmt.Errorf("syncing %s: %w", outputPath, lssy.ErrIO)
	}

	return stats, nil
}

// Decode drives the decoder over the compressed stream read from r,
// writing the header and table.Total() reconstructed floats to w.
func Decode(table *quantizer.BinTable, r io.Reader, w io.Writer) (DecodeStats, error) {
	cum := table.Cumulative()
	if cum[len(cum)-1] > rangecoder.MaxTotal {
		return DecodeStats{}, fmt.Errorf("%w: bin table total %d exceeds coder precision budget %d",
			lssy.ErrInvariant, cum[len(cum)-1], rangecoder.MaxTotal)
	}

	header, err := lssy.ReadHeader(r)
	if err != nil {
		return DecodeStats{}, err
	}

	if err := lssy.WriteHeader(w, header); err != nil {
		return DecodeStats{}, err
	}

	dec, err := rangecoder.NewDecoder(r)
	if err != nil {
		return DecodeStats{}, err
	}

	total := table.Total()

	for i := uint64(0); i < total; i++ {
		k, err := dec.Decode(cum)
		if err != nil {
			return DecodeStats{}, fmt.Errorf("decoding symbol %d: %w", i, err)
		}

		if err := binary.Write(w, binary.LittleEndian, table.S[k]); err != nil {
			return DecodeStats{}, fmt.Errorf("writing float %d: %w", i, lssy.ErrIO)
		}
	}

	return DecodeStats{Floats: total}, nil
}
