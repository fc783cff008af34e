// Package lssy holds the types and error taxonomy shared by the quantizer,
// the arithmetic coder and the encode/decode pipeline driver.
package lssy

import (
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the number of leading bytes in an index file that are
// opaque to this system: they belong to the origin container (a FAISS
// flat index) and are copied through verbatim rather than interpreted.
const HeaderSize = 45

// Header is an opaque, fixed-length prefix copied byte-for-byte between
// the index file being compressed and the compressed/output files.
type Header [HeaderSize]byte

// ReadHeader reads HeaderSize bytes from r into a Header.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return h, fmt.Errorf("reading header: %w", errShortRead(err))
	}

	return h, nil
}

// WriteHeader writes the header to w verbatim.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := w.Write(h[:]); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	return nil
}

// Error taxonomy. Every fatal condition in this system is one of these
// four kinds; callers distinguish them with errors.Is.
var (
	// ErrArgument marks a missing or malformed CLI parameter.
	ErrArgument = errors.New("argument error")
	// ErrIO marks a short read, a failed write, or a missing file.
	ErrIO = errors.New("i/o error")
	// ErrFormat marks data that parses but violates the wire format
	// (a bad ncols_marker, num_bins < 4, and similar).
	ErrFormat = errors.New("format error")
	// ErrInvariant marks a runtime violation of a data-model invariant
	// (unsorted input, a frequency-sum mismatch, and similar).
	ErrInvariant = errors.New("invariant violation")
)

// errShortRead classifies an I/O failure as ErrIO, preserving the
// underlying error for unwrapping.
func errShortRead(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
