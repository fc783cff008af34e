package rangecoder

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/JMMackenzie/lssy"
)

// Decoder is the bit-exact mirror of Encoder: same R, plus a window D
// tracking the encoded value minus the implied lower bound.
type Decoder struct {
	r io.ByteReader

	rng uint64
	d   uint64
}

// NewDecoder creates a decoder reading from r, primed with the first
// bbytes bytes (most-significant byte first) and R = full. The caller
// is responsible for having already consumed any opaque header from r.
func NewDecoder(r io.Reader) (*Decoder, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	var d uint64

	for i := 0; i < bbytes; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: priming range decoder: %w", lssy.ErrIO, err)
		}

		d = (d << 8) | uint64(b)
	}

	return &Decoder{r: br, rng: full, d: d}, nil
}

// Decode returns the next symbol relative to the cumulative frequency
// table cum. Precondition: R > total.
func (d *Decoder) Decode(cum []uint64) (int, error) {
	total := cum[len(cum)-1]
	if total > MaxTotal {
		return 0, fmt.Errorf("%w: cumulative total %d exceeds coder precision budget %d",
			lssy.ErrInvariant, total, MaxTotal)
	}

	if d.rng <= total {
		return 0, fmt.Errorf("%w: range coder precondition violated (R=%d <= total=%d)",
			lssy.ErrInvariant, d.rng, total)
	}

	scale := d.rng / total

	target := d.d / scale
	if target >= total {
		target = total - 1
	}

	v := locateSymbol(cum, target)

	var low uint64
	if v > 0 {
		low = cum[v-1]
	}

	high := cum[v]

	d.d -= low * scale

	if high < total {
		d.rng = (high - low) * scale
	} else {
		d.rng -= low * scale
	}

	if err := d.normalize(); err != nil {
		return 0, err
	}

	return v, nil
}

// normalize shifts a new byte into D (and R) while R remains below
// part. Reading past end-of-file yields zero bytes: the surplus bytes
// produced by Encoder.Close exist precisely to make this safe.
func (d *Decoder) normalize() error {
	for d.rng < part {
		b, err := d.r.ReadByte()

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			b = 0
		default:
			return fmt.Errorf("%w: reading range decoder byte: %w", lssy.ErrIO, err)
		}

		d.rng <<= 8
		d.d = ((d.d << 8) & full) + uint64(b)
	}

	return nil
}

// locateSymbol finds the unique v with cum[v-1] <= target < cum[v]
// (treating cum[-1] == 0) by binary search.
func locateSymbol(cum []uint64, target uint64) int {
	lo, hi := 0, len(cum)-1

	for lo < hi {
		mid := lo + (hi-lo)/2
		if cum[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}
