package rangecoder

import (
	"bufio"
	"fmt"
	"io"

	"github.com/JMMackenzie/lssy"
)

// Encoder is a stateful byte-oriented range encoder. Its state is owned
// exclusively by the Encoder value, created fresh for each file: there
// is no process-wide state.
type Encoder struct {
	w io.Writer

	l uint64 // lower bound; may briefly exceed full before a carry is resolved.
	r uint64 // current range width.

	lastNonFF byte   // most recently staged byte still held for a possible carry.
	numFF     uint32 // length of the pending run of 0xFF bytes.
	first     bool   // true until the first non-FF byte has been staged.

	bytesOut uint64
	werr     error
}

// NewEncoder creates an encoder writing to w. L = 0, R = full.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, r: full, first: true}
}

// BytesOut returns the number of bytes written so far.
func (e *Encoder) BytesOut() uint64 {
	return e.bytesOut
}

// Encode encodes symbol against the cumulative frequency table cum,
// where cum[k] = sum of c[0..k] and total = cum[len(cum)-1]. Precondition:
// R > total, which holds for every call as long as total <= MaxTotal.
func (e *Encoder) Encode(symbol int, cum []uint64) error {
	total := cum[len(cum)-1]
	if total > MaxTotal {
		return fmt.Errorf("%w: cumulative total %d exceeds coder precision budget %d",
			lssy.ErrInvariant, total, MaxTotal)
	}

	if e.r <= total {
		return fmt.Errorf("%w: range coder precondition violated (R=%d <= total=%d)",
			lssy.ErrInvariant, e.r, total)
	}

	var low uint64
	if symbol > 0 {
		low = cum[symbol-1]
	}

	high := cum[symbol]

	scale := e.r / total
	e.l += low * scale

	if high < total {
		e.r = (high - low) * scale
	} else {
		// Top symbol absorbs rounding slack so no range is wasted.
		e.r -= low * scale
	}

	e.carry()
	e.normalize()

	return e.werr
}

// carry resolves an overflow of L past full by incrementing the single
// held byte: the increment propagates as a carry through the pending
// 0xFF run, flipping each 0xFF to 0x00. The incremented byte and all but
// the last of the flipped bytes are written; the last 0x00 (or, with no
// pending run, the incremented byte itself) stays held in lastNonFF.
func (e *Encoder) carry() {
	if e.l <= full {
		return
	}

	e.lastNonFF++
	e.l &= full

	for e.numFF > 0 {
		e.writeByte(e.lastNonFF)
		e.numFF--
		e.lastNonFF = 0
	}
}

// normalize shifts bytes out of L (and R) while R remains below part,
// restoring working precision. No byte is emitted until one further
// byte has been staged behind it; only non-FF bytes ever occupy
// lastNonFF.
func (e *Encoder) normalize() {
	for e.r < part {
		b := byte(e.l >> (bbits - 8))

		if b != fullByte {
			if !e.first {
				e.writeByte(e.lastNonFF)
			}

			for e.numFF > 0 {
				e.writeByte(fullByte)
				e.numFF--
			}

			e.lastNonFF = b
			e.first = false
		} else {
			e.numFF++
		}

		e.l = (e.l << 8) & full
		e.r <<= 8
	}
}

// Close flushes the staged byte, any pending 0xFF run, and finally the
// bbytes bytes of L (most-significant byte first). After Close the
// encoder must not be reused.
func (e *Encoder) Close() error {
	if !e.first {
		e.writeByte(e.lastNonFF)
	}

	for e.numFF > 0 {
		e.writeByte(fullByte)
		e.numFF--
	}

	for i := bbytes - 1; i >= 0; i-- {
		e.writeByte(byte(e.l >> (8 * i)))
	}

	if e.werr != nil {
		return fmt.Errorf("closing range encoder: %w", e.werr)
	}

	if f, ok := e.w.(*bufio.Writer); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flushing range encoder: %w", lssy.ErrIO)
		}
	}

	return nil
}

func (e *Encoder) writeByte(b byte) {
	if e.werr != nil {
		return
	}

	if bw, ok := e.w.(io.ByteWriter); ok {
		e.werr = bw.WriteByte(b)
	} else {
		_, e.werr = e.w.Write([]byte{b})
	}

	if e.werr != nil {
		e.werr = fmt.Errorf("%w: %w", lssy.ErrIO, e.werr)

		return
	}

	e.bytesOut++
}
