// Package rangecoder implements a byte-oriented adaptive-range
// arithmetic coder with delayed carry propagation. The encoder and
// decoder share the constants and renormalization rules on this page so
// that decoder output equals encoder input byte-for-byte; see
// SPEC_FULL.md section 4.3 for the derivation.
package rangecoder

const (
	// bbytes is the width of the coder's working precision, in bytes.
	bbytes = 7
	// bbits is the working precision, in bits (bbytes * 8).
	bbits = bbytes * 8
	// full is the largest value L or R may hold: 2^bbits - 1.
	full = (uint64(1) << bbits) - 1
	// part is the renormalization threshold: R is refilled whenever it
	// drops below this, 2^(bbits-8).
	part = uint64(1) << (bbits - 8)
	// minR is the maximum total cumulative frequency this coder
	// tolerates: 2^(bbits-15). Bins files whose total would exceed this
	// are rejected rather than risking R <= total mid-stream.
	minR = uint64(1) << (bbits - 15)
	// fullByte is the byte value (0xFF) that can never be immediately
	// flushed, since a later carry might still need to roll it to 0x00.
	fullByte = 0xFF
)

// MaxTotal is the largest cumulative frequency total this coder
// supports, exported so callers (the pipeline driver) can validate a
// bin table before coding against it.
const MaxTotal = minR
