package rangecoder_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/JMMackenzie/lssy/rangecoder"
)

func cumulative(c []uint64) []uint64 {
	cum := make([]uint64, len(c))

	var running uint64
	for i, v := range c {
		running += v
		cum[i] = running
	}

	return cum
}

// Scenario 5: a short literal sequence against a uniform alphabet.
func TestRoundTripLiteralSequence(t *testing.T) {
	cum := cumulative([]uint64{3, 3, 3})
	symbols := []int{0, 1, 2, 2, 2, 1, 0}

	var buf bytes.Buffer

	enc := rangecoder.NewEncoder(&buf)
	for _, s := range symbols {
		if err := enc.Encode(s, cum); err != nil {
			t.Fatalf("Encode(%d): %v", s, err)
		}
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if buf.Len() < 7 {
		t.Fatalf("compressed length = %d, want >= 7 (BBYTES)", buf.Len())
	}

	dec, err := rangecoder.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	for i, want := range symbols {
		got, err := dec.Decode(cum)
		if err != nil {
			t.Fatalf("Decode[%d]: %v", i, err)
		}

		if got != want {
			t.Fatalf("Decode[%d] = %d, want %d", i, got, want)
		}
	}
}

// Scenario 6 (scaled down from 10^6 for test runtime): a random symbol
// sequence drawn from a 256-symbol Zipf-distributed alphabet must round
// trip exactly.
func TestRoundTripZipfStress(t *testing.T) {
	const (
		alphabet = 256
		numSyms  = 20000
	)

	freq := make([]uint64, alphabet)
	for i := range freq {
		freq[i] = uint64(alphabet / (i + 1))
	}

	cum := cumulative(freq)

	rng := rand.New(rand.NewSource(1))

	symbols := make([]int, numSyms)
	for i := range symbols {
		symbols[i] = weightedPick(rng, freq, cum)
	}

	var buf bytes.Buffer

	enc := rangecoder.NewEncoder(&buf)
	for _, s := range symbols {
		if err := enc.Encode(s, cum); err != nil {
			t.Fatalf("Encode(%d): %v", s, err)
		}
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec, err := rangecoder.NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	for i, want := range symbols {
		got, err := dec.Decode(cum)
		if err != nil {
			t.Fatalf("Decode[%d]: %v", i, err)
		}

		if got != want {
			t.Fatalf("Decode[%d] = %d, want %d", i, got, want)
		}
	}
}

func weightedPick(rng *rand.Rand, freq, cum []uint64) int {
	total := cum[len(cum)-1]
	target := uint64(rng.Int63n(int64(total)))

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
