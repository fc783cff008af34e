package quantizer_test

import (
	"bytes"
	"testing"

	"github.com/JMMackenzie/lssy/quantizer"
)

func TestBinsFileRoundTrip(t *testing.T) {
	f := make([]float32, 500)
	for i := range f {
		f[i] = float32(i) / 3.0
	}

	table, err := quantizer.Build(quantizer.FD, 8, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := table.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := quantizer.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.NumBins != table.NumBins {
		t.Fatalf("NumBins = %d, want %d", got.NumBins, table.NumBins)
	}

	for k := range table.C {
		if got.C[k] != table.C[k] || got.U[k] != table.U[k] || got.S[k] != table.S[k] {
			t.Fatalf("bin %d mismatch: got (%v,%v,%v), want (%v,%v,%v)",
				k, got.U[k], got.S[k], got.C[k], table.U[k], table.S[k], table.C[k])
		}
	}
}

func TestReadRejectsBadNcolsMarker(t *testing.T) {
	var buf bytes.Buffer

	buf.Write([]byte{3, 0, 0, 0, 0, 0, 0, 0}) // ncols_marker = 3, wrong
	buf.Write([]byte{4, 0, 0, 0, 0, 0, 0, 0}) // num_bins = 4

	if _, err := quantizer.Read(&buf); err == nil {
		t.Fatal("expected format error for bad ncols_marker")
	}
}

func TestReadRejectsTooFewBins(t *testing.T) {
	var buf bytes.Buffer

	buf.Write([]byte{2, 0, 0, 0, 0, 0, 0, 0}) // ncols_marker = 2
	buf.Write([]byte{2, 0, 0, 0, 0, 0, 0, 0}) // num_bins = 2 (< MinBins)

	if _, err := quantizer.Read(&buf); err == nil {
		t.Fatal("expected format error for num_bins < 4")
	}
}
