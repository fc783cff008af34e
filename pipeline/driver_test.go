package pipeline_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/JMMackenzie/lssy"
	"github.com/JMMackenzie/lssy/pipeline"
	"github.com/JMMackenzie/lssy/quantizer"
)

func header(b byte) lssy.Header {
	var h lssy.Header
	for i := range h {
		h[i] = b
	}

	return h
}

func writeFloats(t *testing.T, buf *bytes.Buffer, h lssy.Header, values []float32) {
	t.Helper()

	if err := lssy.WriteHeader(buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	for _, v := range values {
		if err := binary.Write(buf, binary.LittleEndian, math.Float32bits(v)); err != nil {
			t.Fatalf("writing float: %v", err)
		}
	}
}

// Round-trip through the bin identifier: encode(f) then decode must
// yield S[locate(f)], not f itself.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := make([]float32, 2000)
	for i := range f {
		f[i] = float32(i) / 11.0
	}

	table, err := quantizer.Build(quantizer.FR, 32, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	h := header(0xAB)

	var input bytes.Buffer

	writeFloats(t, &input, h, f)

	var compressed bytes.Buffer

	encStats, err := pipeline.Encode(table, &input, &compressed)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if encStats.Floats != uint64(len(f)) {
		t.Fatalf("encoded %d floats, want %d", encStats.Floats, len(f))
	}

	if compressed.Len() < lssy.HeaderSize+7 {
		t.Fatalf("compressed length %d < HEADER+BBYTES", compressed.Len())
	}

	var output bytes.Buffer

	decStats, err := pipeline.Decode(table, bytes.NewReader(compressed.Bytes()), &output)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decStats.Floats != table.Total() {
		t.Fatalf("decoded %d floats, want %d", decStats.Floats, table.Total())
	}

	outBytes := output.Bytes()

	gotHeader := outBytes[:lssy.HeaderSize]
	for i, b := range gotHeader {
		if b != h[i] {
			t.Fatalf("output header[%d] = %x, want %x", i, b, h[i])
		}
	}

	rest := bytes.NewReader(outBytes[lssy.HeaderSize:])

	for i, orig := range f {
		var bits uint32
		if err := binary.Read(rest, binary.LittleEndian, &bits); err != nil {
			t.Fatalf("reading reconstructed float %d: %v", i, err)
		}

		got := math.Float32frombits(bits)
		k := quantizer.Locate(table.U, orig)
		want := table.S[k]

		if got != want {
			t.Fatalf("float %d: got %v, want %v (bin %d)", i, got, want, k)
		}
	}
}

// Idempotence: re-encoding the S-stream with the same bins produces the
// same bin-identifier stream, and hence the same compressed output.
func TestReencodingRepresentativesIsIdempotent(t *testing.T) {
	f := make([]float32, 500)
	for i := range f {
		f[i] = float32(i)
	}

	table, err := quantizer.Build(quantizer.FD, 10, f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	h := header(0x01)

	var firstIn bytes.Buffer

	writeFloats(t, &firstIn, h, f)

	var firstCompressed bytes.Buffer
	if _, err := pipeline.Encode(table, &firstIn, &firstCompressed); err != nil {
		t.Fatalf("first Encode: %v", err)
	}

	var decoded bytes.Buffer
	if _, err := pipeline.Decode(table, bytes.NewReader(firstCompressed.Bytes()), &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	representatives := make([]float32, table.Total())

	r := bytes.NewReader(decoded.Bytes()[lssy.HeaderSize:])
	for i := range representatives {
		var bits uint32
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			t.Fatalf("reading representative %d: %v", i, err)
		}

		representatives[i] = math.Float32frombits(bits)
	}

	var secondIn bytes.Buffer

	writeFloats(t, &secondIn, h, representatives)

	var secondCompressed bytes.Buffer
	if _, err := pipeline.Encode(table, &secondIn, &secondCompressed); err != nil {
		t.Fatalf("second Encode: %v", err)
	}

	if !bytes.Equal(firstCompressed.Bytes(), secondCompressed.Bytes()) {
		t.Fatal("re-encoding the representative stream produced different compressed output")
	}
}
