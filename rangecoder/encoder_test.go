package rangecoder_test

import (
	"bytes"
	"testing"

	"github.com/JMMackenzie/lssy/rangecoder"
)

func TestEncodeRejectsTotalOverPrecisionBudget(t *testing.T) {
	cum := []uint64{rangecoder.MaxTotal + 1}

	var buf bytes.Buffer

	enc := rangecoder.NewEncoder(&buf)
	if err := enc.Encode(0, cum); err == nil {
		t.Fatal("expected error for total exceeding MaxTotal")
	}
}

func TestDecoderRequiresFullPrimingWindow(t *testing.T) {
	if _, err := rangecoder.NewDecoder(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Fatal("expected error priming decoder from a short stream")
	}
}

func TestEncoderCloseProducesAtLeastBbytes(t *testing.T) {
	var buf bytes.Buffer

	enc := rangecoder.NewEncoder(&buf)
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if buf.Len() != 7 {
		t.Fatalf("closing an encoder with no symbols wrote %d bytes, want 7 (BBYTES)", buf.Len())
	}
}
