package render

import (
	"bytes"
	"testing"

	"rfcore/pkg/complexmath"
)

func TestWritePNGProducesImage(t *testing.T) {
	path := []complexmath.Complex{
		complexmath.C(0, 0),
		complexmath.C(0.2, 0.1),
		complexmath.C(-0.3, 0.4),
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, path, 8, 8); err != nil {
		t.Fatalf("WritePNG() error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("WritePNG() wrote no bytes")
	}
	// PNG signature.
	sig := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(buf.Bytes(), sig) {
		t.Fatalf("output does not start with PNG signature")
	}
}

func TestWritePNGEmptyPath(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, nil, 6, 6); err != nil {
		t.Fatalf("WritePNG() with empty path error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("WritePNG() wrote no bytes for empty path")
	}
}
