package writer

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"
)

func TestCompressStream(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")

	compressed, err := CompressStream(data, DefaultCompression)
	if err != nil {
		t.Fatalf("CompressStream() error = %v", err)
	}

	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("zlib.NewReader() error = %v", err)
	}
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading decompressed data: %v", err)
	}

	if !bytes.Equal(decoded, data) {
		t.Errorf("round trip mismatch: got %q, want %q", decoded, data)
	}
}

func TestCompressStreamLevels(t *testing.T) {
	data := bytes.Repeat([]byte("ABCD"), 50)

	for _, level := range []CompressionLevel{NoCompression, BestSpeed, DefaultCompression, BestCompression} {
		if _, err := CompressStream(data, level); err != nil {
			t.Errorf("CompressStream() with level %v error = %v", level, err)
		}
	}
}

func TestShouldCompress(t *testing.T) {
	tests := []struct {
		name string
		size int
		want bool
	}{
		{"empty", 0, false},
		{"just under threshold", 63, false},
		{"at threshold", 64, true},
		{"well over threshold", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.size)
			if got := ShouldCompress(data); got != tt.want {
				t.Errorf("ShouldCompress(len=%d) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}
