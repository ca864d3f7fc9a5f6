package writer

import (
	"bytes"
	"compress/zlib"
	"fmt"
)

// CompressionLevel selects the zlib compression effort used when flattening
// a content stream or object stream to bytes.
type CompressionLevel int

const (
	// NoCompression writes the stream uncompressed (no /Filter entry).
	NoCompression CompressionLevel = iota
	// BestSpeed favors encoding speed over output size.
	BestSpeed
	// DefaultCompression is the default tradeoff, used unless overridden.
	DefaultCompression
	// BestCompression favors output size over encoding speed.
	BestCompression
)

func (l CompressionLevel) zlibLevel() int {
	switch l {
	case BestSpeed:
		return zlib.BestSpeed
	case BestCompression:
		return zlib.BestCompression
	case DefaultCompression:
		return zlib.DefaultCompression
	default:
		return zlib.DefaultCompression
	}
}

// CompressStream flate/zlib-compresses data at the given level. Callers pass
// NoCompression to this function only by mistake — check IsCompressed (or
// the level itself) before calling, since this always produces zlib output.
func CompressStream(data []byte, level CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level.zlibLevel())
	if err != nil {
		return nil, fmt.Errorf("compress stream: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress stream: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress stream: %w", err)
	}
	return buf.Bytes(), nil
}

// ShouldCompress reports whether a content stream is worth flate-encoding.
// Very small streams often end up larger once compressed, once the zlib
// header and checksum overhead are counted, so callers skip the filter below
// this threshold.
func ShouldCompress(data []byte) bool {
	return len(data) >= 64
}
