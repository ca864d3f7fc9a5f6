package filter

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/coregx/gxpdf/internal/model"
)

type flateFilter struct{}

// syncFlushMarker is the zlib sync-flush terminator some producers emit
// instead of a final block.
var syncFlushMarker = []byte{0x00, 0x00, 0xFF, 0xFF}

func (flateFilter) Decode(data []byte, params *model.Dictionary) ([]byte, error) {
	decoded, err := inflate(data)
	if err != nil || len(decoded) == 0 {
		// Recovery path: drive an incremental raw-flate inflater and keep
		// whatever it produced before failing, handling zlib payloads that
		// terminate with a sync-flush marker instead of a final block.
		recovered, rerr := inflateRecover(data)
		if rerr != nil && len(recovered) == 0 {
			if err != nil {
				return nil, fmt.Errorf("flate: %w", err)
			}
			return nil, fmt.Errorf("flate: %w", rerr)
		}
		decoded = recovered
	}
	return applyPredictor(decoded, params)
}

func (flateFilter) Encode(data []byte, params *model.Dictionary) ([]byte, error) {
	// Predictor is meaningless on encode for this engine's purposes (the
	// serializer only ever re-encodes already-row-major content/metadata
	// streams), so encode ignores /Predictor and produces a flat zlib
	// stream.
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// inflateRecover skips the 2-byte zlib header and drives a raw DEFLATE
// reader directly, returning whatever bytes were produced before the
// stream's end (including sync-flush-terminated payloads that a strict
// zlib reader rejects outright).
func inflateRecover(data []byte) ([]byte, error) {
	body := data
	if len(data) >= 2 && data[0]&0x0F == 0x08 {
		body = data[2:]
	}
	// A sync-flush-terminated payload: feed only up through the marker if
	// present, since trailing bytes after it are not part of this stream's
	// compressed content.
	if idx := bytes.Index(body, syncFlushMarker); idx >= 0 {
		body = body[:idx]
	}
	fr := flate.NewReader(bytes.NewReader(body))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	return out, err
}
