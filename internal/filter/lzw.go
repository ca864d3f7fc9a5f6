package filter

import (
	"bytes"
	"fmt"
	"io"

	hhlzw "github.com/hhrutter/lzw"

	"github.com/coregx/gxpdf/gxerrors"
	"github.com/coregx/gxpdf/internal/model"
)

type lzwFilter struct{}

// Decode wires PDF's variable-width (9-12 bit) LZW, decode-only, to
// github.com/hhrutter/lzw, a codec that implements PDF's early-change
// semantics. Stdlib compress/lzw has no early-change support and fails to
// decode the majority of real PDF LZW streams, which is why this dependency
// is carried instead.
func (lzwFilter) Decode(data []byte, params *model.Dictionary) ([]byte, error) {
	earlyChange := 1
	if params != nil {
		if v, ok := params.GetInt("EarlyChange"); ok {
			earlyChange = int(v)
		}
	}

	r := hhlzw.NewReader(bytes.NewReader(data), earlyChange == 1)
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if err != nil {
		return decoded, fmt.Errorf("lzw decode: %w", err)
	}
	return applyPredictor(decoded, params)
}

// Encode is unimplemented; LZW-compressed output is never produced, only
// consumed, so this returns gxerrors.ErrUnsupported.
func (lzwFilter) Encode(_ []byte, _ *model.Dictionary) ([]byte, error) {
	return nil, fmt.Errorf("%w: LZW encode", gxerrors.ErrUnsupported)
}
