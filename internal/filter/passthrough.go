package filter

import (
	"fmt"

	"github.com/coregx/gxpdf/gxerrors"
	"github.com/coregx/gxpdf/internal/model"
)

// passthroughFilter implements DCTDecode/CCITTFaxDecode: the payload is
// left as-is. Image pixel decoding is out of scope beyond JPEG
// pass-through.
type passthroughFilter struct{}

func (passthroughFilter) Decode(data []byte, _ *model.Dictionary) ([]byte, error) {
	return data, nil
}

func (passthroughFilter) Encode(data []byte, _ *model.Dictionary) ([]byte, error) {
	return data, nil
}

// jbig2Filter is a stub: decoding raises Unsupported.
type jbig2Filter struct{}

func (jbig2Filter) Decode(_ []byte, _ *model.Dictionary) ([]byte, error) {
	return nil, fmt.Errorf("%w: JBIG2Decode", gxerrors.ErrUnsupported)
}

func (jbig2Filter) Encode(_ []byte, _ *model.Dictionary) ([]byte, error) {
	return nil, fmt.Errorf("%w: JBIG2Decode", gxerrors.ErrUnsupported)
}

// cryptFilter implements Identity passthrough only; any other key name
// means encryption proper, which this package does not implement.
type cryptFilter struct{}

func (cryptFilter) Decode(data []byte, params *model.Dictionary) ([]byte, error) {
	if params != nil {
		if name, ok := params.GetName("Name"); ok && string(name) != "Identity" {
			return nil, fmt.Errorf("%w: Crypt filter %q", gxerrors.ErrUnsupported, name)
		}
	}
	return data, nil
}

func (cryptFilter) Encode(data []byte, params *model.Dictionary) ([]byte, error) {
	return cryptFilter{}.Decode(data, params)
}
