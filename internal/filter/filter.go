// Package filter implements the stream filter pipeline: FlateDecode (with
// PNG predictor and sync-flush recovery), ASCII85, RunLength, ASCIIHex,
// LZW, DCT/CCITT pass-through, and the Crypt-Identity placeholder.
package filter

import (
	"fmt"

	"github.com/coregx/gxpdf/gxerrors"
	"github.com/coregx/gxpdf/internal/model"
)

// Filter decodes and encodes one named codec.
type Filter interface {
	Decode(data []byte, params *model.Dictionary) ([]byte, error)
	Encode(data []byte, params *model.Dictionary) ([]byte, error)
}

var registry = map[string]Filter{
	"FlateDecode":    flateFilter{},
	"Fl":             flateFilter{},
	"ASCII85Decode":  ascii85Filter{},
	"A85":            ascii85Filter{},
	"RunLengthDecode": runLengthFilter{},
	"RL":             runLengthFilter{},
	"ASCIIHexDecode": asciiHexFilter{},
	"AHx":            asciiHexFilter{},
	"LZWDecode":      lzwFilter{},
	"LZW":            lzwFilter{},
	"DCTDecode":      passthroughFilter{},
	"DCT":            passthroughFilter{},
	"CCITTFaxDecode": passthroughFilter{},
	"CCF":            passthroughFilter{},
	"JBIG2Decode":    jbig2Filter{},
	"Crypt":          cryptFilter{},
}

// Lookup returns the filter implementation for name, if known.
func Lookup(name string) (Filter, bool) {
	f, ok := registry[name]
	return f, ok
}

// namesAndParams normalizes a stream's /Filter + /DecodeParms into parallel
// slices, handling both the single-name and ordered-array forms.
func namesAndParams(dict *model.Dictionary) ([]string, []*model.Dictionary) {
	var names []string
	var params []*model.Dictionary

	filterVal, ok := dict.Get("Filter")
	if !ok {
		return nil, nil
	}

	switch v := filterVal.(type) {
	case model.Name:
		names = []string{string(v)}
	case model.Array:
		for _, item := range v {
			if n, ok := item.(model.Name); ok {
				names = append(names, string(n))
			}
		}
	}

	paramsVal, hasParams := dict.Get("DecodeParms")
	if !hasParams {
		paramsVal, hasParams = dict.Get("DP")
	}
	params = make([]*model.Dictionary, len(names))
	if hasParams {
		switch v := paramsVal.(type) {
		case *model.Dictionary:
			if len(names) > 0 {
				params[0] = v
			}
		case model.Array:
			for i := range names {
				if i < len(v) {
					if d, ok := v[i].(*model.Dictionary); ok {
						params[i] = d
					}
				}
			}
		}
	}
	return names, params
}

// DecodeStream applies every filter named on strm's dict in order.
// JBIG2 and non-Identity Crypt raise gxerrors.ErrUnsupported; FlateDecode
// failures return whatever partial bytes the recovery path produced, and a
// non-fatal warning is the caller's responsibility to record (this function
// itself never silently drops an error).
func DecodeStream(strm *model.Stream) ([]byte, error) {
	names, params := namesAndParams(strm.Dict)
	data := strm.Data
	for i, name := range names {
		f, ok := Lookup(name)
		if !ok {
			return data, fmt.Errorf("%w: %s", gxerrors.ErrUnknownFilter, name)
		}
		var p *model.Dictionary
		if i < len(params) {
			p = params[i]
		}
		decoded, err := f.Decode(data, p)
		if err != nil {
			return decoded, err
		}
		data = decoded
	}
	return data, nil
}

// EncodeStream applies filters in reverse order (encode mirrors decode).
func EncodeStream(data []byte, names []string, params []*model.Dictionary) ([]byte, error) {
	for i := len(names) - 1; i >= 0; i-- {
		f, ok := Lookup(names[i])
		if !ok {
			return data, fmt.Errorf("%w: %s", gxerrors.ErrUnknownFilter, names[i])
		}
		var p *model.Dictionary
		if i < len(params) {
			p = params[i]
		}
		encoded, err := f.Encode(data, p)
		if err != nil {
			return data, err
		}
		data = encoded
	}
	return data, nil
}
