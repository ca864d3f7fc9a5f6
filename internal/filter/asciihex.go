package filter

import (
	"bytes"
	"fmt"

	"github.com/coregx/gxpdf/internal/model"
)

type asciiHexFilter struct{}

// Decode implements ASCIIHexDecode: whitespace-tolerant hex, '>' terminates.
func (asciiHexFilter) Decode(data []byte, _ *model.Dictionary) ([]byte, error) {
	var hex []byte
	for _, b := range data {
		if b == '>' {
			break
		}
		switch {
		case b == ' ' || b == '\n' || b == '\r' || b == '\t' || b == '\f' || b == 0:
			continue
		case (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F'):
			hex = append(hex, b)
		default:
			return nil, fmt.Errorf("asciihex: invalid character %q", b)
		}
	}
	if len(hex)%2 == 1 {
		hex = append(hex, '0')
	}
	out := make([]byte, len(hex)/2)
	for i := range out {
		var v int
		_, err := fmt.Sscanf(string(hex[i*2:i*2+2]), "%02x", &v)
		if err != nil {
			return out, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

func (asciiHexFilter) Encode(data []byte, _ *model.Dictionary) ([]byte, error) {
	var buf bytes.Buffer
	for _, b := range data {
		fmt.Fprintf(&buf, "%02X", b)
	}
	buf.WriteByte('>')
	return buf.Bytes(), nil
}
