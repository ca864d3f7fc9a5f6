package filter

import (
	"bytes"

	"github.com/coregx/gxpdf/internal/model"
)

type runLengthFilter struct{}

// Decode implements the RunLengthDecode byte-length code: 0-127 -> copy
// next length+1 literally; 129-255 -> repeat next byte 257-length times;
// 128 terminates.
func (runLengthFilter) Decode(data []byte, _ *model.Dictionary) ([]byte, error) {
	var out bytes.Buffer
	i := 0
	for i < len(data) {
		length := int(data[i])
		i++
		switch {
		case length == 128:
			return out.Bytes(), nil
		case length < 128:
			n := length + 1
			end := i + n
			if end > len(data) {
				end = len(data)
			}
			out.Write(data[i:end])
			i = end
		default:
			if i >= len(data) {
				return out.Bytes(), nil
			}
			b := data[i]
			i++
			count := 257 - length
			for k := 0; k < count; k++ {
				out.WriteByte(b)
			}
		}
	}
	return out.Bytes(), nil
}

func (runLengthFilter) Encode(data []byte, _ *model.Dictionary) ([]byte, error) {
	var out bytes.Buffer
	i := 0
	for i < len(data) {
		// Look for a run of identical bytes (length >= 2).
		runLen := 1
		for i+runLen < len(data) && data[i+runLen] == data[i] && runLen < 128 {
			runLen++
		}
		if runLen >= 2 {
			out.WriteByte(byte(257 - runLen))
			out.WriteByte(data[i])
			i += runLen
			continue
		}

		// Accumulate a literal run until the next repeat (or 128-byte cap).
		start := i
		i++
		for i < len(data) && i-start < 128 {
			if i+1 < len(data) && data[i] == data[i+1] {
				break
			}
			i++
		}
		literal := data[start:i]
		out.WriteByte(byte(len(literal) - 1))
		out.Write(literal)
	}
	out.WriteByte(128)
	return out.Bytes(), nil
}
