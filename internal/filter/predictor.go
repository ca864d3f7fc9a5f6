package filter

import (
	"fmt"

	"github.com/coregx/gxpdf/internal/model"
)

// applyPredictor reverses the PNG-style per-row predictor when /Predictor > 1
// (and the TIFF predictor when /Predictor == 2).
func applyPredictor(data []byte, params *model.Dictionary) ([]byte, error) {
	if params == nil {
		return data, nil
	}
	predictor, ok := params.GetInt("Predictor")
	if !ok || predictor <= 1 {
		return data, nil
	}

	columns := int64(1)
	if c, ok := params.GetInt("Columns"); ok {
		columns = c
	}
	colors := int64(1)
	if c, ok := params.GetInt("Colors"); ok {
		colors = c
	}
	bpc := int64(8)
	if b, ok := params.GetInt("BitsPerComponent"); ok {
		bpc = b
	}

	bytesPerPixel := int((colors*bpc + 7) / 8)
	if bytesPerPixel < 1 {
		bytesPerPixel = 1
	}
	rowBytes := int((columns*colors*bpc + 7) / 8)

	if predictor == 2 {
		return applyTIFFPredictor(data, rowBytes, bytesPerPixel)
	}

	// PNG predictors (10-15): each row is prefixed with a tag byte.
	stride := rowBytes + 1
	if stride <= 0 {
		return data, nil
	}
	var out []byte
	prevRow := make([]byte, rowBytes)

	for pos := 0; pos < len(data); pos += stride {
		tag := data[pos]
		end := pos + 1 + rowBytes
		if end > len(data) {
			end = len(data)
		}
		row := make([]byte, rowBytes)
		copy(row, data[pos+1:end])

		decoded := unpredictRow(tag, row, prevRow, bytesPerPixel)
		out = append(out, decoded...)
		prevRow = decoded
	}
	return out, nil
}

const (
	pngNone = 0
	pngSub  = 1
	pngUp   = 2
	pngAvg  = 3
	pngPaeth = 4
)

func unpredictRow(tag byte, row, prevRow []byte, bpp int) []byte {
	out := make([]byte, len(row))
	for i := range row {
		var a, b, c byte
		if i >= bpp {
			a = out[i-bpp]
		}
		if prevRow != nil && i < len(prevRow) {
			b = prevRow[i]
		}
		if prevRow != nil && i >= bpp && i-bpp < len(prevRow) {
			c = prevRow[i-bpp]
		}

		var recon byte
		switch tag {
		case pngNone:
			recon = row[i]
		case pngSub:
			recon = row[i] + a
		case pngUp:
			recon = row[i] + b
		case pngAvg:
			recon = row[i] + byte((int(a)+int(b))/2)
		case pngPaeth:
			recon = row[i] + paethPredictor(a, b, c)
		default:
			recon = row[i]
		}
		out[i] = recon
	}
	return out
}

func paethPredictor(a, b, c byte) byte {
	pa := abs(int(b) - int(c))
	pb := abs(int(a) - int(c))
	pc := abs(int(a) + int(b) - 2*int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func applyTIFFPredictor(data []byte, rowBytes, bpp int) ([]byte, error) {
	if rowBytes <= 0 {
		return data, fmt.Errorf("predictor: invalid row length")
	}
	out := make([]byte, len(data))
	copy(out, data)
	for rowStart := 0; rowStart+rowBytes <= len(out); rowStart += rowBytes {
		row := out[rowStart : rowStart+rowBytes]
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	}
	return out, nil
}
