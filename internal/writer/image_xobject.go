package writer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/coregx/gxpdf/internal/model"
	"github.com/coregx/gxpdf/internal/registry"
)

func init() {
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
	image.RegisterFormat("tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig)
}

// ImageXObject is a registered raster image, ready to be drawn from a
// content stream via "/<name> Do" once its name is placed in a
// ResourceDictionary with AddImage.
type ImageXObject struct {
	Ref    model.Reference
	Width  int
	Height int
}

// DecodeImageXObject decodes a raster image in any format the stdlib image
// package or golang.org/x/image's bmp/tiff decoders recognize, re-encodes it
// as a DCTDecode (baseline JPEG) image XObject, and registers it in reg.
// PDF's raster-image model has no native BMP or TIFF representation, so
// both are normalized to JPEG the same way a PNG or GIF source would be.
func DecodeImageXObject(reg *registry.Registry, data []byte, quality int) (*ImageXObject, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("writer: decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("writer: encode image as JPEG: %w", err)
	}

	dict := model.NewDictionary()
	dict.Set("Type", model.Name("XObject"))
	dict.Set("Subtype", model.Name("Image"))
	dict.Set("Width", model.Int(int64(width)))
	dict.Set("Height", model.Int(int64(height)))
	dict.Set("ColorSpace", model.Name("DeviceRGB"))
	dict.Set("BitsPerComponent", model.Int(8))
	dict.Set("Filter", model.Name("DCTDecode"))

	strm := &model.Stream{Dict: dict, Data: jpegBuf.Bytes(), Encoded: true}
	ref := reg.Register(strm)

	return &ImageXObject{Ref: ref, Width: width, Height: height}, nil
}
