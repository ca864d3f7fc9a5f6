package forms

import (
	"strconv"
	"strings"

	"github.com/coregx/gxpdf/internal/lexer"
	"github.com/coregx/gxpdf/internal/writer"
)

// Appearance is a generated normal appearance stream for a field widget.
type Appearance struct {
	// Content is the appearance XObject's content stream bytes.
	Content []byte

	// FontName is the resource name the content stream expects to find in
	// the appearance XObject's /Resources /Font dictionary (taken from the
	// field's /DA string, e.g. "Helv").
	FontName string

	// FontSize is the font size used, auto-computed from the field rect
	// when the /DA string specifies 0 (PDF Reference 1.7 §12.7.3.3 "auto
	// size").
	FontSize float64
}

// defaultAppearanceColor holds an RGB fill color parsed from a /DA string.
type defaultAppearanceColor struct {
	r, g, b float64
}

// GenerateAppearance builds a normal appearance stream for a text field
// widget showing value, using da (the field's own /DA, or the AcroForm's
// /DA default) to pick the font and color. rect is the widget's /Rect.
//
// This only handles single-line text fields: checkbox/radio appearance
// streams come from the field's existing /AP /N dictionary of named states
// (Off/Yes/...) rather than being generated, and choice/list fields render
// the same way text fields do for their currently selected value.
func GenerateAppearance(rect [4]float64, da string, value string) (*Appearance, error) {
	fontName, fontSize, color := parseDefaultAppearance(da)

	height := rect[3] - rect[1]
	if fontSize <= 0 {
		fontSize = autoFontSize(height)
	}

	csw := writer.NewContentStreamWriter()
	csw.SaveState()
	csw.BeginText()
	csw.SetFont(fontName, fontSize)
	if color != nil {
		csw.SetFillColorRGB(color.r, color.g, color.b)
	}

	// Vertically center the baseline in the field box, left-aligned with a
	// small inset, per the common convention for single-line text widgets.
	baseline := (height-fontSize)/2 + fontSize*0.2
	if baseline < 2 {
		baseline = 2
	}
	csw.MoveTextPosition(2, baseline)
	csw.ShowText(value)
	csw.EndText()
	csw.RestoreState()

	return &Appearance{
		Content:  csw.Bytes(),
		FontName: fontName,
		FontSize: fontSize,
	}, nil
}

// parseDefaultAppearance tokenizes a /DA string ("/Helv 10 Tf 0 g" or
// "/Helv 0 Tf 0.2 0.3 0.5 rg") into its font name, size, and fill color.
// Unrecognized or malformed operators are ignored rather than erroring,
// since a missing /DA falls back to the form's defaults elsewhere.
func parseDefaultAppearance(da string) (fontName string, size float64, color *defaultAppearanceColor) {
	lx := lexer.New(strings.NewReader(da))
	var nums []float64

	for {
		tok, err := lx.NextToken()
		if err != nil || tok.Type == lexer.TokenEOF {
			break
		}

		switch tok.Type {
		case lexer.TokenName:
			fontName = tok.Value
		case lexer.TokenInteger, lexer.TokenReal:
			if n, perr := strconv.ParseFloat(tok.Value, 64); perr == nil {
				nums = append(nums, n)
			}
		case lexer.TokenKeyword:
			switch tok.Value {
			case "Tf":
				if len(nums) >= 1 {
					size = nums[len(nums)-1]
				}
				nums = nums[:0]
			case "g":
				if len(nums) >= 1 {
					gray := nums[len(nums)-1]
					color = &defaultAppearanceColor{r: gray, g: gray, b: gray}
				}
				nums = nums[:0]
			case "rg":
				if len(nums) >= 3 {
					n := len(nums)
					color = &defaultAppearanceColor{r: nums[n-3], g: nums[n-2], b: nums[n-1]}
				}
				nums = nums[:0]
			case "k":
				nums = nums[:0]
			}
		}
	}

	if fontName == "" {
		fontName = "Helv"
	}
	return fontName, size, color
}

// autoFontSize picks a font size for a /DA string specifying size 0 ("auto"),
// scaling to the field's height with a small margin.
func autoFontSize(height float64) float64 {
	size := height * 0.7
	if size < 4 {
		size = 4
	}
	if size > 12 {
		size = 12
	}
	return size
}
