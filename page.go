package gxpdf

import "github.com/coregx/gxpdf/internal/parser"

// Page is a single page within an opened Document.
//
// Page is a thin, lazy view: it re-resolves its underlying dictionary from
// the document's registry on each call rather than caching it, so edits
// made elsewhere to the document are reflected immediately.
type Page struct {
	doc   *Document
	index int
}

// Index returns the page's 0-based position in the document.
func (p *Page) Index() int {
	return p.index
}

// MediaBox returns the page's media box as [llx, lly, urx, ury]. Returns the
// US Letter default if the page (or an inherited ancestor) doesn't set one.
func (p *Page) MediaBox() [4]float64 {
	box, ok := p.rectAttr("MediaBox")
	if !ok {
		return [4]float64{0, 0, 612, 792}
	}
	return box
}

// CropBox returns the page's crop box as [llx, lly, urx, ury], and whether
// the page (or an inherited ancestor) actually defines one.
func (p *Page) CropBox() ([4]float64, bool) {
	return p.rectAttr("CropBox")
}

// Rotation returns the page's /Rotate value in degrees clockwise, 0 if unset.
func (p *Page) Rotation() int {
	dict, err := p.dict()
	if err != nil {
		return 0
	}
	rotate := p.resolveInherited(dict, "Rotate")
	if n, ok := rotate.(*parser.Integer); ok {
		return int(n.Value())
	}
	return 0
}

// dict resolves this page's PDF dictionary from the registry.
func (p *Page) dict() (*parser.Dictionary, error) {
	return p.doc.reader.GetPage(p.index)
}

// rectAttr reads a four-number array attribute (MediaBox/CropBox), walking
// up /Parent when the page itself doesn't set it, per PDF Reference 1.7
// Table 3.27's inheritable page attributes.
func (p *Page) rectAttr(name string) ([4]float64, bool) {
	var out [4]float64

	dict, err := p.dict()
	if err != nil {
		return out, false
	}

	arrObj := p.resolveInherited(dict, name)
	arr, ok := arrObj.(*parser.Array)
	if !ok || arr.Len() != 4 {
		return out, false
	}

	for i := 0; i < 4; i++ {
		n, ok := extractNumber(p.doc.reader.ResolveReferences(arr.Get(i)))
		if !ok {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

// resolveInherited looks up name on dict, walking /Parent links until found
// or the chain ends.
func (p *Page) resolveInherited(dict *parser.Dictionary, name string) parser.PdfObject {
	visited := make(map[*parser.Dictionary]bool)
	for dict != nil && !visited[dict] {
		visited[dict] = true
		if v := dict.Get(name); v != nil {
			return p.doc.reader.ResolveReferences(v)
		}
		parentObj := dict.Get("Parent")
		if parentObj == nil {
			return nil
		}
		parent, ok := p.doc.reader.ResolveReferences(parentObj).(*parser.Dictionary)
		if !ok {
			return nil
		}
		dict = parent
	}
	return nil
}

// extractNumber extracts a numeric value from a resolved PDF object.
func extractNumber(obj parser.PdfObject) (float64, bool) {
	switch v := obj.(type) {
	case *parser.Integer:
		return float64(v.Value()), true
	case *parser.Real:
		return v.Value(), true
	default:
		return 0, false
	}
}
