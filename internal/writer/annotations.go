package writer

import (
	"bytes"
	"fmt"

	"github.com/coregx/gxpdf/internal/document"
)

// WriteAllAnnotations creates an indirect object for each of the page's
// annotations and returns them alongside their object numbers, in page
// order, for the caller to splice into the page's /Annots array.
func (w *PdfWriter) WriteAllAnnotations(page *document.Page) ([]*IndirectObject, []int, error) {
	annots := page.Annotations()
	objs := make([]*IndirectObject, 0, len(annots))
	refs := make([]int, 0, len(annots))

	for _, a := range annots {
		objNum := w.allocateObjNum()
		objs = append(objs, writeAnnotation(objNum, a))
		refs = append(refs, objNum)
	}

	return objs, refs, nil
}

// writeAnnotation renders a single annotation dictionary.
//
// Format:
//
//	<< /Type /Annot /Subtype /Link /Rect [llx lly urx ury] /Contents (...) ... >>
func writeAnnotation(objNum int, a document.Annotation) *IndirectObject {
	var buf bytes.Buffer
	buf.WriteString("<<")
	buf.WriteString(" /Type /Annot")
	fmt.Fprintf(&buf, " /Subtype /%s", a.Subtype)

	llx, lly := a.Rect.LowerLeft()
	urx, ury := a.Rect.UpperRight()
	fmt.Fprintf(&buf, " /Rect [%.2f %.2f %.2f %.2f]", llx, lly, urx, ury)

	if a.Contents != "" {
		fmt.Fprintf(&buf, " /Contents (%s)", EscapePDFString(a.Contents))
	}

	for name, value := range a.Extra {
		fmt.Fprintf(&buf, " /%s %s", name, value)
	}

	buf.WriteString(" >>")
	return NewIndirectObject(objNum, 0, buf.Bytes())
}
