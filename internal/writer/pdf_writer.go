package writer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coregx/gxpdf/internal/document"
)

// PdfWriter writes PDF documents to files.
//
// It manages object numbering, cross-reference tables, and file structure
// for a full (non-incremental) save of a document.Document.
//
// Example:
//
//	doc := document.NewDocument(document.V17)
//	doc.AddPage(document.A4)
//
//	writer, err := NewPdfWriter("output.pdf")
//	if err != nil {
//	    return err
//	}
//	defer writer.Close()
//
//	err = writer.Write(doc)
type PdfWriter struct {
	file        *os.File        // Output file (nil for io.Writer mode)
	writer      *bufio.Writer   // Buffered writer
	countWriter *countingWriter // Tracks bytes written (for io.Writer mode)
	objects     []*IndirectObject
	offsets     map[int]int64
	nextObjNum  int
	closed      bool
}

// countingWriter wraps an io.Writer and tracks bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// NewPdfWriter creates a new PDF writer for the specified file path.
//
// The file will be created or truncated if it already exists.
func NewPdfWriter(path string) (*PdfWriter, error) {
	file, err := os.Create(path) //nolint:gosec // path is caller-provided, not web input.
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &PdfWriter{
		file:       file,
		writer:     bufio.NewWriter(file),
		objects:    make([]*IndirectObject, 0),
		offsets:    make(map[int]int64),
		nextObjNum: 1, // Object numbering starts at 1
	}, nil
}

// NewPdfWriterFromWriter creates a new PDF writer for an io.Writer.
//
// This is useful for writing PDFs to memory buffers, HTTP responses, or any
// other io.Writer implementation. Unlike NewPdfWriter, this does not create
// a file.
func NewPdfWriterFromWriter(w io.Writer) *PdfWriter {
	cw := &countingWriter{w: w}
	return &PdfWriter{
		countWriter: cw,
		writer:      bufio.NewWriter(cw),
		objects:     make([]*IndirectObject, 0),
		offsets:     make(map[int]int64),
		nextObjNum:  1,
	}
}

// Write writes a document to the PDF file.
//
// This performs, in order: header, page tree (and catalog), cross-reference
// table, trailer.
func (w *PdfWriter) Write(doc *document.Document) error {
	return w.write(doc, func() ([]*IndirectObject, int, error) {
		return w.createPageTree(doc)
	})
}

// WriteWithPageContent writes a document with page-level text content.
func (w *PdfWriter) WriteWithPageContent(doc *document.Document, pageContents map[int][]TextOp) error {
	return w.write(doc, func() ([]*IndirectObject, int, error) {
		return w.createPageTreeWithContent(doc, pageContents)
	})
}

// WriteWithAllContent writes a document with text and graphics content.
func (w *PdfWriter) WriteWithAllContent(
	doc *document.Document,
	textContents map[int][]TextOp,
	graphicsContents map[int][]GraphicsOp,
) error {
	return w.write(doc, func() ([]*IndirectObject, int, error) {
		return w.createPageTreeWithAllContent(doc, textContents, graphicsContents)
	})
}

// write runs the shared header/body/xref/trailer sequence, delegating page
// tree construction to buildPages since that's the only part that varies
// between the three Write* entry points.
func (w *PdfWriter) write(doc *document.Document, buildPages func() ([]*IndirectObject, int, error)) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("document validation failed: %w", err)
	}

	w.objects = make([]*IndirectObject, 0)
	w.offsets = make(map[int]int64)
	w.nextObjNum = 1

	if err := w.writeHeader(doc.Version().String()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	pagesObjs, pagesRootRef, err := buildPages()
	if err != nil {
		return fmt.Errorf("failed to create page tree: %w", err)
	}
	w.objects = append(w.objects, pagesObjs...)

	catalogRef := w.allocateObjNum()
	w.objects = append([]*IndirectObject{w.createCatalog(catalogRef, pagesRootRef, doc)}, w.objects...)

	var infoObj *IndirectObject
	var infoRef int
	if doc.Title() != "" || doc.Author() != "" || doc.Subject() != "" || doc.Creator() != "" || doc.Producer() != "" {
		infoRef = w.allocateObjNum()
		infoObj = w.createInfo(infoRef, doc)
		w.objects = append(w.objects, infoObj)
	}

	for _, obj := range w.objects {
		pos, err := w.getCurrentOffset()
		if err != nil {
			return fmt.Errorf("failed to get file position: %w", err)
		}
		w.offsets[obj.Number] = pos
		if _, err := obj.WriteTo(w.writer); err != nil {
			return fmt.Errorf("failed to write object %d: %w", obj.Number, err)
		}
	}

	xrefOffset, err := w.writeXRef()
	if err != nil {
		return fmt.Errorf("failed to write xref: %w", err)
	}

	size := w.nextObjNum
	if err := w.writeTrailer(catalogRef, infoRef, size, xrefOffset); err != nil {
		return fmt.Errorf("failed to write trailer: %w", err)
	}

	return w.writer.Flush()
}

// Close closes the writer and the underlying file. Safe to call more than
// once.
func (w *PdfWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Flush(); err != nil {
		if w.file != nil {
			_ = w.file.Close()
		}
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

// getCurrentOffset returns the current byte offset in the output. For file
// mode it uses Seek; for io.Writer mode it uses the counting writer.
func (w *PdfWriter) getCurrentOffset() (int64, error) {
	if err := w.writer.Flush(); err != nil {
		return 0, err
	}

	if w.file != nil {
		return w.file.Seek(0, io.SeekCurrent)
	}
	if w.countWriter != nil {
		return w.countWriter.n, nil
	}
	return 0, fmt.Errorf("no file or counting writer available")
}

// writeHeader writes the PDF header with version and binary marker.
func (w *PdfWriter) writeHeader(version string) error {
	header := fmt.Sprintf("%%PDF-%s\n", version)
	if _, err := w.writer.WriteString(header); err != nil {
		return fmt.Errorf("failed to write PDF header: %w", err)
	}

	// Binary marker with bytes > 127, forcing FTP/mail gateways to treat the
	// file as binary (PDF Reference 1.7, Section 7.5.2).
	binaryMarker := []byte{0x25, 0xE2, 0xE3, 0xCF, 0xD3, 0x0A}
	if _, err := w.writer.Write(binaryMarker); err != nil {
		return fmt.Errorf("failed to write binary marker: %w", err)
	}
	return nil
}

// writeXRef writes a classic cross-reference table and returns its offset.
func (w *PdfWriter) writeXRef() (int64, error) {
	xrefOffset, err := w.getCurrentOffset()
	if err != nil {
		return 0, fmt.Errorf("failed to get file position: %w", err)
	}

	if _, err := w.writer.WriteString("xref\n"); err != nil {
		return 0, fmt.Errorf("failed to write xref header: %w", err)
	}

	subsectionHeader := fmt.Sprintf("0 %d\n", w.nextObjNum)
	if _, err := w.writer.WriteString(subsectionHeader); err != nil {
		return 0, fmt.Errorf("failed to write subsection header: %w", err)
	}

	if _, err := w.writer.WriteString("0000000000 65535 f \n"); err != nil {
		return 0, fmt.Errorf("failed to write object 0 entry: %w", err)
	}

	for i := 1; i < w.nextObjNum; i++ {
		offset, exists := w.offsets[i]
		if !exists {
			return 0, fmt.Errorf("missing offset for object %d", i)
		}
		entry := fmt.Sprintf("%010d %05d n \n", offset, 0)
		if _, err := w.writer.WriteString(entry); err != nil {
			return 0, fmt.Errorf("failed to write xref entry for object %d: %w", i, err)
		}
	}

	return xrefOffset, nil
}

// writeTrailer writes the PDF trailer dictionary, startxref, and EOF marker.
func (w *PdfWriter) writeTrailer(catalogRef, infoRef, size int, xrefOffset int64) error {
	if _, err := w.writer.WriteString("trailer\n"); err != nil {
		return fmt.Errorf("failed to write trailer keyword: %w", err)
	}

	var trailerDict bytes.Buffer
	trailerDict.WriteString("<<")
	fmt.Fprintf(&trailerDict, " /Size %d", size)
	fmt.Fprintf(&trailerDict, " /Root %d 0 R", catalogRef)
	if infoRef != 0 {
		fmt.Fprintf(&trailerDict, " /Info %d 0 R", infoRef)
	}
	trailerDict.WriteString(" >>")

	if _, err := w.writer.WriteString(trailerDict.String()); err != nil {
		return fmt.Errorf("failed to write trailer dictionary: %w", err)
	}
	if _, err := w.writer.WriteString("\nstartxref\n"); err != nil {
		return err
	}
	if _, err := w.writer.WriteString(fmt.Sprintf("%d\n", xrefOffset)); err != nil {
		return fmt.Errorf("failed to write xref offset: %w", err)
	}
	if _, err := w.writer.WriteString("%%EOF\n"); err != nil {
		return fmt.Errorf("failed to write EOF marker: %w", err)
	}
	return nil
}

// allocateObjNum allocates and returns the next object number.
func (w *PdfWriter) allocateObjNum() int {
	num := w.nextObjNum
	w.nextObjNum++
	return num
}

// createCatalog builds the document catalog (/Type /Catalog), the single
// required root object every trailer's /Root must reference.
func (w *PdfWriter) createCatalog(objNum, pagesRootRef int, doc *document.Document) *IndirectObject {
	var cat bytes.Buffer
	cat.WriteString("<<")
	cat.WriteString(" /Type /Catalog")
	fmt.Fprintf(&cat, " /Pages %d 0 R", pagesRootRef)
	cat.WriteString(" >>")
	return NewIndirectObject(objNum, 0, cat.Bytes())
}

// createInfo creates the document information dictionary.
func (w *PdfWriter) createInfo(objNum int, doc *document.Document) *IndirectObject {
	var info bytes.Buffer
	info.WriteString("<<")

	if doc.Title() != "" {
		fmt.Fprintf(&info, " /Title (%s)", EscapePDFString(doc.Title()))
	}
	if doc.Author() != "" {
		fmt.Fprintf(&info, " /Author (%s)", EscapePDFString(doc.Author()))
	}
	if doc.Subject() != "" {
		fmt.Fprintf(&info, " /Subject (%s)", EscapePDFString(doc.Subject()))
	}
	if doc.Keywords() != "" {
		fmt.Fprintf(&info, " /Keywords (%s)", EscapePDFString(doc.Keywords()))
	}
	if doc.Creator() != "" {
		fmt.Fprintf(&info, " /Creator (%s)", EscapePDFString(doc.Creator()))
	}
	if doc.Producer() != "" {
		fmt.Fprintf(&info, " /Producer (%s)", EscapePDFString(doc.Producer()))
	}

	fmt.Fprintf(&info, " /CreationDate (%s)", formatPDFDate(doc.CreationDate()))
	fmt.Fprintf(&info, " /ModDate (%s)", formatPDFDate(doc.ModificationDate()))

	info.WriteString(" >>")
	return NewIndirectObject(objNum, 0, info.Bytes())
}

// formatPDFDate formats a time.Time as a PDF date string: D:YYYYMMDDHHmmSSOHH'mm'.
func formatPDFDate(t time.Time) string {
	_, offset := t.Zone()
	offsetHours := offset / 3600
	offsetMinutes := (offset % 3600) / 60

	sign := "+"
	if offset < 0 {
		sign = "-"
		offsetHours = -offsetHours
		offsetMinutes = -offsetMinutes
	}

	return fmt.Sprintf("D:%04d%02d%02d%02d%02d%02d%s%02d'%02d'",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		sign, offsetHours, offsetMinutes)
}
