// Package gxpdf is a PDF engine: it loads existing PDF files, exposes their
// page tree, metadata and interactive form fields, and writes valid PDF
// files back out.
package gxpdf

import (
	"context"
	"fmt"

	"github.com/coregx/gxpdf/internal/application/forms"
	"github.com/coregx/gxpdf/internal/parser"
)

// Document represents an opened PDF document.
//
// Document provides methods for reading document properties and interactive
// form fields. It must be closed after use to release resources.
//
// Example:
//
//	doc, err := gxpdf.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	fmt.Printf("Pages: %d\n", doc.PageCount())
type Document struct {
	reader      *parser.Reader
	ctx         context.Context
	path        string
	formsWriter *forms.Writer
}

// Open loads a PDF file and returns a Document ready for reading.
//
// The returned Document must be closed with Close when no longer needed.
func Open(path string) (*Document, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext loads a PDF file the same way Open does, but ties subsequent
// operations to ctx.
func OpenContext(ctx context.Context, path string) (*Document, error) {
	reader := parser.NewReader(path)
	if err := reader.Open(); err != nil {
		return nil, fmt.Errorf("gxpdf: open %s: %w", path, err)
	}
	return &Document{reader: reader, ctx: ctx, path: path}, nil
}

// Close closes the document and releases resources.
//
// It is safe to call Close multiple times.
func (d *Document) Close() error {
	if d.reader != nil {
		return d.reader.Close()
	}
	return nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the total number of pages in the document.
func (d *Document) PageCount() int {
	count, err := d.reader.GetPageCount()
	if err != nil {
		return 0
	}
	return count
}

// Page returns the page at the given index (0-based).
//
// Returns nil if the index is out of bounds.
func (d *Document) Page(index int) *Page {
	if index < 0 || index >= d.PageCount() {
		return nil
	}
	return &Page{doc: d, index: index}
}

// Pages returns every page in document order.
//
// Example:
//
//	for _, page := range doc.Pages() {
//	    fmt.Println(page.MediaBox())
//	}
func (d *Document) Pages() []*Page {
	count := d.PageCount()
	pages := make([]*Page, count)
	for i := 0; i < count; i++ {
		pages[i] = &Page{doc: d, index: i}
	}
	return pages
}

// Info returns document metadata.
func (d *Document) Info() *DocumentInfo {
	pinfo := d.reader.GetDocumentInfo()
	return &DocumentInfo{
		PageCount: d.PageCount(),
		Path:      d.path,
		Version:   pinfo.Version,
		Title:     pinfo.Title,
		Author:    pinfo.Author,
		Subject:   pinfo.Subject,
		Keywords:  pinfo.Keywords,
		Creator:   pinfo.Creator,
		Producer:  pinfo.Producer,
		Encrypted: pinfo.Encrypted,
	}
}

// Version returns the PDF version (e.g., "1.7").
func (d *Document) Version() string {
	return d.reader.GetDocumentInfo().Version
}

// Title returns the document title.
func (d *Document) Title() string {
	return d.reader.GetDocumentInfo().Title
}

// Author returns the document author.
func (d *Document) Author() string {
	return d.reader.GetDocumentInfo().Author
}

// Subject returns the document subject.
func (d *Document) Subject() string {
	return d.reader.GetDocumentInfo().Subject
}

// Keywords returns the document keywords.
func (d *Document) Keywords() string {
	return d.reader.GetDocumentInfo().Keywords
}

// Creator returns the application that created the document.
func (d *Document) Creator() string {
	return d.reader.GetDocumentInfo().Creator
}

// Producer returns the PDF producer.
func (d *Document) Producer() string {
	return d.reader.GetDocumentInfo().Producer
}

// IsEncrypted returns true if the document is encrypted.
func (d *Document) IsEncrypted() bool {
	return d.reader.GetDocumentInfo().Encrypted
}

// DocumentInfo contains metadata about a PDF document.
type DocumentInfo struct {
	PageCount int
	Path      string
	Version   string
	Title     string
	Author    string
	Subject   string
	Keywords  string
	Creator   string
	Producer  string
	Encrypted bool
}

// FormField represents an interactive form field in the document.
//
// FormField provides read-only access to form field properties.
// Use Document methods to get and set field values.
type FormField struct {
	internal *forms.FieldInfo
}

// Name returns the fully qualified field name.
func (f *FormField) Name() string {
	return f.internal.Name
}

// Type returns the field type.
//   - "Tx" = Text field
//   - "Btn" = Button (checkbox, radio)
//   - "Ch" = Choice (dropdown, list)
//   - "Sig" = Signature
func (f *FormField) Type() string {
	return string(f.internal.Type)
}

// Value returns the current field value.
func (f *FormField) Value() interface{} {
	return f.internal.Value
}

// DefaultValue returns the field's default value.
func (f *FormField) DefaultValue() interface{} {
	return f.internal.DefaultValue
}

// Flags returns the field flags bitmask.
func (f *FormField) Flags() int {
	return f.internal.Flags
}

// Rect returns the field rectangle [x1, y1, x2, y2].
func (f *FormField) Rect() [4]float64 {
	return f.internal.Rect
}

// Options returns the available options for choice fields.
func (f *FormField) Options() []string {
	return f.internal.Options
}

// IsReadOnly returns true if the field is read-only.
func (f *FormField) IsReadOnly() bool {
	return f.internal.Flags&1 != 0
}

// IsRequired returns true if the field is required.
func (f *FormField) IsRequired() bool {
	return f.internal.Flags&2 != 0
}

// IsTextField returns true if this is a text field.
func (f *FormField) IsTextField() bool {
	return f.internal.Type == forms.FieldTypeText
}

// IsButton returns true if this is a button field (checkbox, radio).
func (f *FormField) IsButton() bool {
	return f.internal.Type == forms.FieldTypeButton
}

// IsChoice returns true if this is a choice field (dropdown, list).
func (f *FormField) IsChoice() bool {
	return f.internal.Type == forms.FieldTypeChoice
}

// GetFormFields returns all interactive form fields in the document.
//
// Returns nil if the document has no interactive form.
//
// Example:
//
//	fields, err := doc.GetFormFields()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range fields {
//	    fmt.Printf("%s (%s): %v\n", f.Name(), f.Type(), f.Value())
//	}
func (d *Document) GetFormFields() ([]*FormField, error) {
	reader := forms.NewReader(d.reader)
	internalFields, err := reader.GetFields()
	if err != nil {
		return nil, fmt.Errorf("failed to get form fields: %w", err)
	}

	if internalFields == nil {
		return nil, nil
	}

	fields := make([]*FormField, len(internalFields))
	for i, internal := range internalFields {
		fields[i] = &FormField{internal: internal}
	}

	return fields, nil
}

// GetFieldValue returns the value of a form field by name.
//
// Returns an error if the field is not found.
//
// Example:
//
//	value, err := doc.GetFieldValue("username")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Username: %v\n", value)
func (d *Document) GetFieldValue(name string) (interface{}, error) {
	reader := forms.NewReader(d.reader)
	field, err := reader.GetFieldByName(name)
	if err != nil {
		return nil, err
	}
	return field.Value, nil
}

// HasForm returns true if the document contains an interactive form.
func (d *Document) HasForm() bool {
	acroForm, err := d.reader.GetAcroForm()
	return err == nil && acroForm != nil
}
