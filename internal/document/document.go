// Package document provides the domain model the serializer (internal/writer)
// builds PDF files from: a Document holding ordered Pages, independent of how
// those pages were populated (loaded from disk, assembled by a caller, etc).
package document

import (
	"fmt"
	"time"
)

// Version is a PDF version number, e.g. 1.7.
type Version struct {
	Major int
	Minor int
}

// String formats the version as it appears in a PDF header, e.g. "1.7".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// V17 is the default version new documents are created with.
var V17 = Version{Major: 1, Minor: 7}

// Document is an in-memory PDF document being assembled for writing.
type Document struct {
	version Version
	pages   []*Page

	title    string
	author   string
	subject  string
	keywords string
	creator  string
	producer string

	creationDate     time.Time
	modificationDate time.Time
}

// NewDocument creates an empty document at the given PDF version.
func NewDocument(version Version) *Document {
	now := time.Now()
	return &Document{
		version:          version,
		pages:            make([]*Page, 0),
		creationDate:     now,
		modificationDate: now,
	}
}

// AddPage appends a new page with the given media box and returns it so the
// caller can set rotation, crop box, or annotations before writing.
func (d *Document) AddPage(mediaBox Rect) *Page {
	p := &Page{mediaBox: mediaBox}
	d.pages = append(d.pages, p)
	return p
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page at the given zero-based index.
func (d *Document) Page(index int) (*Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range (document has %d pages)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// Validate checks the document is in a writable state. A document with no
// pages produces a structurally invalid PDF (an empty /Kids array is legal
// syntax but no conforming reader can display it), so callers must add at
// least one page before writing.
func (d *Document) Validate() error {
	if len(d.pages) == 0 {
		return fmt.Errorf("document has no pages")
	}
	for i, p := range d.pages {
		if p.rotation%90 != 0 {
			return fmt.Errorf("page %d: rotation %d is not a multiple of 90", i, p.rotation)
		}
	}
	return nil
}

// Version returns the PDF version this document will be written as.
func (d *Document) Version() Version { return d.version }

// Title returns the document's Info /Title, empty if unset.
func (d *Document) Title() string { return d.title }

// SetTitle sets the document's Info /Title.
func (d *Document) SetTitle(title string) { d.title = title }

// Author returns the document's Info /Author, empty if unset.
func (d *Document) Author() string { return d.author }

// SetAuthor sets the document's Info /Author.
func (d *Document) SetAuthor(author string) { d.author = author }

// Subject returns the document's Info /Subject, empty if unset.
func (d *Document) Subject() string { return d.subject }

// SetSubject sets the document's Info /Subject.
func (d *Document) SetSubject(subject string) { d.subject = subject }

// Keywords returns the document's Info /Keywords, empty if unset.
func (d *Document) Keywords() string { return d.keywords }

// SetKeywords sets the document's Info /Keywords.
func (d *Document) SetKeywords(keywords string) { d.keywords = keywords }

// Creator returns the document's Info /Creator, empty if unset.
func (d *Document) Creator() string { return d.creator }

// SetCreator sets the document's Info /Creator.
func (d *Document) SetCreator(creator string) { d.creator = creator }

// Producer returns the document's Info /Producer, empty if unset.
func (d *Document) Producer() string { return d.producer }

// SetProducer sets the document's Info /Producer.
func (d *Document) SetProducer(producer string) { d.producer = producer }

// CreationDate returns when the document was created.
func (d *Document) CreationDate() time.Time { return d.creationDate }

// SetCreationDate overrides the creation date (e.g. when round-tripping an
// existing document's Info dictionary).
func (d *Document) SetCreationDate(t time.Time) { d.creationDate = t }

// ModificationDate returns when the document was last modified.
func (d *Document) ModificationDate() time.Time { return d.modificationDate }

// SetModificationDate overrides the modification date.
func (d *Document) SetModificationDate(t time.Time) { d.modificationDate = t }
