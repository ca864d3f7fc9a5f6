package gxpdf

import (
	"fmt"
	"io"
	"os"

	"github.com/coregx/gxpdf/internal/application/forms"
	"github.com/coregx/gxpdf/internal/config"
	"github.com/coregx/gxpdf/internal/writer"
)

// SaveOptions controls how Save serializes a document back to bytes:
// full vs. incremental, object streams, a cross-reference stream, stream
// compression, and font subsetting.
type SaveOptions = config.SaveOptions

// DefaultSaveOptions returns full-save defaults: object streams, a
// cross-reference stream, stream compression, and font subsetting all on.
func DefaultSaveOptions() *SaveOptions {
	return config.DefaultSaveOptions()
}

// SetFieldValue queues a form field update, applied to the live object
// graph when Save runs. The field must already exist in the document's
// AcroForm; the accepted value shapes match forms.Writer.SetFieldValue
// (string for text/choice fields, bool or string for buttons).
func (d *Document) SetFieldValue(name string, value interface{}) error {
	if d.formsWriter == nil {
		d.formsWriter = forms.NewWriter(d.reader)
	}
	return d.formsWriter.SetFieldValue(name, value)
}

// Save serializes the document's current object graph to path, applying any
// pending SetFieldValue updates first. opts controls full-vs-incremental
// save and the object-stream/compression/subsetting choices; nil uses
// DefaultSaveOptions.
func (d *Document) Save(path string, opts *SaveOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gxpdf: save %s: %w", path, err)
	}
	defer f.Close()
	return d.WriteTo(f, opts)
}

// WriteTo serializes the document the same way Save does, without touching
// the filesystem.
func (d *Document) WriteTo(w io.Writer, opts *SaveOptions) error {
	resolved := config.Resolve(opts)

	root, ok := d.reader.RootRef()
	if !ok {
		return fmt.Errorf("gxpdf: save: document has no /Root reference")
	}
	target := writer.Root{Catalog: root}
	if info, hasInfo := d.reader.InfoRef(); hasInfo {
		target.Info = info
	}

	rw := writer.NewRegistryWriter(resolved)
	if d.formsWriter != nil {
		rw.AddFinalizer(d.formsWriter)
	}

	reg := d.reader.Registry()
	if resolved.Incremental {
		return rw.WriteIncremental(w, reg, d.reader.RawData(), d.reader.StartXRefOffset(), target)
	}
	return rw.WriteFull(w, reg, d.reader.Version(), target)
}
