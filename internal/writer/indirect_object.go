package writer

import (
	"fmt"
	"io"
)

// IndirectObject is a fully-serialized PDF indirect object ready to be
// written to an output stream: "N G obj\n<data>\nendobj\n".
//
// Data holds everything between "obj" and "endobj" (the dictionary, array,
// or stream body), already formatted by the caller — IndirectObject itself
// does no PDF-syntax construction, only byte plumbing.
type IndirectObject struct {
	Number     int
	Generation int
	Data       []byte
}

// NewIndirectObject creates an indirect object with the given object number
// and generation.
func NewIndirectObject(number int, generation int, data []byte) *IndirectObject {
	return &IndirectObject{Number: number, Generation: generation, Data: data}
}

// WriteTo writes the object in PDF file syntax and returns the number of
// bytes written, satisfying io.WriterTo so callers can track offsets via
// the underlying writer without double-buffering.
func (o *IndirectObject) WriteTo(w io.Writer) (int64, error) {
	var total int64

	n, err := fmt.Fprintf(w, "%d %d obj\n", o.Number, o.Generation)
	total += int64(n)
	if err != nil {
		return total, err
	}

	m, err := w.Write(o.Data)
	total += int64(m)
	if err != nil {
		return total, err
	}

	n, err = w.Write([]byte("\nendobj\n"))
	total += int64(n)
	return total, err
}
