// Package parser exposes the PDF object model and a document Reader built
// on top of internal/lexer, internal/objparser, internal/xref,
// internal/filter, internal/salvage and internal/registry.
//
// The object types below (PdfObject and its variants) are the shape this
// package's callers (internal/application/forms, the document facade) were
// already written against; internal/model is the engine's own tagged-union
// used internally by the lexer/objparser/xref/filter layer. convert.go
// translates between the two at the Reader's boundary, so callers keep
// working against pointer-typed, method-bearing objects while the engine
// itself stays a plain closed sum type.
package parser

import "fmt"

// PdfObject is implemented by every value variant a Reader can hand back.
type PdfObject interface {
	isPdfObject()
}

// Null is the PDF null object.
type Null struct{}

func (Null) isPdfObject() {}

// Boolean is a PDF boolean value.
type Boolean bool

func (*Boolean) isPdfObject() {}

// NewBoolean constructs a Boolean.
func NewBoolean(v bool) *Boolean {
	b := Boolean(v)
	return &b
}

// Value returns the underlying bool.
func (b *Boolean) Value() bool { return bool(*b) }

// Integer is a PDF integer numeric value.
type Integer int64

func (*Integer) isPdfObject() {}

// NewInteger constructs an Integer.
func NewInteger(v int64) *Integer {
	n := Integer(v)
	return &n
}

// Value returns the underlying int64.
func (n *Integer) Value() int64 { return int64(*n) }

// Real is a PDF real (floating point) numeric value.
type Real float64

func (*Real) isPdfObject() {}

// NewReal constructs a Real.
func NewReal(v float64) *Real {
	n := Real(v)
	return &n
}

// Value returns the underlying float64.
func (n *Real) Value() float64 { return float64(*n) }

// Name is a PDF name object, stored without its leading '/'.
type Name string

func (*Name) isPdfObject() {}

// NewName constructs a Name.
func NewName(s string) *Name {
	n := Name(s)
	return &n
}

// Value returns the name text.
func (n *Name) Value() string { return string(*n) }

// String is a PDF string object (literal or hex).
type String struct {
	value []byte
	hex   bool
}

func (*String) isPdfObject() {}

// NewString constructs a literal String.
func NewString(s string) *String {
	return &String{value: []byte(s)}
}

// Value returns the string's decoded text.
func (s *String) Value() string { return string(s.value) }

// Bytes returns the string's raw decoded bytes.
func (s *String) Bytes() []byte { return s.value }

// IndirectReference is an "N G R" reference to another object, resolved
// only through a Reader.
type IndirectReference struct {
	Number     int
	Generation int
}

func (*IndirectReference) isPdfObject() {}

func (r *IndirectReference) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// Array is an ordered sequence of objects.
type Array struct {
	items []PdfObject
}

func (*Array) isPdfObject() {}

// NewArray constructs an empty Array.
func NewArray() *Array { return &Array{} }

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Get returns the i'th element, or Null{} if out of range.
func (a *Array) Get(i int) PdfObject {
	if a == nil || i < 0 || i >= len(a.items) {
		return Null{}
	}
	return a.items[i]
}

// Append adds v to the end of the array.
func (a *Array) Append(v PdfObject) {
	a.items = append(a.items, v)
}

// Items returns the array's elements in order.
func (a *Array) Items() []PdfObject {
	if a == nil {
		return nil
	}
	return a.items
}

// Dictionary is a name -> object mapping with insertion-order key iteration.
type Dictionary struct {
	keys   []string
	values map[string]PdfObject

	// objNum/objGen identify the indirect object this dictionary was
	// resolved from, set by Reader.ResolveReferences. Two Dictionary
	// values produced from separate conversion passes are the same
	// underlying PDF object iff hasObjID is true on both and the ids
	// match — pointer identity does not hold across conversions, since
	// fromModel allocates a fresh wrapper every time it runs.
	objNum, objGen int
	hasObjID       bool
}

// SetObjectID tags a dictionary with the indirect object id it was
// resolved from.
func (d *Dictionary) SetObjectID(num, gen int) {
	d.objNum, d.objGen, d.hasObjID = num, gen, true
}

// ObjectID returns the indirect object id this dictionary was resolved
// from, if any.
func (d *Dictionary) ObjectID() (num, gen int, ok bool) {
	if d == nil {
		return 0, 0, false
	}
	return d.objNum, d.objGen, d.hasObjID
}

func (*Dictionary) isPdfObject() {}

// NewDictionary constructs an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]PdfObject)}
}

// Get returns the value for key, or nil if absent.
func (d *Dictionary) Get(key string) PdfObject {
	if d == nil {
		return nil
	}
	v, ok := d.values[key]
	if !ok {
		return nil
	}
	return v
}

// Set inserts or overwrites key, preserving first-insertion order.
func (d *Dictionary) Set(key string, v PdfObject) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dictionary) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// streamDecoder is satisfied by the Reader; a Stream calls back into it to
// decode its payload on first use, so decoding happens lazily and only
// once per Stream instance.
type streamDecoder interface {
	decodeStream(s *Stream) ([]byte, error)
}

// Stream pairs a dictionary with a raw (still-encoded) byte payload.
type Stream struct {
	dict    *Dictionary
	raw     []byte
	decoder streamDecoder

	decoded    []byte
	decodedErr error
	didDecode  bool
}

func (*Stream) isPdfObject() {}

// Dictionary returns the stream's dictionary.
func (s *Stream) Dictionary() *Dictionary { return s.dict }

// RawBytes returns the stream's payload exactly as stored on disk, with no
// filters applied.
func (s *Stream) RawBytes() []byte { return s.raw }

// Decode applies the stream's /Filter chain and returns the plain bytes,
// caching the result.
func (s *Stream) Decode() ([]byte, error) {
	if s.didDecode {
		return s.decoded, s.decodedErr
	}
	s.didDecode = true
	if s.decoder == nil {
		s.decoded, s.decodedErr = s.raw, nil
		return s.decoded, s.decodedErr
	}
	s.decoded, s.decodedErr = s.decoder.decodeStream(s)
	return s.decoded, s.decodedErr
}
