// Package model defines the PDF object value types: the tagged-union of
// null, boolean, number, name, string, array, dict, stream and reference
// that every other package in gxpdf operates on.
package model

import "fmt"

// Object is implemented by every PDF value variant.
type Object interface {
	// pdfObject is unexported so the variant set is closed to this package.
	pdfObject()
}

// Null is the PDF null value. NullObject is its singleton instance; every
// reference to a missing or free entry resolves to this exact value.
type Null struct{}

func (Null) pdfObject() {}

// NullObject is the singleton null value.
var NullObject = Null{}

// Boolean is a PDF boolean.
type Boolean bool

func (Boolean) pdfObject() {}

// Number is a PDF numeric value. IsInt records whether the source token had
// no '.', so re-serialization chooses integer vs real syntax faithfully even
// though both are stored as float64.
type Number struct {
	Value float64
	IsInt bool
}

func (Number) pdfObject() {}

// Int constructs an integer Number.
func Int(v int64) Number { return Number{Value: float64(v), IsInt: true} }

// Real constructs a real Number.
func Real(v float64) Number { return Number{Value: v, IsInt: false} }

// Int64 truncates the number to an int64.
func (n Number) Int64() int64 { return int64(n.Value) }

// Name is a PDF name, stored without the leading '/'. Names compare by byte
// identity (plain string equality).
type Name string

func (Name) pdfObject() {}

// String is a PDF string: raw decoded bytes plus whether the source used hex
// (<...>) or literal ((...)) syntax, preserved for round-tripping.
type String struct {
	Value []byte
	Hex   bool
}

func (String) pdfObject() {}

// Text constructs a literal PDF string from Go text.
func Text(s string) String { return String{Value: []byte(s)} }

// Array is an ordered sequence of values.
type Array []Object

func (Array) pdfObject() {}

// Dictionary is a name -> value mapping. Key order is preserved for
// diagnostics (String()/debug dumps) but carries no semantic weight.
type Dictionary struct {
	keys   []string
	values map[string]Object
}

func (*Dictionary) pdfObject() {}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]Object)}
}

// Get returns the value for key, or (nil, false) if absent.
func (d *Dictionary) Get(key string) (Object, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// GetOr returns the value for key, or def if absent.
func (d *Dictionary) GetOr(key string, def Object) Object {
	if v, ok := d.Get(key); ok {
		return v
	}
	return def
}

// Set inserts or overwrites key, preserving first-insertion order.
func (d *Dictionary) Set(key string, v Object) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Delete removes key, if present.
func (d *Dictionary) Delete(key string) {
	if _, exists := d.values[key]; !exists {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (d *Dictionary) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.keys) }

// Clone returns a shallow copy: same values, independent key/map storage.
// Used by the forms subsystem's copy-on-write value updates.
func (d *Dictionary) Clone() *Dictionary {
	nd := NewDictionary()
	for _, k := range d.keys {
		nd.Set(k, d.values[k])
	}
	return nd
}

// Reference is an indirect pointer: object number + generation, dereferenced
// only through the registry.
type Reference struct {
	Num int
	Gen int
}

func (Reference) pdfObject() {}

func (r Reference) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Stream is a dictionary carrying a raw byte payload. Encoded records
// whether Data is still as read from disk (filters listed in /Filter have
// not been applied) or has been decoded in memory: a decoded stream's
// /Filter is cleared and Data holds plain bytes.
type Stream struct {
	Dict    *Dictionary
	Data    []byte
	Encoded bool
}

func (*Stream) pdfObject() {}

// NewStream wraps encoded bytes exactly as read from disk.
func NewStream(dict *Dictionary, data []byte) *Stream {
	return &Stream{Dict: dict, Data: data, Encoded: true}
}
