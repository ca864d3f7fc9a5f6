// Package config collects the option structs that steer loading and saving:
// SaveOptions controls the serializer's incremental-vs-full choice and
// object-stream/compression usage, LoadOptions controls parser leniency.
package config

// SaveOptions controls how a document is serialized back to bytes.
type SaveOptions struct {
	// Incremental appends a new update section instead of rewriting the
	// whole file. Only valid when the document was loaded from a byte
	// source that still has its original bytes available.
	Incremental bool

	// UseObjectStreams batches eligible indirect objects (anything other
	// than streams themselves, encryption dict, and objects referenced by
	// /Root's trailer keys that must stay directly locatable) into /Type
	// /ObjStm compressed object streams.
	UseObjectStreams bool

	// UseXRefStream emits a cross-reference stream (/Type /XRef) instead of
	// a classic "xref" table. Forced true whenever UseObjectStreams is set,
	// since compressed objects can only be located via an xref stream.
	UseXRefStream bool

	// CompressStreams applies FlateDecode to newly written or rewritten
	// content streams and object streams.
	CompressStreams bool

	// SubsetFonts triggers glyph-closure subsetting for embedded
	// TrueType/OpenType fonts touched by edits, rather than carrying the
	// original font program unmodified.
	SubsetFonts bool
}

// DefaultSaveOptions returns the options used when a caller passes nil:
// full save, xref stream + object streams, compressed, subsetting on.
func DefaultSaveOptions() *SaveOptions {
	return &SaveOptions{
		Incremental:      false,
		UseObjectStreams: true,
		UseXRefStream:    true,
		CompressStreams:  true,
		SubsetFonts:      true,
	}
}

// resolve normalizes opts, forcing UseXRefStream on whenever object streams
// are requested (classic xref tables cannot address compressed entries).
func (o *SaveOptions) resolve() *SaveOptions {
	if o == nil {
		return DefaultSaveOptions()
	}
	out := *o
	if out.UseObjectStreams {
		out.UseXRefStream = true
	}
	return &out
}

// Resolve returns a non-nil, internally consistent copy of opts (nil becomes
// DefaultSaveOptions(); UseObjectStreams forces UseXRefStream).
func Resolve(opts *SaveOptions) *SaveOptions {
	return opts.resolve()
}

// LoadOptions controls how tolerant the parser is while ingesting a
// document.
type LoadOptions struct {
	// Lenient, when true (the default), tolerates malformed input: invalid
	// numbers become 0, unmatched brackets recover at end-of-object, a bad
	// /Length falls back to scanning for "endstream". The reader does not
	// consult this field: malformed input is tolerated as described whether
	// it is true or false.
	Lenient bool

	// AllowSalvage permits falling back to the internal/salvage linear scan
	// when the cross-reference chain cannot be loaded at all.
	AllowSalvage bool

	// MaxXRefChainDepth is a depth limit for /Prev chain following. The
	// reader does not pass it to internal/xref, so /Prev chains are bounded
	// only by the visited-offset cycle guard there, whatever its value.
	MaxXRefChainDepth int
}

// DefaultLoadOptions returns the options used when a caller passes nil:
// lenient parsing, salvage allowed, no extra depth cap.
func DefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		Lenient:           true,
		AllowSalvage:      true,
		MaxXRefChainDepth: 0,
	}
}

// ResolveLoad returns a non-nil copy of opts, defaulting a nil argument.
func ResolveLoad(opts *LoadOptions) *LoadOptions {
	if opts == nil {
		d := DefaultLoadOptions()
		return d
	}
	out := *opts
	return &out
}
