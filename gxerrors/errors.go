// Package gxerrors defines the sentinel error kinds raised across gxpdf.
//
// Callers use errors.Is/errors.As against these sentinels; call sites wrap
// them with fmt.Errorf("%w: ...") so messages stay specific
// without losing the ability to classify the failure.
package gxerrors

import "errors"

var (
	// ErrMalformedFile is raised by the parser when no salvageable trailer exists.
	ErrMalformedFile = errors.New("gxpdf: malformed file")

	// ErrCorruptXref is raised when the startxref offset doesn't line up with
	// a classic xref table or an xref stream.
	ErrCorruptXref = errors.New("gxpdf: corrupt cross-reference")

	// ErrUnknownFilter is raised for filter names the pipeline doesn't implement.
	ErrUnknownFilter = errors.New("gxpdf: unknown filter")

	// ErrFilterDecodeError is raised when data rejects a filter outright.
	ErrFilterDecodeError = errors.New("gxpdf: filter decode error")

	// ErrMissingRequiredTable is raised by the TTF parser when a mandatory
	// table (head/hhea/maxp/hmtx/loca) is absent outside embedded mode.
	ErrMissingRequiredTable = errors.New("gxpdf: missing required font table")

	// ErrFontCannotEncode is raised when a string contains glyphs the font
	// cannot represent.
	ErrFontCannotEncode = errors.New("gxpdf: font cannot encode string")

	// ErrDuplicateFieldName is raised when creating a field whose fully
	// qualified name collides with an existing one.
	ErrDuplicateFieldName = errors.New("gxpdf: duplicate field name")

	// ErrInvalidFieldOption is raised when setting a choice value outside /Opt.
	ErrInvalidFieldOption = errors.New("gxpdf: invalid field option")

	// ErrTypeMismatch is raised by a bulk fill when a value's type doesn't
	// match the target field's type.
	ErrTypeMismatch = errors.New("gxpdf: field value type mismatch")

	// ErrUnsupported is raised for JBIG2, LZW encode, and exotic TTF variants.
	ErrUnsupported = errors.New("gxpdf: unsupported operation")
)
