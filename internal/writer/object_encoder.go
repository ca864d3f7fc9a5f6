package writer

import (
	"bytes"
	"fmt"

	"github.com/coregx/gxpdf/internal/config"
	"github.com/coregx/gxpdf/internal/filter"
	"github.com/coregx/gxpdf/internal/model"
)

// EncodeValue renders v as PDF syntax, the inverse of internal/objparser's
// parse direction. Streams cannot be encoded inline (their /Length and
// filter chain depend on how the caller wants them compressed), so callers
// writing a stream object go through encodeIndirectBody instead.
func EncodeValue(buf *bytes.Buffer, v model.Object) error {
	switch o := v.(type) {
	case nil:
		buf.WriteString("null")
	case model.Null:
		buf.WriteString("null")
	case model.Boolean:
		if o {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case model.Number:
		if o.IsInt {
			fmt.Fprintf(buf, "%d", o.Int64())
		} else {
			fmt.Fprintf(buf, "%g", o.Value)
		}
	case model.Name:
		buf.WriteByte('/')
		buf.WriteString(string(o))
	case model.String:
		if o.Hex {
			buf.WriteByte('<')
			fmt.Fprintf(buf, "%x", o.Value)
			buf.WriteByte('>')
		} else {
			buf.WriteByte('(')
			buf.WriteString(EscapePDFString(string(o.Value)))
			buf.WriteByte(')')
		}
	case model.Reference:
		fmt.Fprintf(buf, "%d %d R", o.Num, o.Gen)
	case model.Array:
		buf.WriteByte('[')
		for i, item := range o {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := EncodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *model.Dictionary:
		return encodeDict(buf, o)
	case *model.Stream:
		return fmt.Errorf("writer: a stream value must be written via its owning indirect object, not inline")
	default:
		return fmt.Errorf("writer: unsupported value type %T", v)
	}
	return nil
}

func encodeDict(buf *bytes.Buffer, d *model.Dictionary) error {
	buf.WriteString("<<")
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		fmt.Fprintf(buf, " /%s ", k)
		if err := EncodeValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteString(" >>")
	return nil
}

// encodeIndirectBody renders the bytes that go between "N G obj" and
// "endobj" for any live registry object, streams included.
func encodeIndirectBody(obj model.Object, opts *config.SaveOptions) ([]byte, error) {
	strm, isStream := obj.(*model.Stream)
	if !isStream {
		var buf bytes.Buffer
		if err := EncodeValue(&buf, obj); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dict, data, err := recompressStream(strm, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encodeDict(&buf, dict); err != nil {
		return nil, err
	}
	buf.WriteString("\nstream\n")
	buf.Write(data)
	buf.WriteString("\nendstream")
	return buf.Bytes(), nil
}

// recompressStream decides the on-disk filter chain for a stream being
// written out. A stream still carrying its original encoded bytes
// (Encoded==true, i.e. untouched since load) is passed through verbatim so
// round-tripping an unmodified object never perturbs its bytes. A stream
// that was decoded and edited in memory is re-filtered according to
// opts.CompressStreams.
func recompressStream(strm *model.Stream, opts *config.SaveOptions) (*model.Dictionary, []byte, error) {
	if strm.Encoded {
		dict := strm.Dict.Clone()
		dict.Set("Length", model.Int(int64(len(strm.Data))))
		return dict, strm.Data, nil
	}

	dict := strm.Dict.Clone()
	data := strm.Data
	if opts.CompressStreams && ShouldCompress(data) {
		encoded, err := filter.EncodeStream(data, []string{"FlateDecode"}, []*model.Dictionary{nil})
		if err != nil {
			return nil, nil, fmt.Errorf("recompress stream: %w", err)
		}
		dict.Set("Filter", model.Name("FlateDecode"))
		dict.Delete("DecodeParms")
		dict.Delete("DP")
		data = encoded
	} else {
		dict.Delete("Filter")
		dict.Delete("DecodeParms")
		dict.Delete("DP")
	}
	dict.Set("Length", model.Int(int64(len(data))))
	return dict, data, nil
}
