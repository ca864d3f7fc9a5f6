package parser

import "github.com/coregx/gxpdf/internal/model"

// fromModel converts an internal/model.Object (the engine's own tagged
// union) into the pointer-typed PdfObject variants this package's callers
// are built against. Streams keep a back-reference to decoder so their
// Decode() method can apply the filter chain lazily.
func fromModel(o model.Object, decoder streamDecoder) PdfObject {
	switch v := o.(type) {
	case nil:
		return Null{}
	case model.Null:
		return Null{}
	case model.Boolean:
		return NewBoolean(bool(v))
	case model.Number:
		if v.IsInt {
			return NewInteger(v.Int64())
		}
		return NewReal(v.Value)
	case model.Name:
		return NewName(string(v))
	case model.String:
		return &String{value: v.Value, hex: v.Hex}
	case model.Reference:
		return &IndirectReference{Number: v.Num, Generation: v.Gen}
	case model.Array:
		arr := NewArray()
		for _, item := range v {
			arr.Append(fromModel(item, decoder))
		}
		return arr
	case *model.Dictionary:
		return fromModelDict(v, decoder)
	case *model.Stream:
		return &Stream{
			dict:    fromModelDict(v.Dict, decoder),
			raw:     v.Data,
			decoder: decoder,
		}
	default:
		return Null{}
	}
}

func fromModelDict(d *model.Dictionary, decoder streamDecoder) *Dictionary {
	out := NewDictionary()
	if d == nil {
		return out
	}
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		out.Set(k, fromModel(v, decoder))
	}
	return out
}

// toModel converts a PdfObject back into internal/model terms, used when
// writing field updates back into a document.
func toModel(o PdfObject) model.Object {
	switch v := o.(type) {
	case nil, Null:
		return model.NullObject
	case *Boolean:
		return model.Boolean(bool(*v))
	case *Integer:
		return model.Int(int64(*v))
	case *Real:
		return model.Real(float64(*v))
	case *Name:
		return model.Name(string(*v))
	case *String:
		return model.String{Value: v.value, Hex: v.hex}
	case *IndirectReference:
		return model.Reference{Num: v.Number, Gen: v.Generation}
	case *Array:
		arr := make(model.Array, 0, v.Len())
		for _, item := range v.Items() {
			arr = append(arr, toModel(item))
		}
		return arr
	case *Dictionary:
		return toModelDict(v)
	case *Stream:
		return model.NewStream(toModelDict(v.dict), v.raw)
	default:
		return model.NullObject
	}
}

func toModelDict(d *Dictionary) *model.Dictionary {
	out := model.NewDictionary()
	if d == nil {
		return out
	}
	for _, k := range d.Keys() {
		out.Set(k, toModel(d.Get(k)))
	}
	return out
}
