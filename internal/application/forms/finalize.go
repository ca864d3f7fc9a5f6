package forms

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/coregx/gxpdf/internal/config"
	"github.com/coregx/gxpdf/internal/model"
	"github.com/coregx/gxpdf/internal/parser"
	"github.com/coregx/gxpdf/internal/registry"
)

// Finalize applies every pending SetFieldValue update directly into reg,
// the live object graph a save walks, and regenerates each touched field's
// /AP /N appearance stream. It gives Writer the shape internal/writer's
// Finalizer interface expects; internal/writer cannot import this package
// (forms already depends on internal/parser, which the writer package
// doesn't), so the two are wired together only by this method signature
// matching, at the call site in the root package.
func (w *Writer) Finalize(reg *registry.Registry, opts *config.SaveOptions) error {
	if !w.HasUpdates() {
		return nil
	}

	fields, err := w.GetFieldsToUpdate()
	if err != nil {
		return err
	}

	for _, field := range fields {
		ref := model.Reference{Num: field.ObjectNum, Gen: 0}
		obj := reg.Resolve(ref)
		dict, ok := obj.(*model.Dictionary)
		if !ok {
			return fmt.Errorf("form field %q: object %d is not a dictionary", field.Name, field.ObjectNum)
		}

		value := w.updates[field.Name]
		display, err := setModelValue(dict, field.Type, value)
		if err != nil {
			return fmt.Errorf("form field %q: %w", field.Name, err)
		}
		reg.MarkDirty(ref)

		if field.Type == FieldTypeText || field.Type == FieldTypeChoice {
			if err := w.regenerateAppearance(reg, dict, field, display); err != nil {
				return fmt.Errorf("form field %q: regenerate appearance: %w", field.Name, err)
			}
		}
	}
	return nil
}

// setModelValue sets /V (and /AS for buttons) directly on a live registry
// dictionary — the model.Dictionary counterpart of setValueInDict, which
// operates on the detached internal/parser representation instead. Returns
// the plain-text rendering of the new value, for appearance regeneration.
func setModelValue(dict *model.Dictionary, fieldType FieldType, value interface{}) (string, error) {
	switch fieldType {
	case FieldTypeText:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("text field requires string value, got %T", value)
		}
		dict.Set("V", encodeFieldString(s))
		return s, nil

	case FieldTypeButton:
		switch v := value.(type) {
		case bool:
			name := "Off"
			if v {
				name = "Yes"
			}
			dict.Set("V", model.Name(name))
			dict.Set("AS", model.Name(name))
			return name, nil
		case string:
			dict.Set("V", model.Name(v))
			dict.Set("AS", model.Name(v))
			return v, nil
		default:
			return "", fmt.Errorf("button field requires bool or string value, got %T", value)
		}

	case FieldTypeChoice:
		switch v := value.(type) {
		case string:
			dict.Set("V", encodeFieldString(v))
			return v, nil
		case []string:
			arr := make(model.Array, 0, len(v))
			for _, s := range v {
				arr = append(arr, encodeFieldString(s))
			}
			dict.Set("V", arr)
			if len(v) > 0 {
				return v[0], nil
			}
			return "", nil
		default:
			return "", fmt.Errorf("choice field requires string or []string value, got %T", value)
		}

	default:
		return "", fmt.Errorf("cannot set value for field type %q", fieldType)
	}
}

// encodeFieldString renders s as a PDF text string. Values outside Latin-1
// are encoded UTF-16BE with a leading byte-order mark (PDF Reference 1.7
// §7.9.2.2), the form field text-string representation every conforming
// reader falls back to for non-Latin1 content; plain ASCII/Latin-1 text
// stays a literal byte string instead of paying the UTF-16 overhead.
func encodeFieldString(s string) model.String {
	for _, r := range s {
		if r > 0xFF {
			enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
			encoded, err := enc.NewEncoder().String(s)
			if err == nil {
				return model.String{Value: []byte(encoded), Hex: true}
			}
			break
		}
	}
	return model.Text(s)
}

// regenerateAppearance rebuilds dict's /AP /N stream from its (or the
// AcroForm's default) /DA string and registers it in reg as a fresh
// indirect object, so the save path picks it up without any extra wiring.
func (w *Writer) regenerateAppearance(reg *registry.Registry, dict *model.Dictionary, field *FieldInfo, value string) error {
	da := w.fieldDefaultAppearance(dict)
	app, err := GenerateAppearance(field.Rect, da, value)
	if err != nil {
		return err
	}

	// Built fresh, not read from disk: Encoded stays false so the save path's
	// recompressStream applies normal CompressStreams handling instead of
	// passing these plain bytes through as if they already carried a filter.
	apStream := &model.Stream{
		Dict:    w.buildAppearanceDict(field.Rect, app.FontName),
		Data:    app.Content,
		Encoded: false,
	}
	apRef := reg.Register(apStream)

	var apd *model.Dictionary
	if existing, ok := dict.Get("AP"); ok {
		if existingDict, ok := reg.Resolve(existing).(*model.Dictionary); ok {
			apd = existingDict.Clone()
		}
	}
	if apd == nil {
		apd = model.NewDictionary()
	}
	apd.Set("N", apRef)
	dict.Set("AP", apd)
	return nil
}

// fieldDefaultAppearance resolves the /DA string that applies to dict,
// falling back to the AcroForm's shared default when the field itself
// doesn't carry one.
func (w *Writer) fieldDefaultAppearance(dict *model.Dictionary) string {
	if da, ok := dict.GetString("DA"); ok {
		return string(da.Value)
	}

	acroForm, err := w.pdfReader.GetAcroForm()
	if err != nil || acroForm == nil {
		return ""
	}
	daObj := acroForm.Get("DA")
	if daStr, ok := w.pdfReader.ResolveReferences(daObj).(*parser.String); ok {
		return daStr.Value()
	}
	return ""
}

// buildAppearanceDict assembles the Form XObject dictionary an appearance
// stream needs: its bounding box and a /Resources that points at the
// AcroForm's shared /DR when /DR is an indirect reference, so the content
// stream's font operator resolves; otherwise /Resources is a dictionary
// with an empty /Font.
func (w *Writer) buildAppearanceDict(rect [4]float64, fontName string) *model.Dictionary {
	d := model.NewDictionary()
	d.Set("Type", model.Name("XObject"))
	d.Set("Subtype", model.Name("Form"))
	d.Set("BBox", model.Array{
		model.Real(0), model.Real(0),
		model.Real(rect[2] - rect[0]), model.Real(rect[3] - rect[1]),
	})

	if dr := w.sharedResourcesRef(); dr != nil {
		d.Set("Resources", *dr)
	} else {
		resources := model.NewDictionary()
		resources.Set("Font", model.NewDictionary())
		d.Set("Resources", resources)
	}
	return d
}

// sharedResourcesRef returns the AcroForm's /DR, as a Reference, when it is
// stored as an indirect object.
func (w *Writer) sharedResourcesRef() *model.Reference {
	acroForm, err := w.pdfReader.GetAcroForm()
	if err != nil || acroForm == nil {
		return nil
	}
	drObj := acroForm.Get("DR")
	ref, ok := drObj.(*parser.IndirectReference)
	if !ok {
		return nil
	}
	r := model.Reference{Num: ref.Number, Gen: ref.Generation}
	return &r
}
