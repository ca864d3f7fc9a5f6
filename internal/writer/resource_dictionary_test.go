package writer

import (
	"strings"
	"testing"
)

func TestResourceDictionaryZeroBasedNaming(t *testing.T) {
	rd := NewResourceDictionary()

	if name := rd.AddFont(5); name != "F0" {
		t.Errorf("first AddFont() = %q, want %q", name, "F0")
	}
	if name := rd.AddFont(6); name != "F1" {
		t.Errorf("second AddFont() = %q, want %q", name, "F1")
	}
	if name := rd.AddImage(7); name != "Im0" {
		t.Errorf("first AddImage() = %q, want %q", name, "Im0")
	}
	if name := rd.AddExtGState(8); name != "GS0" {
		t.Errorf("first AddExtGState() = %q, want %q", name, "GS0")
	}
}

func TestResourceDictionaryFontByID(t *testing.T) {
	rd := NewResourceDictionary()

	name := rd.AddFontWithID(0, "custom:font_1")
	if name != "F0" {
		t.Fatalf("AddFontWithID() = %q, want %q", name, "F0")
	}

	if got := rd.GetFontResourceName("custom:font_1"); got != "F0" {
		t.Errorf("GetFontResourceName() = %q, want %q", got, "F0")
	}
	if got := rd.GetFontResourceName("unregistered"); got != "" {
		t.Errorf("GetFontResourceName(unregistered) = %q, want empty", got)
	}

	if ok := rd.SetFontObjNumByID("custom:font_1", 42); !ok {
		t.Error("SetFontObjNumByID() = false, want true")
	}
	if ok := rd.SetFontObjNumByID("missing", 1); ok {
		t.Error("SetFontObjNumByID(missing) = true, want false")
	}
}

func TestResourceDictionaryBytesEmpty(t *testing.T) {
	rd := NewResourceDictionary()
	if rd.HasResources() {
		t.Error("HasResources() = true on empty dictionary")
	}
	if got := rd.String(); got != "<< >>" {
		t.Errorf("String() = %q, want %q", got, "<< >>")
	}
}

func TestResourceDictionaryBytesSorted(t *testing.T) {
	rd := NewResourceDictionary()
	rd.AddFont(10)
	rd.AddFont(11)
	rd.AddImage(20)

	out := rd.String()
	if !strings.Contains(out, "/Font <<") {
		t.Errorf("output %q missing /Font section", out)
	}
	if !strings.Contains(out, "/F0 10 0 R") || !strings.Contains(out, "/F1 11 0 R") {
		t.Errorf("output %q missing expected font entries", out)
	}
	if !strings.Contains(out, "/XObject << /Im0 20 0 R >>") {
		t.Errorf("output %q missing expected XObject entry", out)
	}
	if !strings.Contains(out, "/ProcSet [/PDF /Text /ImageB /ImageC /ImageI]") {
		t.Errorf("output %q missing ProcSet", out)
	}
}
