package fonts

import (
	"bytes"
	"strings"
	"testing"
)

func TestStandard14FontNames(t *testing.T) {
	tests := []struct {
		font *Standard14Font
		want string
	}{
		{Helvetica, "Helvetica"},
		{HelveticaBold, "Helvetica-Bold"},
		{HelveticaOblique, "Helvetica-Oblique"},
		{HelveticaBoldOblique, "Helvetica-BoldOblique"},
		{TimesRoman, "Times-Roman"},
		{TimesBold, "Times-Bold"},
		{TimesItalic, "Times-Italic"},
		{TimesBoldItalic, "Times-BoldItalic"},
		{Courier, "Courier"},
		{CourierBold, "Courier-Bold"},
		{CourierOblique, "Courier-Oblique"},
		{CourierBoldOblique, "Courier-BoldOblique"},
		{Symbol, "Symbol"},
		{ZapfDingbats, "ZapfDingbats"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if tt.font.Name != tt.want {
				t.Errorf("Name = %q, want %q", tt.font.Name, tt.want)
			}
		})
	}
}

func TestWriteFontObjectWinAnsi(t *testing.T) {
	var buf bytes.Buffer
	if err := Helvetica.WriteFontObject(5, &buf); err != nil {
		t.Fatalf("WriteFontObject() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "5 0 obj\n") {
		t.Errorf("output %q missing object header", out)
	}
	if !strings.Contains(out, "/BaseFont /Helvetica") {
		t.Errorf("output %q missing BaseFont", out)
	}
	if !strings.Contains(out, "/Encoding /WinAnsiEncoding") {
		t.Errorf("output %q missing WinAnsiEncoding for non-symbolic font", out)
	}
	if !strings.HasSuffix(out, "endobj\n") {
		t.Errorf("output %q missing endobj", out)
	}
}

func TestWriteFontObjectSymbolicFontsSkipEncoding(t *testing.T) {
	for _, font := range []*Standard14Font{Symbol, ZapfDingbats} {
		var buf bytes.Buffer
		if err := font.WriteFontObject(1, &buf); err != nil {
			t.Fatalf("WriteFontObject() error = %v", err)
		}
		if strings.Contains(buf.String(), "/Encoding") {
			t.Errorf("%s: output %q must not declare /Encoding", font.Name, buf.String())
		}
	}
}
