package writer

import "testing"

func TestEscapePDFString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello World", "Hello World"},
		{"backslash", `a\b`, `a\\b`},
		{"parens", "(note)", `\(note\)`},
		{"newline", "a\nb", `a\nb`},
		{"carriage return", "a\rb", `a\rb`},
		{"tab", "a\tb", `a\tb`},
		{"mixed", "(a\\b)\n", `\(a\\b\)\n`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapePDFString(tt.in); got != tt.want {
				t.Errorf("EscapePDFString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
