package document

import "testing"

func TestRectDimensions(t *testing.T) {
	r := Rect{LLX: 10, LLY: 20, URX: 110, URY: 220}

	if w := r.Width(); w != 100 {
		t.Errorf("Width() = %v, want 100", w)
	}
	if h := r.Height(); h != 200 {
		t.Errorf("Height() = %v, want 200", h)
	}

	x, y := r.LowerLeft()
	if x != 10 || y != 20 {
		t.Errorf("LowerLeft() = (%v, %v), want (10, 20)", x, y)
	}

	x, y = r.UpperRight()
	if x != 110 || y != 220 {
		t.Errorf("UpperRight() = (%v, %v), want (110, 220)", x, y)
	}
}

func TestStandardPageSizes(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		w, h float64
	}{
		{"Letter", Letter, 612, 792},
		{"Legal", Legal, 612, 1008},
		{"A4", A4, 595.28, 841.89},
		{"A3", A3, 841.89, 1190.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Width(); got != tt.w {
				t.Errorf("%s width = %v, want %v", tt.name, got, tt.w)
			}
			if got := tt.r.Height(); got != tt.h {
				t.Errorf("%s height = %v, want %v", tt.name, got, tt.h)
			}
		})
	}
}
