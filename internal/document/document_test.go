package document

import "testing"

func TestNewDocument(t *testing.T) {
	doc := NewDocument(V17)

	if doc.Version().String() != "1.7" {
		t.Errorf("Version() = %q, want %q", doc.Version().String(), "1.7")
	}
	if doc.PageCount() != 0 {
		t.Errorf("PageCount() = %d, want 0", doc.PageCount())
	}
	if doc.CreationDate().IsZero() {
		t.Error("CreationDate() is zero, want populated at construction")
	}
}

func TestDocumentAddPage(t *testing.T) {
	doc := NewDocument(V17)

	p1 := doc.AddPage(Letter)
	p2 := doc.AddPage(A4)

	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}

	got, err := doc.Page(0)
	if err != nil || got != p1 {
		t.Errorf("Page(0) = %v, %v, want %v, nil", got, err, p1)
	}

	got, err = doc.Page(1)
	if err != nil || got != p2 {
		t.Errorf("Page(1) = %v, %v, want %v, nil", got, err, p2)
	}

	if _, err := doc.Page(2); err == nil {
		t.Error("Page(2) expected out-of-range error, got nil")
	}
	if _, err := doc.Page(-1); err == nil {
		t.Error("Page(-1) expected out-of-range error, got nil")
	}
}

func TestDocumentMetadataAccessors(t *testing.T) {
	doc := NewDocument(V17)

	doc.SetTitle("Report")
	doc.SetAuthor("Ada")
	doc.SetSubject("Quarterly numbers")
	doc.SetKeywords("finance, q3")
	doc.SetCreator("gxpdf")
	doc.SetProducer("gxpdf writer")

	if doc.Title() != "Report" {
		t.Errorf("Title() = %q, want %q", doc.Title(), "Report")
	}
	if doc.Author() != "Ada" {
		t.Errorf("Author() = %q, want %q", doc.Author(), "Ada")
	}
	if doc.Subject() != "Quarterly numbers" {
		t.Errorf("Subject() = %q, want %q", doc.Subject(), "Quarterly numbers")
	}
	if doc.Keywords() != "finance, q3" {
		t.Errorf("Keywords() = %q, want %q", doc.Keywords(), "finance, q3")
	}
	if doc.Creator() != "gxpdf" {
		t.Errorf("Creator() = %q, want %q", doc.Creator(), "gxpdf")
	}
	if doc.Producer() != "gxpdf writer" {
		t.Errorf("Producer() = %q, want %q", doc.Producer(), "gxpdf writer")
	}
}

func TestDocumentValidateEmpty(t *testing.T) {
	doc := NewDocument(V17)
	if err := doc.Validate(); err == nil {
		t.Error("Validate() on empty document expected error, got nil")
	}
}

func TestDocumentValidateWithPages(t *testing.T) {
	doc := NewDocument(V17)
	p := doc.AddPage(Letter)
	if err := p.SetRotation(90); err != nil {
		t.Fatalf("SetRotation(90) error = %v", err)
	}

	if err := doc.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestPageMediaBoxAndCropBox(t *testing.T) {
	doc := NewDocument(V17)
	p := doc.AddPage(Letter)

	if got := p.MediaBox(); got != Letter {
		t.Errorf("MediaBox() = %v, want %v", got, Letter)
	}
	if p.CropBox() != nil {
		t.Error("CropBox() expected nil before SetCropBox")
	}

	crop := Rect{0, 0, 500, 700}
	p.SetCropBox(crop)
	if got := p.CropBox(); got == nil || *got != crop {
		t.Errorf("CropBox() = %v, want %v", got, crop)
	}

	p.SetMediaBox(A4)
	if got := p.MediaBox(); got != A4 {
		t.Errorf("MediaBox() after SetMediaBox = %v, want %v", got, A4)
	}
}

func TestPageRotationValidation(t *testing.T) {
	doc := NewDocument(V17)
	p := doc.AddPage(Letter)

	if err := p.SetRotation(45); err == nil {
		t.Error("SetRotation(45) expected error, got nil")
	}

	if err := p.SetRotation(450); err != nil {
		t.Fatalf("SetRotation(450) error = %v", err)
	}
	if got := p.Rotation(); got != 90 {
		t.Errorf("Rotation() after SetRotation(450) = %d, want 90 (normalized)", got)
	}

	if err := p.SetRotation(-90); err != nil {
		t.Fatalf("SetRotation(-90) error = %v", err)
	}
	if got := p.Rotation(); got != 270 {
		t.Errorf("Rotation() after SetRotation(-90) = %d, want 270 (normalized)", got)
	}
}

func TestPageWidthHeightWithRotation(t *testing.T) {
	doc := NewDocument(V17)
	p := doc.AddPage(Letter)

	if w, h := p.Width(), p.Height(); w != Letter.Width() || h != Letter.Height() {
		t.Errorf("unrotated Width/Height = (%v, %v), want (%v, %v)", w, h, Letter.Width(), Letter.Height())
	}

	if err := p.SetRotation(90); err != nil {
		t.Fatalf("SetRotation(90) error = %v", err)
	}
	if w, h := p.Width(), p.Height(); w != Letter.Height() || h != Letter.Width() {
		t.Errorf("rotated 90 Width/Height = (%v, %v), want swapped (%v, %v)", w, h, Letter.Height(), Letter.Width())
	}
}

func TestPageAnnotations(t *testing.T) {
	doc := NewDocument(V17)
	p := doc.AddPage(Letter)

	if p.AnnotationCount() != 0 {
		t.Fatalf("AnnotationCount() = %d, want 0", p.AnnotationCount())
	}

	a := Annotation{
		Subtype:  "Link",
		Rect:     Rect{10, 10, 100, 30},
		Contents: "visit example.com",
		Extra:    map[string]string{"A": "<< /Type /Action /S /URI /URI (https://example.com) >>"},
	}
	p.AddAnnotation(a)

	if p.AnnotationCount() != 1 {
		t.Fatalf("AnnotationCount() = %d, want 1", p.AnnotationCount())
	}
	got := p.Annotations()
	if len(got) != 1 || got[0].Subtype != "Link" {
		t.Errorf("Annotations() = %+v, want one Link annotation", got)
	}
}
