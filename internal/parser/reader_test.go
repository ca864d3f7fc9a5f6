package parser

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalPDF assembles a tiny, valid, classic-xref PDF with a one-page
// document: a Catalog, a Pages node, and a single leaf Page.
func buildMinimalPDF() []byte {
	header := "%PDF-1.7\n"
	obj1 := "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n"
	obj2 := "2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n"
	obj3 := "3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n"

	off1 := len(header)
	off2 := off1 + len(obj1)
	off3 := off2 + len(obj2)
	xrefOff := off3 + len(obj3)

	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString(obj1)
	buf.WriteString(obj2)
	buf.WriteString(obj3)
	buf.WriteString("xref\n")
	buf.WriteString("0 4\n")
	buf.WriteString(fmt.Sprintf("%010d %05d f \n", 0, 65535))
	buf.WriteString(fmt.Sprintf("%010d %05d n \n", off1, 0))
	buf.WriteString(fmt.Sprintf("%010d %05d n \n", off2, 0))
	buf.WriteString(fmt.Sprintf("%010d %05d n \n", off3, 0))
	buf.WriteString("trailer\n")
	buf.WriteString("<< /Size 4 /Root 1 0 R >>\n")
	buf.WriteString(fmt.Sprintf("startxref\n%d\n%%%%EOF", xrefOff))
	return buf.Bytes()
}

func openMinimalReader(t *testing.T) (*Reader, []byte) {
	t.Helper()
	data := buildMinimalPDF()
	r := NewReader("in-memory.pdf")
	err := r.load(data)
	require.NoError(t, err)
	return r, data
}

// ============================================================================
// Load Tests
// ============================================================================

func TestLoadParsesHeaderVersion(t *testing.T) {
	r, _ := openMinimalReader(t)
	assert.Equal(t, "1.7", r.Version())
}

func TestLoadExposesRawDataAndStartXRefOffset(t *testing.T) {
	r, data := openMinimalReader(t)
	assert.Equal(t, data, r.RawData())
	assert.Greater(t, r.StartXRefOffset(), int64(0))
}

func TestLoadResolvesRootRef(t *testing.T) {
	r, _ := openMinimalReader(t)
	root, ok := r.RootRef()
	require.True(t, ok)
	assert.Equal(t, 1, root.Num)
}

func TestLoadInfoRefAbsentByDefault(t *testing.T) {
	r, _ := openMinimalReader(t)
	_, ok := r.InfoRef()
	assert.False(t, ok)
}

// ============================================================================
// Catalog / page tree Tests
// ============================================================================

func TestGetCatalog(t *testing.T) {
	r, _ := openMinimalReader(t)
	cat, err := r.GetCatalog()
	require.NoError(t, err)

	typ, ok := cat.Get("Type").(*Name)
	require.True(t, ok)
	assert.Equal(t, "Catalog", typ.Value())
}

func TestGetPages(t *testing.T) {
	r, _ := openMinimalReader(t)
	pages, err := r.GetPages()
	require.NoError(t, err)

	count, ok := pages.Get("Count").(*Integer)
	require.True(t, ok)
	assert.Equal(t, int64(1), count.Value())
}

func TestGetPageCount(t *testing.T) {
	r, _ := openMinimalReader(t)
	n, err := r.GetPageCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetPageReturnsLeafPage(t *testing.T) {
	r, _ := openMinimalReader(t)
	page, err := r.GetPage(0)
	require.NoError(t, err)

	typ, ok := page.Get("Type").(*Name)
	require.True(t, ok)
	assert.Equal(t, "Page", typ.Value())
}

func TestGetPageOutOfRangeErrors(t *testing.T) {
	r, _ := openMinimalReader(t)
	_, err := r.GetPage(5)
	assert.Error(t, err)
}

// ============================================================================
// Object resolution Tests
// ============================================================================

func TestGetObject(t *testing.T) {
	r, _ := openMinimalReader(t)
	obj, err := r.GetObject(2)
	require.NoError(t, err)

	dict, ok := obj.(*Dictionary)
	require.True(t, ok)
	typ, ok := dict.Get("Type").(*Name)
	require.True(t, ok)
	assert.Equal(t, "Pages", typ.Value())
}

func TestGetObjectMissingErrors(t *testing.T) {
	r, _ := openMinimalReader(t)
	_, err := r.GetObject(999)
	assert.Error(t, err)
}

func TestResolveReferencesNonReferencePassesThrough(t *testing.T) {
	r, _ := openMinimalReader(t)
	n := NewInteger(42)
	got := r.ResolveReferences(n)
	assert.Same(t, PdfObject(n), got)
}

// ============================================================================
// GetAcroForm Tests
// ============================================================================

func TestGetAcroFormAbsentReturnsNilNil(t *testing.T) {
	r, _ := openMinimalReader(t)
	form, err := r.GetAcroForm()
	require.NoError(t, err)
	assert.Nil(t, form)
}

// ============================================================================
// Trailer / DocumentInfo Tests
// ============================================================================

func TestTrailerHasRootAndSize(t *testing.T) {
	r, _ := openMinimalReader(t)
	trailer := r.Trailer()

	size, ok := trailer.Get("Size").(*Integer)
	require.True(t, ok)
	assert.Equal(t, int64(4), size.Value())
}

func TestGetDocumentInfoWithNoInfoDict(t *testing.T) {
	r, _ := openMinimalReader(t)
	info := r.GetDocumentInfo()
	assert.Equal(t, "1.7", info.Version)
	assert.False(t, info.Encrypted)
	assert.Empty(t, info.Title)
}

// ============================================================================
// Registry wiring Tests
// ============================================================================

func TestRegistryAndXRefTableAccessorsAreWired(t *testing.T) {
	r, _ := openMinimalReader(t)
	require.NotNil(t, r.Registry())
	require.NotNil(t, r.XRefTable())

	entries := r.Registry().All()
	assert.GreaterOrEqual(t, len(entries), 3)
}

func TestClose(t *testing.T) {
	r, _ := openMinimalReader(t)
	assert.NoError(t, r.Close())
}
