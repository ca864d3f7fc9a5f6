package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/coregx/gxpdf/internal/config"
	"github.com/coregx/gxpdf/internal/filter"
	"github.com/coregx/gxpdf/internal/model"
	"github.com/coregx/gxpdf/internal/objparser"
	"github.com/coregx/gxpdf/internal/registry"
	"github.com/coregx/gxpdf/internal/salvage"
	"github.com/coregx/gxpdf/internal/xref"
	"github.com/coregx/gxpdf/logging"
)

// Reader loads a PDF file and exposes its object graph. It owns
// the on-disk bytes, the merged cross-reference table, and the Registry
// that every other subsystem (forms, writer, fonts) resolves references
// through.
type Reader struct {
	filename string
	data     []byte
	version  string

	table    *xref.Table
	registry *registry.Registry
	opts     *config.LoadOptions

	catalog         *Dictionary
	startXRefOffset int64
	closed          bool
}

// NewReader constructs a Reader for filename. Call Open to actually load it.
func NewReader(filename string) *Reader {
	return &Reader{filename: filename, opts: config.DefaultLoadOptions()}
}

// NewReaderWithOptions is NewReader with explicit LoadOptions.
func NewReaderWithOptions(filename string, opts *config.LoadOptions) *Reader {
	return &Reader{filename: filename, opts: config.ResolveLoad(opts)}
}

// Open reads the file from disk, parses its header, cross-reference chain
// and trailer, and loads the catalog. On a corrupt cross-reference chain it
// falls back to the internal/salvage linear scan when LoadOptions.AllowSalvage
// is set (the default).
func (r *Reader) Open() error {
	data, err := os.ReadFile(r.filename)
	if err != nil {
		return fmt.Errorf("parser: open %s: %w", r.filename, err)
	}
	return r.load(data)
}

// load is split out from Open so tests (and callers that already hold the
// bytes in memory) can bypass the filesystem.
func (r *Reader) load(data []byte) error {
	r.data = data
	r.registry = registry.New()

	version, err := r.readHeader()
	if err != nil {
		return err
	}
	r.version = version

	startOffset, startErr := r.findStartXRef()
	r.startXRefOffset = startOffset
	var table *xref.Table
	var xerr error
	if startErr != nil {
		xerr = startErr
	} else {
		table, xerr = xref.Load(data, startOffset, r.warn)
	}

	if xerr != nil {
		if !r.opts.AllowSalvage {
			return fmt.Errorf("parser: load cross-reference table: %w", xerr)
		}
		r.warn(fmt.Sprintf("cross-reference table unusable (%v), falling back to salvage scan", xerr))
		result, serr := salvage.Scan(data, r.warn)
		if serr != nil {
			return fmt.Errorf("parser: salvage failed after xref error %v: %w", xerr, serr)
		}
		table = result.Table
	}
	r.table = table

	r.populateRegistry()

	if err := r.loadCatalog(); err != nil {
		return err
	}

	return nil
}

func (r *Reader) warn(msg string) {
	logging.Logger().Warn("parser: " + msg)
	if r.registry != nil {
		r.registry.AddWarning(msg)
	}
}

// readHeader locates "%PDF-M.m" anywhere in the first kilobyte (some
// producers prepend junk bytes before the header, a tolerance PDF readers
// commonly apply).
func (r *Reader) readHeader() (string, error) {
	head := r.data
	if len(head) > 1024 {
		head = head[:1024]
	}
	idx := strings.Index(string(head), "%PDF-")
	if idx < 0 {
		return "", fmt.Errorf("parser: no %%PDF- header found")
	}
	rest := string(head[idx+len("%PDF-"):])
	end := 0
	for end < len(rest) && (rest[end] == '.' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	if end == 0 {
		return "", fmt.Errorf("parser: malformed version in header")
	}
	return rest[:end], nil
}

// findStartXRef scans backward from EOF for "startxref\n<offset>".
func (r *Reader) findStartXRef() (int64, error) {
	tail := r.data
	const tailWindow = 2048
	start := 0
	if len(tail) > tailWindow {
		start = len(tail) - tailWindow
	}
	window := string(tail[start:])
	idx := strings.LastIndex(window, "startxref")
	if idx < 0 {
		return 0, fmt.Errorf("parser: no startxref found")
	}
	rest := strings.TrimLeft(window[idx+len("startxref"):], " \r\n\t")
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("parser: malformed startxref offset")
	}
	var offset int64
	for i := 0; i < end; i++ {
		offset = offset*10 + int64(rest[i]-'0')
	}
	return offset, nil
}

// populateRegistry parses every in-use and compressed object named by the
// merged table, resolving object-stream containers first so their members
// can be sliced out.
func (r *Reader) populateRegistry() {
	maxNum := 0
	for num, entry := range r.table.Entries {
		if num > maxNum {
			maxNum = num
		}
		if entry.Type != xref.EntryInUse {
			continue
		}
		obj, err := r.parseAt(entry.Offset, num)
		if err != nil {
			r.warn(fmt.Sprintf("failed to parse object %d %d R at offset %d: %v", num, entry.Generation, entry.Offset, err))
			continue
		}
		r.registry.RegisterAt(model.Reference{Num: num, Gen: entry.Generation}, obj)
	}
	r.registry.SeedNextNum(maxNum + 1)

	for num, entry := range r.table.Entries {
		if entry.Type != xref.EntryCompressed {
			continue
		}
		obj, err := r.objectFromStream(entry.StreamNum, entry.Index)
		if err != nil {
			r.warn(fmt.Sprintf("failed to load compressed object %d from stream %d: %v", num, entry.StreamNum, err))
			continue
		}
		ref := model.Reference{Num: num, Gen: 0}
		r.registry.RegisterAt(ref, obj)
		r.registry.MarkCompressed(ref, registry.CompressedLocation{StreamNum: entry.StreamNum, Index: entry.Index})
	}
	r.registry.ClearDirty()
}

func (r *Reader) parseAt(offset int64, wantNum int) (model.Object, error) {
	p := objparser.New(r.data, r.warn)
	p.Seek(offset)
	num, _, val, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	if num != wantNum {
		r.warn(fmt.Sprintf("object at offset %d declares number %d, xref says %d; trusting xref", offset, num, wantNum))
	}
	return val, nil
}

// objectFromStream decodes objStmNum's /Type /ObjStm payload and parses the
// index'th embedded object out of it.
func (r *Reader) objectFromStream(objStmNum, index int) (model.Object, error) {
	containerRef := model.Reference{Num: objStmNum, Gen: 0}
	container := r.registry.Resolve(containerRef)
	strm, ok := container.(*model.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is not a stream", objStmNum)
	}

	decoded, err := filter.DecodeStream(strm)
	if err != nil {
		return nil, fmt.Errorf("decode object stream %d: %w", objStmNum, err)
	}

	n, _ := strm.Dict.GetInt("N")
	first, _ := strm.Dict.GetInt("First")

	type headerEntry struct {
		num    int
		offset int64
	}
	headerParser := objparser.New(decoded, r.warn)
	headers := make([]headerEntry, 0, n)
	for i := int64(0); i < n; i++ {
		numVal, err := headerParser.ParseValue()
		if err != nil {
			return nil, fmt.Errorf("object stream %d: read header %d: %w", objStmNum, i, err)
		}
		offVal, err := headerParser.ParseValue()
		if err != nil {
			return nil, fmt.Errorf("object stream %d: read header offset %d: %w", objStmNum, i, err)
		}
		numN, _ := numVal.(model.Number)
		offN, _ := offVal.(model.Number)
		headers = append(headers, headerEntry{num: int(numN.Int64()), offset: offN.Int64()})
	}

	if index < 0 || index >= len(headers) {
		return nil, fmt.Errorf("object stream %d: index %d out of range (N=%d)", objStmNum, index, n)
	}

	bodyParser := objparser.New(decoded, r.warn)
	bodyParser.Seek(first + headers[index].offset)
	return bodyParser.ParseValue()
}

func (r *Reader) loadCatalog() error {
	if r.table.Trailer == nil {
		return fmt.Errorf("parser: missing trailer")
	}
	rootRef, ok := r.table.Trailer.GetReference("Root")
	if !ok {
		return fmt.Errorf("parser: trailer missing /Root")
	}
	resolved := r.registry.Resolve(model.Reference{Num: rootRef.Num, Gen: rootRef.Gen})
	dict, ok := resolved.(*model.Dictionary)
	if !ok {
		return fmt.Errorf("parser: /Root does not resolve to a dictionary")
	}
	r.catalog = fromModelDict(dict, r)
	return nil
}

// decodeStream implements streamDecoder for Stream.Decode(), applying the
// filter pipeline by name. The stream's raw bytes are never mutated
// in place, only read.
func (r *Reader) decodeStream(s *Stream) ([]byte, error) {
	mdict := toModelDict(s.dict)
	mstrm := model.NewStream(mdict, s.raw)
	return filter.DecodeStream(mstrm)
}

// Close releases the Reader. The current implementation holds no external
// resources beyond the in-memory byte slice, so Close is a formality that
// keeps the API symmetric with Open and safe to defer unconditionally.
func (r *Reader) Close() error {
	r.closed = true
	return nil
}

// GetObject returns the object registered under objectNum at generation 0,
// converted to the PdfObject surface.
func (r *Reader) GetObject(objectNum int) (PdfObject, error) {
	resolved := r.registry.Resolve(model.Reference{Num: objectNum, Gen: 0})
	if _, isNull := resolved.(model.Null); isNull {
		return nil, fmt.Errorf("parser: object %d not found", objectNum)
	}
	return fromModel(resolved, r), nil
}

// ResolveReferences dereferences obj through the registry if it is an
// IndirectReference, otherwise returns it unchanged. Never recurses more
// than once, mirroring the registry's own Resolve guarantee.
func (r *Reader) ResolveReferences(obj PdfObject) PdfObject {
	ref, ok := obj.(*IndirectReference)
	if !ok {
		return obj
	}
	resolved := r.registry.Resolve(model.Reference{Num: ref.Number, Gen: ref.Generation})
	out := fromModel(resolved, r)
	if dict, ok := out.(*Dictionary); ok {
		dict.SetObjectID(ref.Number, ref.Generation)
	}
	return out
}

// ResolveArray resolves obj and type-asserts the result to *Array.
func (r *Reader) ResolveArray(obj PdfObject) (*Array, error) {
	resolved := r.ResolveReferences(obj)
	arr, ok := resolved.(*Array)
	if !ok {
		return nil, fmt.Errorf("parser: expected array, got %T", resolved)
	}
	return arr, nil
}

// GetCatalog returns the document catalog dictionary.
func (r *Reader) GetCatalog() (*Dictionary, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("parser: no catalog loaded")
	}
	return r.catalog, nil
}

// GetAcroForm returns the /AcroForm dictionary, or (nil, nil) if the
// document has no interactive form.
func (r *Reader) GetAcroForm() (*Dictionary, error) {
	cat, err := r.GetCatalog()
	if err != nil {
		return nil, err
	}
	obj := cat.Get("AcroForm")
	if obj == nil {
		return nil, nil
	}
	resolved := r.ResolveReferences(obj)
	dict, ok := resolved.(*Dictionary)
	if !ok {
		return nil, nil
	}
	return dict, nil
}

// GetPages returns the root /Pages node.
func (r *Reader) GetPages() (*Dictionary, error) {
	cat, err := r.GetCatalog()
	if err != nil {
		return nil, err
	}
	obj := cat.Get("Pages")
	if obj == nil {
		return nil, fmt.Errorf("parser: catalog missing /Pages")
	}
	resolved := r.ResolveReferences(obj)
	dict, ok := resolved.(*Dictionary)
	if !ok {
		return nil, fmt.Errorf("parser: /Pages does not resolve to a dictionary")
	}
	return dict, nil
}

// GetPageCount walks the page tree counting leaf /Page nodes. It trusts
// /Count at the root when present (the common case) and falls back to a
// manual walk otherwise.
func (r *Reader) GetPageCount() (int, error) {
	pages, err := r.GetPages()
	if err != nil {
		return 0, err
	}
	if n, ok := pages.Get("Count").(*Integer); ok {
		return int(n.Value()), nil
	}
	count := 0
	seen := make(map[*Dictionary]bool)
	var walk func(*Dictionary)
	walk = func(node *Dictionary) {
		if node == nil || seen[node] {
			return
		}
		seen[node] = true
		if typ, ok := node.Get("Type").(*Name); ok && typ.Value() == "Page" {
			count++
			return
		}
		kids, err := r.ResolveArray(node.Get("Kids"))
		if err != nil {
			return
		}
		for i := 0; i < kids.Len(); i++ {
			if kid, ok := r.ResolveReferences(kids.Get(i)).(*Dictionary); ok {
				walk(kid)
			}
		}
	}
	walk(pages)
	return count, nil
}

// GetPage returns the 0-indexed pageNum'th leaf page, walking the page
// tree in document order. Inherited attributes (MediaBox/CropBox/
// Resources/Rotate) are not merged here; callers that need them walk up
// via /Parent themselves.
func (r *Reader) GetPage(pageNum int) (*Dictionary, error) {
	pages, err := r.GetPages()
	if err != nil {
		return nil, err
	}
	idx := pageNum
	visited := make(map[*Dictionary]bool)
	result, err := r.getPageFromNode(pages, &idx, visited)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("parser: page %d not found", pageNum)
	}
	return result, nil
}

func (r *Reader) getPageFromNode(node *Dictionary, remaining *int, visited map[*Dictionary]bool) (*Dictionary, error) {
	if node == nil || visited[node] {
		return nil, nil
	}
	visited[node] = true

	if typ, ok := node.Get("Type").(*Name); ok && typ.Value() == "Page" {
		if *remaining == 0 {
			return node, nil
		}
		*remaining--
		return nil, nil
	}

	kidsObj := node.Get("Kids")
	if kidsObj == nil {
		return nil, nil
	}
	kids, err := r.ResolveArray(kidsObj)
	if err != nil {
		return nil, err
	}
	for i := 0; i < kids.Len(); i++ {
		kid, ok := r.ResolveReferences(kids.Get(i)).(*Dictionary)
		if !ok {
			continue
		}
		found, err := r.getPageFromNode(kid, remaining, visited)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}

// Version returns the PDF version from the file header (e.g. "1.7").
func (r *Reader) Version() string { return r.version }

// Trailer returns the merged trailer dictionary.
func (r *Reader) Trailer() *Dictionary {
	return fromModelDict(r.table.Trailer, r)
}

// XRefTable exposes the merged cross-reference table for the serializer's
// incremental-save path.
func (r *Reader) XRefTable() *xref.Table { return r.table }

// Registry exposes the object registry so the writer and forms subsystems
// operate over the same live object graph the Reader loaded.
func (r *Reader) Registry() *registry.Registry { return r.registry }

// RawData returns the exact bytes Open read from disk, the prefix an
// incremental save appends to.
func (r *Reader) RawData() []byte { return r.data }

// StartXRefOffset returns the byte offset the file's own "startxref"
// pointed at, the value an incremental save's new section writes back as
// its trailer's /Prev.
func (r *Reader) StartXRefOffset() int64 { return r.startXRefOffset }

// RootRef returns the trailer's /Root reference.
func (r *Reader) RootRef() (model.Reference, bool) {
	if r.table == nil || r.table.Trailer == nil {
		return model.Reference{}, false
	}
	return r.table.Trailer.GetReference("Root")
}

// InfoRef returns the trailer's /Info reference, if any.
func (r *Reader) InfoRef() (model.Reference, bool) {
	if r.table == nil || r.table.Trailer == nil {
		return model.Reference{}, false
	}
	return r.table.Trailer.GetReference("Info")
}

// DocInfo is the document metadata dictionary resolved into plain strings.
type DocInfo struct {
	Version   string
	Title     string
	Author    string
	Subject   string
	Keywords  string
	Creator   string
	Producer  string
	Encrypted bool
}

// GetDocumentInfo reads /Info and /Encrypt off the trailer.
func (r *Reader) GetDocumentInfo() DocInfo {
	info := DocInfo{Version: r.version}
	trailer := r.table.Trailer
	if trailer == nil {
		return info
	}
	if _, hasEncrypt := trailer.Get("Encrypt"); hasEncrypt {
		info.Encrypted = true
	}
	infoRefObj, ok := trailer.Get("Info")
	if !ok {
		return info
	}
	resolved := r.registry.Resolve(infoRefObj)
	dict, ok := resolved.(*model.Dictionary)
	if !ok {
		return info
	}
	getStr := func(key string) string {
		v, ok := dict.Get(key)
		if !ok {
			return ""
		}
		resolved := r.registry.Resolve(v)
		if s, ok := resolved.(model.String); ok {
			return string(s.Value)
		}
		return ""
	}
	info.Title = getStr("Title")
	info.Author = getStr("Author")
	info.Subject = getStr("Subject")
	info.Keywords = getStr("Keywords")
	info.Creator = getStr("Creator")
	info.Producer = getStr("Producer")
	return info
}

// String renders a short diagnostic summary.
func (r *Reader) String() string {
	return fmt.Sprintf("parser.Reader{file: %s, version: %s, objects: %d}", r.filename, r.version, len(r.table.Entries))
}
