package writer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/coregx/gxpdf/internal/config"
	"github.com/coregx/gxpdf/internal/filter"
	"github.com/coregx/gxpdf/internal/model"
	"github.com/coregx/gxpdf/internal/registry"
)

// Finalizer mutates a registry in place immediately before RegistryWriter
// walks it for output. Subsystems register one to fold edits into a save:
// font subsetting rewrites an embedded font's program, form handling
// regenerates a touched widget's appearance stream.
type Finalizer interface {
	Finalize(reg *registry.Registry, opts *config.SaveOptions) error
}

// Root names the two objects a save must keep directly locatable: the
// catalog every trailer's /Root points to, and the (optional) info
// dictionary. Both are excluded from object-stream batching so a reader
// that only understands classic xref entries can still find them.
type Root struct {
	Catalog model.Reference
	Info    model.Reference // zero value means the document has no /Info
}

// RegistryWriter serializes a live object registry — the one
// internal/parser.Reader populates on Open — back to PDF bytes. Unlike
// PdfWriter, which only ever emits a freshly authored document.Document,
// RegistryWriter can round-trip a loaded document: WriteFull walks
// registry.Registry.All(), WriteIncremental walks only
// registry.Registry.Dirty() and appends to the original bytes.
type RegistryWriter struct {
	opts       *config.SaveOptions
	finalizers []Finalizer
}

// NewRegistryWriter returns a RegistryWriter configured by opts (nil means
// config.DefaultSaveOptions()).
func NewRegistryWriter(opts *config.SaveOptions) *RegistryWriter {
	return &RegistryWriter{opts: config.Resolve(opts)}
}

// AddFinalizer registers f to run, in registration order, before every save
// this writer performs.
func (rw *RegistryWriter) AddFinalizer(f Finalizer) {
	rw.finalizers = append(rw.finalizers, f)
}

func (rw *RegistryWriter) runFinalizers(reg *registry.Registry) error {
	for _, f := range rw.finalizers {
		if err := f.Finalize(reg, rw.opts); err != nil {
			return fmt.Errorf("finalize: %w", err)
		}
	}
	return nil
}

// offsetWriter tracks the running byte offset of everything written through
// it, starting from an arbitrary base so incremental saves can report
// correct absolute offsets for bytes appended after existing file content.
type offsetWriter struct {
	w      io.Writer
	offset int64
}

func (ow *offsetWriter) Write(p []byte) (int, error) {
	n, err := ow.w.Write(p)
	ow.offset += int64(n)
	return n, err
}

// WriteFull emits every live object in reg as a complete, standalone PDF
// file: header, objects in ascending id order, then either a classic xref
// table plus trailer or (when opts.UseObjectStreams/UseXRefStream) one
// compressed object stream plus a cross-reference stream.
func (rw *RegistryWriter) WriteFull(w io.Writer, reg *registry.Registry, version string, root Root) error {
	if err := rw.runFinalizers(reg); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	ow := &offsetWriter{w: bw}

	if _, err := fmt.Fprintf(ow, "%%PDF-%s\n", version); err != nil {
		return err
	}
	if _, err := ow.Write([]byte{0x25, 0xE2, 0xE3, 0xCF, 0xD3, 0x0A}); err != nil {
		return err
	}

	entries := reg.All()
	offsets := make(map[int]int64, len(entries))
	var batched []registry.Entry

	for _, e := range entries {
		if rw.opts.UseObjectStreams && objectStreamEligible(e, root) {
			batched = append(batched, e)
			continue
		}
		offsets[e.Ref.Num] = ow.offset
		if err := writeIndirectEntry(ow, e, rw.opts); err != nil {
			return fmt.Errorf("write object %d: %w", e.Ref.Num, err)
		}
	}

	compressedLocs := make(map[int]registry.CompressedLocation)
	if len(batched) > 0 {
		objStmNum := reg.AllocateRef().Num
		offset, locs, err := writeObjectStream(ow, objStmNum, batched, rw.opts)
		if err != nil {
			return err
		}
		offsets[objStmNum] = offset
		compressedLocs = locs
	}

	size := reg.NextNum()
	nums := make([]int, size)
	for i := range nums {
		nums[i] = i
	}

	xrefOffset := ow.offset
	if rw.opts.UseXRefStream {
		xrefStmNum := reg.AllocateRef().Num
		size = reg.NextNum()
		nums = append(nums, xrefStmNum)
		offsets[xrefStmNum] = ow.offset
		if err := writeXRefStreamSection(ow, xrefStmNum, size, nums, offsets, compressedLocs, root, nil, rw.opts); err != nil {
			return err
		}
	} else {
		if err := writeClassicXRefSection(ow, nums, offsets); err != nil {
			return err
		}
		if err := writeClassicTrailer(ow, size, root, nil); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(ow, "startxref\n%d\n%%%%EOF\n", xrefOffset); err != nil {
		return err
	}
	reg.ClearDirty()
	return bw.Flush()
}

// WriteIncremental appends a new update section after sourceBytes: only
// objects reg.Dirty() reports are re-emitted, followed by a cross-reference
// section whose /Prev points at prevStartXRef. sourceBytes is copied
// verbatim first, so the result's first len(sourceBytes) bytes equal the
// original file exactly.
func (rw *RegistryWriter) WriteIncremental(w io.Writer, reg *registry.Registry, sourceBytes []byte, prevStartXRef int64, root Root) error {
	if err := rw.runFinalizers(reg); err != nil {
		return err
	}

	if _, err := w.Write(sourceBytes); err != nil {
		return err
	}
	base := int64(len(sourceBytes))
	if len(sourceBytes) > 0 && sourceBytes[len(sourceBytes)-1] != '\n' {
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
		base++
	}

	bw := bufio.NewWriter(w)
	ow := &offsetWriter{w: bw, offset: base}

	dirty := reg.Dirty()
	offsets := make(map[int]int64)
	compressedLocs := make(map[int]registry.CompressedLocation)
	var touched []int

	var batched []registry.Entry
	for _, e := range dirty {
		touched = append(touched, e.Ref.Num)
		if e.Obj == nil {
			continue // freed object: xref gets a free entry, nothing to write
		}
		if rw.opts.UseObjectStreams && objectStreamEligible(e, root) {
			batched = append(batched, e)
			continue
		}
		offsets[e.Ref.Num] = ow.offset
		if err := writeIndirectEntry(ow, e, rw.opts); err != nil {
			return fmt.Errorf("write object %d: %w", e.Ref.Num, err)
		}
	}

	size := reg.NextNum()
	if len(batched) > 0 {
		objStmNum := reg.AllocateRef().Num
		size = reg.NextNum()
		offset, locs, err := writeObjectStream(ow, objStmNum, batched, rw.opts)
		if err != nil {
			return err
		}
		offsets[objStmNum] = offset
		compressedLocs = locs
		touched = append(touched, objStmNum)
	}

	xrefOffset := ow.offset
	prev := prevStartXRef
	if rw.opts.UseXRefStream {
		xrefStmNum := reg.AllocateRef().Num
		size = reg.NextNum()
		touched = append(touched, xrefStmNum)
		offsets[xrefStmNum] = ow.offset
		if err := writeXRefStreamSection(ow, xrefStmNum, size, touched, offsets, compressedLocs, root, &prev, rw.opts); err != nil {
			return err
		}
	} else {
		if err := writeClassicXRefSection(ow, touched, offsets); err != nil {
			return err
		}
		if err := writeClassicTrailer(ow, size, root, &prev); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(ow, "startxref\n%d\n%%%%EOF\n", xrefOffset); err != nil {
		return err
	}
	reg.ClearDirty()
	return bw.Flush()
}

func objectStreamEligible(e registry.Entry, root Root) bool {
	if e.Ref.Gen != 0 {
		return false
	}
	if e.Ref == root.Catalog || (root.Info != (model.Reference{}) && e.Ref == root.Info) {
		return false
	}
	_, isStream := e.Obj.(*model.Stream)
	return !isStream
}

func writeIndirectEntry(w io.Writer, e registry.Entry, opts *config.SaveOptions) error {
	body, err := encodeIndirectBody(e.Obj, opts)
	if err != nil {
		return err
	}
	_, err = NewIndirectObject(e.Ref.Num, e.Ref.Gen, body).WriteTo(w)
	return err
}

// writeObjectStream batches entries into a single /Type /ObjStm, returning
// its own file offset and the compressed-location each member now lives at.
func writeObjectStream(w io.Writer, objStmNum int, entries []registry.Entry, opts *config.SaveOptions) (int64, map[int]registry.CompressedLocation, error) {
	var body bytes.Buffer
	var header bytes.Buffer
	locs := make(map[int]registry.CompressedLocation, len(entries))

	for i, e := range entries {
		fmt.Fprintf(&header, "%d %d ", e.Ref.Num, body.Len())
		if err := EncodeValue(&body, e.Obj); err != nil {
			return 0, nil, fmt.Errorf("encode compressed object %d: %w", e.Ref.Num, err)
		}
		body.WriteByte(' ')
		locs[e.Ref.Num] = registry.CompressedLocation{StreamNum: objStmNum, Index: i}
	}

	data := append(append([]byte{}, header.Bytes()...), body.Bytes()...)
	dict := model.NewDictionary()
	dict.Set("Type", model.Name("ObjStm"))
	dict.Set("N", model.Int(int64(len(entries))))
	dict.Set("First", model.Int(int64(header.Len())))

	if opts.CompressStreams {
		encoded, err := filter.EncodeStream(data, []string{"FlateDecode"}, []*model.Dictionary{nil})
		if err != nil {
			return 0, nil, fmt.Errorf("compress object stream: %w", err)
		}
		dict.Set("Filter", model.Name("FlateDecode"))
		data = encoded
	}
	dict.Set("Length", model.Int(int64(len(data))))

	var dictBuf bytes.Buffer
	if err := encodeDict(&dictBuf, dict); err != nil {
		return 0, nil, err
	}
	dictBuf.WriteString("\nstream\n")
	dictBuf.Write(data)
	dictBuf.WriteString("\nendstream")

	ow, isOffset := w.(*offsetWriter)
	var offset int64
	if isOffset {
		offset = ow.offset
	}
	if _, err := NewIndirectObject(objStmNum, 0, dictBuf.Bytes()).WriteTo(w); err != nil {
		return 0, nil, err
	}
	return offset, locs, nil
}

// contiguousRuns groups a sorted-or-unsorted set of object numbers into
// [start, count] runs, the shape a classic xref subsection header and a
// cross-reference stream's /Index array both need.
func contiguousRuns(nums []int) [][2]int {
	sorted := append([]int{}, nums...)
	sort.Ints(sorted)
	var runs [][2]int
	for i := 0; i < len(sorted); {
		start := sorted[i]
		count := 1
		for i+count < len(sorted) && sorted[i+count] == start+count {
			count++
		}
		runs = append(runs, [2]int{start, count})
		i += count
	}
	return runs
}

func writeClassicXRefSection(w io.Writer, nums []int, offsets map[int]int64) error {
	if _, err := io.WriteString(w, "xref\n"); err != nil {
		return err
	}
	for _, run := range contiguousRuns(nums) {
		start, count := run[0], run[1]
		if _, err := fmt.Fprintf(w, "%d %d\n", start, count); err != nil {
			return err
		}
		for n := start; n < start+count; n++ {
			if n == 0 {
				if _, err := io.WriteString(w, "0000000000 65535 f \n"); err != nil {
					return err
				}
				continue
			}
			off, ok := offsets[n]
			if !ok {
				if _, err := io.WriteString(w, "0000000000 00000 f \n"); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(w, "%010d %05d n \n", off, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeClassicTrailer(w io.Writer, size int, root Root, prevOffset *int64) error {
	if _, err := io.WriteString(w, "trailer\n"); err != nil {
		return err
	}
	var buf bytes.Buffer
	writeTrailerDictBody(&buf, size, root, prevOffset)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeTrailerDictBody(buf *bytes.Buffer, size int, root Root, prevOffset *int64) {
	buf.WriteString("<<")
	fmt.Fprintf(buf, " /Size %d", size)
	fmt.Fprintf(buf, " /Root %d %d R", root.Catalog.Num, root.Catalog.Gen)
	if root.Info != (model.Reference{}) {
		fmt.Fprintf(buf, " /Info %d %d R", root.Info.Num, root.Info.Gen)
	}
	if prevOffset != nil {
		fmt.Fprintf(buf, " /Prev %d", *prevOffset)
	}
	id := documentID(size, root)
	fmt.Fprintf(buf, " /ID [<%x> <%x>]", id, id)
	buf.WriteString(" >>\n")
}

// documentID derives a 16-byte file identifier from the save's own shape
// (object count and root reference) using blake2b rather than MD5: the PDF
// reference only asks for "a message digest", not a specific algorithm.
func documentID(size int, root Root) []byte {
	h, _ := blake2b.New(16, nil)
	fmt.Fprintf(h, "gxpdf:%d:%d:%d", size, root.Catalog.Num, root.Catalog.Gen)
	return h.Sum(nil)
}

func writeXRefStreamSection(
	w io.Writer,
	xrefStmNum, size int,
	nums []int,
	offsets map[int]int64,
	compressedLocs map[int]registry.CompressedLocation,
	root Root,
	prevOffset *int64,
	opts *config.SaveOptions,
) error {
	sorted := append([]int{}, nums...)
	sort.Ints(sorted)

	var recs bytes.Buffer
	for _, n := range sorted {
		switch {
		case n == 0:
			writeXRefRecord(&recs, 0, 0, 65535)
		default:
			if loc, ok := compressedLocs[n]; ok {
				writeXRefRecord(&recs, 2, int64(loc.StreamNum), int64(loc.Index))
			} else if off, ok := offsets[n]; ok {
				writeXRefRecord(&recs, 1, off, 0)
			} else {
				writeXRefRecord(&recs, 0, 0, 0)
			}
		}
	}

	dict := model.NewDictionary()
	dict.Set("Type", model.Name("XRef"))
	dict.Set("Size", model.Int(int64(size)))
	dict.Set("W", model.Array{model.Int(1), model.Int(4), model.Int(2)})
	dict.Set("Index", runsToArray(contiguousRuns(sorted)))
	dict.Set("Root", root.Catalog)
	if root.Info != (model.Reference{}) {
		dict.Set("Info", root.Info)
	}
	if prevOffset != nil {
		dict.Set("Prev", model.Int(*prevOffset))
	}
	id := documentID(size, root)
	dict.Set("ID", model.Array{model.String{Value: id, Hex: true}, model.String{Value: id, Hex: true}})

	data := recs.Bytes()
	if opts.CompressStreams {
		encoded, err := filter.EncodeStream(data, []string{"FlateDecode"}, []*model.Dictionary{nil})
		if err != nil {
			return fmt.Errorf("compress xref stream: %w", err)
		}
		dict.Set("Filter", model.Name("FlateDecode"))
		data = encoded
	}
	dict.Set("Length", model.Int(int64(len(data))))

	var dictBuf bytes.Buffer
	if err := encodeDict(&dictBuf, dict); err != nil {
		return err
	}
	dictBuf.WriteString("\nstream\n")
	dictBuf.Write(data)
	dictBuf.WriteString("\nendstream")

	_, err := NewIndirectObject(xrefStmNum, 0, dictBuf.Bytes()).WriteTo(w)
	return err
}

func writeXRefRecord(buf *bytes.Buffer, typ int, f2, f3 int64) {
	buf.WriteByte(byte(typ))
	buf.WriteByte(byte(f2 >> 24))
	buf.WriteByte(byte(f2 >> 16))
	buf.WriteByte(byte(f2 >> 8))
	buf.WriteByte(byte(f2))
	buf.WriteByte(byte(f3 >> 8))
	buf.WriteByte(byte(f3))
}

func runsToArray(runs [][2]int) model.Array {
	arr := make(model.Array, 0, len(runs)*2)
	for _, r := range runs {
		arr = append(arr, model.Int(int64(r[0])), model.Int(int64(r[1])))
	}
	return arr
}
