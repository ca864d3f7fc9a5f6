package fonts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// FontSubset accumulates the characters a document actually uses from a
// TTFFont, then Build() produces a standalone sfnt file containing only the
// glyphs reachable from that usage (plus their composite-glyph components)
// — the embedding a PDF writer attaches as /FontFile2.
type FontSubset struct {
	// BaseFont is the full font this subset draws glyphs from.
	BaseFont *TTFFont

	// UsedChars is the set of runes referenced by content streams so far.
	UsedChars map[rune]bool

	// SubsetData is the built, standalone font file. Nil until Build runs.
	SubsetData []byte

	// GlyphMapping maps original glyph ids to their id in SubsetData,
	// populated by Build. Content stream encoding uses this to translate
	// a glyph id it picked from BaseFont.CharToGlyph into the subset's
	// renumbered glyph id.
	GlyphMapping map[uint16]uint16

	built bool
}

// NewFontSubset creates an empty subset over base.
func NewFontSubset(base *TTFFont) *FontSubset {
	return &FontSubset{
		BaseFont:     base,
		UsedChars:    make(map[rune]bool),
		GlyphMapping: make(map[uint16]uint16),
	}
}

// UseString marks every rune in s as used by the subset.
func (s *FontSubset) UseString(str string) {
	for _, r := range str {
		s.UsedChars[r] = true
	}
}

// UseRune marks a single rune as used.
func (s *FontSubset) UseRune(r rune) {
	s.UsedChars[r] = true
}

// Build computes the glyph closure for the used characters and assembles
// a standalone sfnt file containing only those glyphs, renumbered
// contiguously starting at glyph 0 (.notdef). Idempotent: a second call is
// a no-op once SubsetData has been produced.
func (s *FontSubset) Build() error {
	if s.built {
		return nil
	}
	if s.BaseFont == nil {
		return fmt.Errorf("subset has no base font")
	}

	seed := make([]uint16, 0, len(s.UsedChars))
	for ch := range s.UsedChars {
		if gid, ok := s.BaseFont.CharToGlyph[ch]; ok {
			seed = append(seed, gid)
		}
	}

	used, err := s.BaseFont.GlyphClosure(seed)
	if err != nil {
		return fmt.Errorf("glyph closure: %w", err)
	}

	oldIDs := make([]uint16, 0, len(used))
	for gid := range used {
		oldIDs = append(oldIDs, gid)
	}
	sort.Slice(oldIDs, func(i, j int) bool { return oldIDs[i] < oldIDs[j] })

	s.GlyphMapping = make(map[uint16]uint16, len(oldIDs))
	for newID, oldID := range oldIDs {
		//nolint:gosec // subset glyph counts never approach uint16 overflow.
		s.GlyphMapping[oldID] = uint16(newID)
	}

	data, err := s.BaseFont.rebuildSubsetFont(oldIDs, s.GlyphMapping)
	if err != nil {
		return fmt.Errorf("rebuild font: %w", err)
	}

	s.SubsetData = data
	s.built = true
	return nil
}

// rebuildSubsetFont assembles a new sfnt file: glyf/loca/hmtx/maxp rewritten
// to the renumbered glyph set (in oldIDs order), every other table copied
// through unchanged, then the whole thing laid out with the standard sfnt
// table directory, 4-byte table padding and checksums.
func (f *TTFFont) rebuildSubsetFont(oldIDs []uint16, mapping map[uint16]uint16) ([]byte, error) {
	loca, err := f.ParseLoca()
	if err != nil {
		return nil, err
	}

	newGlyf, newLoca, err := f.rebuildGlyfAndLoca(oldIDs, loca, mapping)
	if err != nil {
		return nil, err
	}
	newHmtx := f.rebuildHmtx(oldIDs)
	newMaxp := f.rebuildMaxp(len(oldIDs))
	newHead := f.rebuildHead()

	tables := make(map[string][]byte, len(f.Tables))
	for tag, t := range f.Tables {
		tables[tag] = t.Data
	}
	tables["glyf"] = newGlyf
	tables["loca"] = newLoca
	tables["hmtx"] = newHmtx
	tables["maxp"] = newMaxp
	tables["head"] = newHead

	return assembleSfnt(tables)
}

// rebuildGlyfAndLoca copies each kept glyph's bytes in oldIDs order,
// remapping composite glyph component ids to their new numbering, and
// produces a matching long-format loca table.
func (f *TTFFont) rebuildGlyfAndLoca(oldIDs []uint16, loca []uint32, mapping map[uint16]uint16) ([]byte, []byte, error) {
	var glyf bytes.Buffer
	offsets := make([]uint32, 0, len(oldIDs)+1)
	offsets = append(offsets, 0)

	table, ok := f.Tables["glyf"]
	if !ok {
		return nil, nil, fmt.Errorf("glyf table not found")
	}

	for _, oldID := range oldIDs {
		if int(oldID)+1 >= len(loca) {
			offsets = append(offsets, uint32(glyf.Len()))
			continue
		}
		start, end := loca[oldID], loca[oldID+1]
		if end <= start || int(end) > len(table.Data) {
			offsets = append(offsets, uint32(glyf.Len()))
			continue
		}
		raw := append([]byte(nil), table.Data[start:end]...)

		numContours := int(int16(binary.BigEndian.Uint16(raw[0:2])))
		if numContours < 0 {
			if err := remapCompositeComponents(raw[10:], mapping); err != nil {
				return nil, nil, fmt.Errorf("glyph %d: %w", oldID, err)
			}
		}

		glyf.Write(raw)
		// glyf entries are padded to even length (loca offsets must be even
		// for short-format fonts; harmless for long-format too).
		if glyf.Len()%2 != 0 {
			glyf.WriteByte(0)
		}
		offsets = append(offsets, uint32(glyf.Len()))
	}

	locaBuf := make([]byte, len(offsets)*4)
	for i, off := range offsets {
		binary.BigEndian.PutUint32(locaBuf[i*4:], off)
	}

	return glyf.Bytes(), locaBuf, nil
}

// remapCompositeComponents rewrites a composite glyph's component glyph
// ids in place to their renumbered ids.
func remapCompositeComponents(data []byte, mapping map[uint16]uint16) error {
	off := 0
	for {
		if off+4 > len(data) {
			return fmt.Errorf("component record truncated")
		}
		flags := binary.BigEndian.Uint16(data[off:])
		oldGlyphIndex := binary.BigEndian.Uint16(data[off+2:])
		if newID, ok := mapping[oldGlyphIndex]; ok {
			binary.BigEndian.PutUint16(data[off+2:], newID)
		}
		off += 4

		if flags&compArgsAreWords != 0 {
			off += 4
		} else {
			off += 2
		}

		switch {
		case flags&compHave2x2 != 0:
			off += 8
		case flags&compHaveXYScale != 0:
			off += 4
		case flags&compHaveScale != 0:
			off += 2
		}

		if flags&compMoreComponents == 0 {
			break
		}
	}
	return nil
}

// rebuildHmtx writes long horizontal metrics for every kept glyph, in its
// new numbering, reading widths (and left side bearings, read straight
// from the original hmtx bytes) by old glyph id.
func (f *TTFFont) rebuildHmtx(oldIDs []uint16) []byte {
	hmtxTable := f.Tables["hmtx"]
	hheaTable := f.Tables["hhea"]
	var numHMetrics uint16
	if hheaTable != nil && len(hheaTable.Data) >= 36 {
		numHMetrics = binary.BigEndian.Uint16(hheaTable.Data[34:])
	}

	buf := make([]byte, len(oldIDs)*4)
	for i, oldID := range oldIDs {
		width := f.GlyphWidths[oldID]
		var lsb int16
		if hmtxTable != nil {
			if oldID < numHMetrics && int(oldID)*4+4 <= len(hmtxTable.Data) {
				lsb = int16(binary.BigEndian.Uint16(hmtxTable.Data[int(oldID)*4+2:]))
			}
		}
		binary.BigEndian.PutUint16(buf[i*4:], width)
		binary.BigEndian.PutUint16(buf[i*4+2:], uint16(lsb))
	}
	return buf
}

// rebuildMaxp copies the original maxp table with numGlyphs replaced.
func (f *TTFFont) rebuildMaxp(numGlyphs int) []byte {
	orig := f.Tables["maxp"].Data
	out := append([]byte(nil), orig...)
	//nolint:gosec // subset never approaches uint16 overflow.
	binary.BigEndian.PutUint16(out[4:6], uint16(numGlyphs))
	return out
}

// rebuildHead copies the original head table, forcing indexToLocFormat to
// long (1) since rebuildGlyfAndLoca always emits long-format loca offsets.
func (f *TTFFont) rebuildHead() []byte {
	orig := f.Tables["head"].Data
	out := append([]byte(nil), orig...)
	if len(out) >= 52 {
		binary.BigEndian.PutUint16(out[50:52], 1)
	}
	// checksumAdjustment (bytes 8:12) is recomputed by assembleSfnt once
	// every table's final bytes and offset are known; zero it here so the
	// placeholder doesn't leak into the checksum pass.
	if len(out) >= 12 {
		binary.BigEndian.PutUint32(out[8:12], 0)
	}
	return out
}

// assembleSfnt lays out a TrueType file: directory header, table directory
// (alphabetically sorted, as required), then each table padded to a 4-byte
// boundary, finishing with the head table's checksumAdjustment fixed up
// per the TrueType spec's whole-file checksum algorithm.
func assembleSfnt(tables map[string][]byte) ([]byte, error) {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	numTables := len(tags)
	headerSize := 12 + numTables*16

	type placed struct {
		tag    string
		offset uint32
		length uint32
		data   []byte
	}
	placements := make([]placed, 0, numTables)

	offset := uint32(headerSize)
	for _, tag := range tags {
		data := tables[tag]
		length := uint32(len(data))
		padded := data
		if pad := (4 - len(data)%4) % 4; pad != 0 {
			padded = append(append([]byte(nil), data...), make([]byte, pad)...)
		}
		placements = append(placements, placed{tag, offset, length, padded})
		offset += uint32(len(padded))
	}

	var out bytes.Buffer
	out.Grow(int(offset))

	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:], 0x00010000)
	binary.BigEndian.PutUint16(hdr[4:], uint16(numTables))
	searchRange, entrySelector, rangeShift := sfntSearchParams(numTables)
	binary.BigEndian.PutUint16(hdr[6:], searchRange)
	binary.BigEndian.PutUint16(hdr[8:], entrySelector)
	binary.BigEndian.PutUint16(hdr[10:], rangeShift)
	out.Write(hdr[:])

	for _, p := range placements {
		var entry [16]byte
		copy(entry[0:4], p.tag)
		binary.BigEndian.PutUint32(entry[4:8], tableChecksum(p.data))
		binary.BigEndian.PutUint32(entry[8:12], p.offset)
		binary.BigEndian.PutUint32(entry[12:16], p.length)
		out.Write(entry[:])
	}

	var headOffset int = -1
	for _, p := range placements {
		if p.tag == "head" {
			headOffset = int(p.offset)
		}
		out.Write(p.data)
	}

	buf := out.Bytes()
	if headOffset >= 0 && headOffset+12 <= len(buf) {
		fileChecksum := tableChecksum(buf)
		adjustment := 0xB1B0AFBA - fileChecksum
		binary.BigEndian.PutUint32(buf[headOffset+8:headOffset+12], adjustment)
	}

	return buf, nil
}

func tableChecksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(data); i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if rem := len(data) % 4; rem != 0 {
		var last [4]byte
		copy(last[:], data[len(data)-rem:])
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

func sfntSearchParams(numTables int) (searchRange, entrySelector, rangeShift uint16) {
	pow := 1
	log2 := 0
	for pow*2 <= numTables {
		pow *= 2
		log2++
	}
	//nolint:gosec // numTables is a font's table count, always small.
	searchRange = uint16(pow * 16)
	//nolint:gosec // log2 of a small table count fits uint16.
	entrySelector = uint16(log2)
	//nolint:gosec // numTables*16 fits uint16 for any real font.
	rangeShift = uint16(numTables*16) - searchRange
	return
}
