// Package xref implements cross-reference table and cross-reference stream
// ingestion: classic "xref" sections, /Type /XRef streams, /Prev chain
// following with newest-wins merge and cycle detection, and the hybrid
// /XRefStm pointer.
package xref

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/coregx/gxpdf/internal/filter"
	"github.com/coregx/gxpdf/internal/model"
	"github.com/coregx/gxpdf/internal/objparser"
)

// EntryType classifies a cross-reference slot.
type EntryType int

const (
	EntryFree EntryType = iota
	EntryInUse
	EntryCompressed
)

// Entry is one cross-reference slot. For EntryInUse, Offset is a byte
// position; for EntryCompressed, StreamNum/Index locate it inside an
// object stream; for EntryFree, Offset carries the next free object number.
type Entry struct {
	Type       EntryType
	Offset     int64
	Generation int
	StreamNum  int
	Index      int
}

// Table is a merged cross-reference table: object number -> newest Entry,
// plus the trailer dictionary from the section that contributed /Root.
type Table struct {
	Entries map[int]*Entry
	Trailer *model.Dictionary
}

func newTable() *Table {
	return &Table{Entries: make(map[int]*Entry), Trailer: model.NewDictionary()}
}

// MergeOlder folds an older table's entries into t without overwriting
// anything t already has — "newest entry for a given id wins".
func (t *Table) MergeOlder(older *Table) {
	for num, e := range older.Entries {
		if _, exists := t.Entries[num]; !exists {
			t.Entries[num] = e
		}
	}
	if older.Trailer != nil {
		for _, k := range older.Trailer.Keys() {
			if _, exists := t.Trailer.Get(k); !exists {
				v, _ := older.Trailer.Get(k)
				t.Trailer.Set(k, v)
			}
		}
	}
}

// Load ingests the cross-reference chain starting at the offset recorded by
// startxref, following /Prev with a visited-offset cycle guard: an explicit
// visited set catches genuinely cyclic chains regardless of depth.
func Load(data []byte, startOffset int64, onWarn func(string)) (*Table, error) {
	if onWarn == nil {
		onWarn = func(string) {}
	}
	visited := make(map[int64]bool)
	return loadChain(data, startOffset, visited, onWarn)
}

func loadChain(data []byte, offset int64, visited map[int64]bool, onWarn func(string)) (*Table, error) {
	if visited[offset] {
		onWarn(fmt.Sprintf("cyclic /Prev chain detected at offset %d, stopping", offset))
		return newTable(), nil
	}
	visited[offset] = true

	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("xref: offset %d out of bounds", offset)
	}

	section := data[offset:]
	var table *Table
	var err error
	if bytes.HasPrefix(bytesTrimLeadingWS(section), []byte("xref")) {
		table, err = parseClassicSection(data, offset, onWarn)
	} else {
		table, err = parseStreamSection(data, offset, onWarn)
	}
	if err != nil {
		return nil, err
	}

	// Hybrid reference: a classic table may carry /XRefStm pointing at a
	// supplementary xref stream with compressed entries.
	if hybridOff, ok := table.Trailer.GetInt("XRefStm"); ok {
		if hybridTable, herr := loadChain(data, hybridOff, visited, onWarn); herr == nil {
			table.MergeOlder(hybridTable)
		} else {
			onWarn(fmt.Sprintf("failed to load hybrid /XRefStm at %d: %v", hybridOff, herr))
		}
	}

	if prevOff, ok := table.Trailer.GetInt("Prev"); ok {
		prevTable, perr := loadChain(data, prevOff, visited, onWarn)
		if perr != nil {
			onWarn(fmt.Sprintf("failed to load /Prev xref at %d: %v", prevOff, perr))
		} else {
			table.MergeOlder(prevTable)
		}
	}

	return table, nil
}

func bytesTrimLeadingWS(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\r' || b[i] == '\n' || b[i] == '\t') {
		i++
	}
	return b[i:]
}

// parseClassicSection parses "xref\n<subsections>\ntrailer\n<dict>".
func parseClassicSection(data []byte, offset int64, onWarn func(string)) (*Table, error) {
	p := objparser.New(data, onWarn)
	p.Seek(offset)

	// Skip the "xref" keyword by scanning to the next line.
	idx := bytes.IndexByte(data[offset:], '\n')
	if idx < 0 {
		return nil, fmt.Errorf("xref: truncated classic section at %d", offset)
	}
	cursor := offset + int64(idx) + 1
	table := newTable()

	for {
		cursor = skipWhitespace(data, cursor)
		if bytes.HasPrefix(data[cursor:], []byte("trailer")) {
			cursor += int64(len("trailer"))
			break
		}
		// subsection header: "start count"
		startNum, n1, ok := readUint(data, cursor)
		if !ok {
			return nil, fmt.Errorf("xref: malformed subsection header at %d", cursor)
		}
		cursor += n1
		cursor = skipWhitespace(data, cursor)
		count, n2, ok := readUint(data, cursor)
		if !ok {
			return nil, fmt.Errorf("xref: malformed subsection count at %d", cursor)
		}
		cursor += n2
		cursor = skipToNextLine(data, cursor)

		for i := int64(0); i < count; i++ {
			line := data[cursor : cursor+20]
			offStr := string(bytes.TrimSpace(line[0:10]))
			genStr := string(bytes.TrimSpace(line[11:16]))
			typeChar := line[17]

			off, _ := strconv.ParseInt(offStr, 10, 64)
			gen, _ := strconv.Atoi(genStr)
			objNum := int(startNum) + int(i)

			entry := &Entry{Generation: gen}
			if typeChar == 'f' {
				entry.Type = EntryFree
				entry.Offset = off
			} else {
				entry.Type = EntryInUse
				entry.Offset = off
			}
			if _, exists := table.Entries[objNum]; !exists {
				table.Entries[objNum] = entry
			}
			cursor += 20
		}
	}

	p.Seek(cursor)
	trailerVal, err := p.ParseValue()
	if err != nil {
		return nil, fmt.Errorf("xref: parse trailer dict: %w", err)
	}
	if d, ok := trailerVal.(*model.Dictionary); ok {
		table.Trailer = d
	}
	return table, nil
}

// parseStreamSection parses an indirect object whose stream is /Type /XRef.
func parseStreamSection(data []byte, offset int64, onWarn func(string)) (*Table, error) {
	p := objparser.New(data, onWarn)
	p.Seek(offset)
	_, _, val, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("xref: parse xref stream object: %w", err)
	}
	strm, ok := val.(*model.Stream)
	if !ok {
		return nil, fmt.Errorf("xref: object at %d is not a stream", offset)
	}

	decoded, err := filter.DecodeStream(strm)
	if err != nil {
		return nil, fmt.Errorf("xref: decode xref stream: %w", err)
	}

	wArr, ok := strm.Dict.GetArray("W")
	if !ok || len(wArr) != 3 {
		return nil, fmt.Errorf("xref: xref stream missing /W")
	}
	w := [3]int{}
	for i := 0; i < 3; i++ {
		if n, ok := wArr[i].(model.Number); ok {
			w[i] = int(n.Int64())
		}
	}

	var index []int64
	if idxArr, ok := strm.Dict.GetArray("Index"); ok {
		for _, v := range idxArr {
			if n, ok := v.(model.Number); ok {
				index = append(index, n.Int64())
			}
		}
	} else {
		size, _ := strm.Dict.GetInt("Size")
		index = []int64{0, size}
	}

	table := newTable()
	table.Trailer = strm.Dict

	recordLen := w[0] + w[1] + w[2]
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		start := index[i]
		count := index[i+1]
		for j := int64(0); j < count; j++ {
			if pos+recordLen > len(decoded) {
				onWarn("xref stream truncated before declared /Index range ended")
				break
			}
			rec := decoded[pos : pos+recordLen]
			pos += recordLen

			fieldType := int64(1)
			if w[0] > 0 {
				fieldType = beInt(rec[0:w[0]])
			}
			f2 := beInt(rec[w[0] : w[0]+w[1]])
			f3 := beInt(rec[w[0]+w[1] : w[0]+w[1]+w[2]])

			objNum := int(start + j)
			var entry *Entry
			switch fieldType {
			case 0:
				entry = &Entry{Type: EntryFree, Offset: f2, Generation: int(f3)}
			case 1:
				entry = &Entry{Type: EntryInUse, Offset: f2, Generation: int(f3)}
			case 2:
				entry = &Entry{Type: EntryCompressed, StreamNum: int(f2), Index: int(f3)}
			default:
				continue
			}
			if _, exists := table.Entries[objNum]; !exists {
				table.Entries[objNum] = entry
			}
		}
	}

	return table, nil
}

func beInt(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

func skipWhitespace(data []byte, pos int64) int64 {
	for pos < int64(len(data)) {
		switch data[pos] {
		case ' ', '\r', '\n', '\t':
			pos++
			continue
		}
		break
	}
	return pos
}

func skipToNextLine(data []byte, pos int64) int64 {
	for pos < int64(len(data)) && data[pos] != '\n' {
		pos++
	}
	return pos + 1
}

func readUint(data []byte, pos int64) (int64, int64, bool) {
	start := pos
	var v int64
	found := false
	for pos < int64(len(data)) && data[pos] >= '0' && data[pos] <= '9' {
		v = v*10 + int64(data[pos]-'0')
		pos++
		found = true
	}
	return v, pos - start, found
}
