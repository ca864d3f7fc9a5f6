// Package salvage implements recovery parsing for damaged files: when the
// cross-reference chain is unusable (truncated file, corrupt startxref),
// linearly scan for "N G obj" markers, synthesize a cross-reference table
// from them, then locate a trailer by scanning backward for /Root.
package salvage

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/coregx/gxpdf/internal/model"
	"github.com/coregx/gxpdf/internal/objparser"
	"github.com/coregx/gxpdf/internal/xref"
)

var objMarker = regexp.MustCompile(`(\d+)[ \t\r\n]+(\d+)[ \t\r\n]+obj\b`)

// Result carries the synthesized table plus the recovered trailer.
type Result struct {
	Table   *xref.Table
	Trailer *model.Dictionary
}

// Scan performs the full salvage pass over data.
func Scan(data []byte, onWarn func(string)) (*Result, error) {
	if onWarn == nil {
		onWarn = func(string) {}
	}

	matches := objMarker.FindAllSubmatchIndex(data, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("salvage: no 'N G obj' markers found")
	}

	entries := make(map[int]*xref.Entry)
	for _, m := range matches {
		numStr := string(data[m[2]:m[3]])
		genStr := string(data[m[4]:m[5]])
		num, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		gen, err := strconv.Atoi(genStr)
		if err != nil {
			gen = 0
		}
		offset := int64(m[0])
		// A later marker for the same object number wins (mirrors
		// incremental-update newest-wins semantics even for salvage).
		entries[num] = &xref.Entry{Type: xref.EntryInUse, Offset: offset, Generation: gen}
	}

	onWarn(fmt.Sprintf("xref recovered via salvage pass: %d object markers found", len(entries)))

	trailer, err := findTrailer(data, onWarn)
	if err != nil {
		return nil, err
	}

	table := &xref.Table{Entries: entries, Trailer: trailer}
	return &Result{Table: table, Trailer: trailer}, nil
}

// findTrailer scans backward for a "trailer" keyword first; if none is
// found (fully corrupt file structure), it scans backward for "/Root" and
// synthesizes a minimal trailer dict around it.
func findTrailer(data []byte, onWarn func(string)) (*model.Dictionary, error) {
	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		p := objparser.New(data, onWarn)
		p.Seek(int64(idx + len("trailer")))
		val, err := p.ParseValue()
		if err == nil {
			if d, ok := val.(*model.Dictionary); ok {
				return d, nil
			}
		}
	}

	idx := bytes.LastIndex(data, []byte("/Root"))
	if idx < 0 {
		return nil, fmt.Errorf("salvage: no trailer or /Root found")
	}

	p := objparser.New(data, onWarn)
	p.Seek(int64(idx + len("/Root")))
	rootVal, err := p.ParseValue()
	if err != nil {
		return nil, fmt.Errorf("salvage: parse /Root reference: %w", err)
	}

	trailer := model.NewDictionary()
	trailer.Set("Root", rootVal)
	onWarn("trailer synthesized from bare /Root scan")
	return trailer, nil
}
