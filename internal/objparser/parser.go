// Package objparser builds model.Object values from a lexer.Token stream:
// a recursive-descent parser for PDF's object syntax, plus the byte-exact
// stream payload slicing rule (one line terminator consumed after "stream",
// then /Length bytes taken verbatim; "endstream" must follow on its own
// line).
package objparser

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/coregx/gxpdf/internal/lexer"
	"github.com/coregx/gxpdf/internal/model"
)

// Parser parses PDF objects out of a full in-memory byte buffer. Full
// buffering (rather than a streaming io.Reader) is what lets it resolve
// /Length-vs-delimiter disagreements by searching forward for "endstream".
type Parser struct {
	data    []byte
	base    int64 // absolute offset the embedded lexer was last anchored at
	lex     *lexer.Lexer
	onWarn  func(string)
}

// New constructs a parser over data. onWarn receives recovery diagnostics;
// pass nil to discard them.
func New(data []byte, onWarn func(string)) *Parser {
	if onWarn == nil {
		onWarn = func(string) {}
	}
	p := &Parser{data: data, onWarn: onWarn}
	p.seek(0)
	return p
}

func (p *Parser) seek(off int64) {
	if off < 0 {
		off = 0
	}
	if off > int64(len(p.data)) {
		off = int64(len(p.data))
	}
	p.base = off
	p.lex = lexer.New(bytes.NewReader(p.data[off:]))
}

func (p *Parser) offset() int64 { return p.base + p.lex.Offset() }

// Seek repositions the parser to an absolute byte offset, e.g. to start
// parsing the indirect object found at an xref entry's offset.
func (p *Parser) Seek(off int64) { p.seek(off) }

// Offset reports the parser's current absolute position.
func (p *Parser) Offset() int64 { return p.offset() }

// ParseIndirectObject parses "N G obj <value> endobj" at the parser's
// current position (typically right after Seek to an xref byte offset) and
// returns the object number, generation, and value.
func (p *Parser) ParseIndirectObject() (num, gen int, val model.Object, err error) {
	numTok, err := p.lex.NextToken()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("objparser: read object number: %w", err)
	}
	genTok, err := p.lex.NextToken()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("objparser: read generation: %w", err)
	}
	objKw, err := p.lex.NextToken()
	if err != nil || objKw.Type != lexer.TokenKeyword || objKw.Value != lexer.KeywordObj {
		return 0, 0, nil, fmt.Errorf("objparser: expected 'obj' keyword at offset %d", p.offset())
	}

	num = int(p.parseIntLenient(numTok))
	gen = int(p.parseIntLenient(genTok))

	val, err = p.parseValue()
	if err != nil {
		return num, gen, nil, err
	}

	// If the value is a dict immediately followed by "stream", this is a
	// stream object: fold the raw payload in.
	if dict, ok := val.(*model.Dictionary); ok {
		if s, consumed, serr := p.tryParseStreamBody(dict); serr == nil && consumed {
			val = s
		}
	}

	// Skip to "endobj", tolerant of anything in between (lenient parsing).
	p.skipToKeyword(lexer.KeywordEndobj)

	return num, gen, val, nil
}

// parseIntLenient coerces a token to an int64, returning 0 for anything
// that doesn't parse.
func (p *Parser) parseIntLenient(t lexer.Token) int64 {
	n, err := strconv.ParseInt(t.Value, 10, 64)
	if err != nil {
		p.onWarn(fmt.Sprintf("invalid integer token %q at line %d, treated as 0", t.Value, t.Line))
		return 0
	}
	return n
}

// ParseValue parses one value (used both for top-level indirect objects and
// recursively for array/dict elements).
func (p *Parser) ParseValue() (model.Object, error) { return p.parseValue() }

func (p *Parser) parseValue() (model.Object, error) {
	tok, err := p.lex.NextToken()
	if err != nil {
		return nil, err
	}
	return p.parseValueFromToken(tok)
}

func (p *Parser) parseValueFromToken(tok lexer.Token) (model.Object, error) {
	switch tok.Type {
	case lexer.TokenEOF:
		return model.NullObject, nil
	case lexer.TokenNull:
		return model.NullObject, nil
	case lexer.TokenBoolean:
		return model.Boolean(tok.Value == lexer.KeywordTrue), nil
	case lexer.TokenInteger:
		return p.parseNumberOrReference(tok)
	case lexer.TokenReal:
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			p.onWarn(fmt.Sprintf("invalid real token %q at line %d, treated as 0", tok.Value, tok.Line))
			v = 0
		}
		return model.Real(v), nil
	case lexer.TokenName:
		return model.Name(tok.Value), nil
	case lexer.TokenString:
		return model.String{Value: []byte(tok.Value), Hex: false}, nil
	case lexer.TokenHexString:
		decoded, err := hexDecode(tok.Value)
		if err != nil {
			p.onWarn(fmt.Sprintf("malformed hex string at line %d: %v", tok.Line, err))
			decoded = nil
		}
		return model.String{Value: decoded, Hex: true}, nil
	case lexer.TokenArrayStart:
		return p.parseArray()
	case lexer.TokenDictStart:
		return p.parseDict()
	case lexer.TokenArrayEnd, lexer.TokenDictEnd:
		// Unmatched closer recovered at end-of-object.
		p.onWarn(fmt.Sprintf("unmatched closing bracket at line %d", tok.Line))
		return model.NullObject, nil
	case lexer.TokenKeyword:
		// Unknown keyword in value position: skip it (leniency).
		p.onWarn(fmt.Sprintf("unexpected keyword %q at line %d, skipped", tok.Value, tok.Line))
		return model.NullObject, nil
	default:
		return model.NullObject, nil
	}
}

// parseNumberOrReference implements the 3-token lookahead needed to tell an
// integer apart from the first number of a "N G R" reference.
func (p *Parser) parseNumberOrReference(first lexer.Token) (model.Object, error) {
	mark := p.offset()

	second, err := p.lex.NextToken()
	if err == nil && second.Type == lexer.TokenInteger {
		third, err2 := p.lex.NextToken()
		if err2 == nil && third.Type == lexer.TokenKeyword && third.Value == lexer.KeywordR {
			num := p.parseIntLenient(first)
			gen := p.parseIntLenient(second)
			return model.Reference{Num: int(num), Gen: int(gen)}, nil
		}
	}

	// Not a reference: rewind to right after `first` and re-lex from there
	// next call, since the speculative second/third tokens must be
	// re-observed by the caller.
	p.seek(mark)

	n := p.parseIntLenient(first)
	return model.Int(n), nil
}

func (p *Parser) parseArray() (model.Object, error) {
	var arr model.Array
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			return arr, err
		}
		if tok.Type == lexer.TokenArrayEnd {
			return arr, nil
		}
		if tok.Type == lexer.TokenEOF {
			p.onWarn("unterminated array recovered at EOF")
			return arr, nil
		}
		v, err := p.parseValueFromToken(tok)
		if err != nil {
			return arr, err
		}
		arr = append(arr, v)
	}
}

func (p *Parser) parseDict() (model.Object, error) {
	dict := model.NewDictionary()
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			return dict, err
		}
		if tok.Type == lexer.TokenDictEnd {
			return dict, nil
		}
		if tok.Type == lexer.TokenEOF {
			p.onWarn("unterminated dictionary recovered at EOF")
			return dict, nil
		}
		if tok.Type != lexer.TokenName {
			p.onWarn(fmt.Sprintf("expected name key in dictionary at line %d, skipping token %q", tok.Line, tok.Value))
			continue
		}
		key := tok.Value
		val, err := p.parseValue()
		if err != nil {
			return dict, err
		}
		dict.Set(key, val)
	}
}

// tryParseStreamBody checks whether "stream" follows the just-parsed dict;
// if so it slices the verbatim payload per the /Length-bytes rule, with a
// fallback that trusts the "endstream" delimiter over a wrong /Length.
func (p *Parser) tryParseStreamBody(dict *model.Dictionary) (*model.Stream, bool, error) {
	save := p.offset()

	tok, err := p.lex.NextToken()
	if err != nil || tok.Type != lexer.TokenKeyword || tok.Value != lexer.KeywordStream {
		p.seek(save)
		return nil, false, nil
	}

	if err := p.lex.ConsumeLineTerminator(); err != nil {
		return nil, false, err
	}
	streamStart := p.offset()

	length, haveLength := dict.GetInt("Length")
	var payload []byte

	if haveLength && streamStart+length <= int64(len(p.data)) {
		candidate := p.data[streamStart : streamStart+length]
		// Verify "endstream" follows (allowing whitespace), else fall back
		// to delimiter search.
		rest := p.data[streamStart+length:]
		if endstreamFollows(rest) {
			payload = candidate
		}
	}

	if payload == nil {
		// Trust the delimiter: search forward for "endstream".
		idx := bytes.Index(p.data[streamStart:], []byte(lexer.KeywordEndstream))
		if idx < 0 {
			p.onWarn("stream missing endstream marker, payload truncated at EOF")
			payload = p.data[streamStart:]
			p.seek(int64(len(p.data)))
			return model.NewStream(dict, payload), true, nil
		}
		end := streamStart + int64(idx)
		// Trim a single trailing EOL before "endstream".
		trimmed := p.data[streamStart:end]
		trimmed = bytes.TrimSuffix(trimmed, []byte("\r\n"))
		trimmed = bytes.TrimSuffix(trimmed, []byte("\n"))
		trimmed = bytes.TrimSuffix(trimmed, []byte("\r"))
		payload = trimmed
		if haveLength && int64(len(payload)) != length {
			p.onWarn(fmt.Sprintf("stream /Length %d disagrees with endstream position (%d bytes); trusting delimiter", length, len(payload)))
		}
		p.seek(end)
	} else {
		p.seek(streamStart + length)
	}

	p.skipToKeyword(lexer.KeywordEndstream)

	return model.NewStream(dict, payload), true, nil
}

func endstreamFollows(rest []byte) bool {
	i := 0
	for i < len(rest) && (rest[i] == '\r' || rest[i] == '\n' || rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	return bytes.HasPrefix(rest[i:], []byte(lexer.KeywordEndstream))
}

// skipToKeyword advances past tokens until kw is consumed or EOF, used to
// recover from malformed object bodies by resyncing at end-of-object.
func (p *Parser) skipToKeyword(kw string) {
	for {
		tok, err := p.lex.NextToken()
		if err != nil || tok.Type == lexer.TokenEOF {
			return
		}
		if tok.Type == lexer.TokenKeyword && tok.Value == kw {
			return
		}
	}
}

func hexDecode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		s += "0"
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		var v int64
		v, err := strconv.ParseInt(s[i*2:i*2+2], 16, 16)
		if err != nil {
			return out, err
		}
		out[i] = byte(v)
	}
	return out, nil
}
