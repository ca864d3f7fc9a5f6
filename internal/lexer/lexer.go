// Package lexer implements the PDF lexical layer: comments, whitespace,
// literal/hex strings, names, numbers, arrays, dicts and keywords.
package lexer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

func isWhitespace(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(b byte) bool {
	return !isWhitespace(b) && !isDelimiter(b)
}

// Lexer tokenizes a PDF byte stream. It wraps a *bufio.Reader rather than a
// []byte slice so it composes with both in-memory buffers and (when reading
// a stream's verbatim payload) direct file access.
type Lexer struct {
	r        *bufio.Reader
	line     int
	column   int
	consumed int64
}

// New wraps r for tokenization.
func New(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1, column: 0}
}

// Offset reports the number of bytes consumed from the underlying reader
// since construction or the last Reset — used by objparser to compute
// absolute file offsets for stream/endstream boundary handling.
func (l *Lexer) Offset() int64 { return l.consumed }

func (l *Lexer) readByte() (byte, error) {
	b, err := l.r.ReadByte()
	if err != nil {
		return 0, err
	}
	l.consumed++
	if b == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return b, nil
}

func (l *Lexer) unreadByte() {
	_ = l.r.UnreadByte()
	l.consumed--
	if l.column > 0 {
		l.column--
	}
}

func (l *Lexer) peekByte() (byte, error) {
	b, err := l.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// skipWhitespace consumes whitespace and % comments (to end of line).
func (l *Lexer) skipWhitespace() error {
	for {
		b, err := l.readByte()
		if err != nil {
			return err
		}
		if b == '%' {
			for {
				b2, err := l.readByte()
				if err != nil {
					return err
				}
				if b2 == '\n' || b2 == '\r' {
					break
				}
			}
			continue
		}
		if !isWhitespace(b) {
			l.unreadByte()
			return nil
		}
	}
}

// NextToken returns the next token; at end of input it returns a TokenEOF
// token and a nil error.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipWhitespace(); err != nil {
		if err == io.EOF {
			return Token{Type: TokenEOF, Line: l.line, Column: l.column}, nil
		}
		return Token{}, err
	}

	line, col := l.line, l.column
	b, err := l.readByte()
	if err != nil {
		if err == io.EOF {
			return Token{Type: TokenEOF, Line: line, Column: col}, nil
		}
		return Token{}, err
	}

	switch {
	case b == '/':
		return l.lexName(line, col)
	case b == '(':
		return l.lexLiteralString(line, col)
	case b == '<':
		nb, perr := l.peekByte()
		if perr == nil && nb == '<' {
			_, _ = l.readByte()
			return Token{Type: TokenDictStart, Value: "<<", Line: line, Column: col}, nil
		}
		return l.lexHexString(line, col)
	case b == '>':
		nb, perr := l.peekByte()
		if perr == nil && nb == '>' {
			_, _ = l.readByte()
			return Token{Type: TokenDictEnd, Value: ">>", Line: line, Column: col}, nil
		}
		return Token{}, fmt.Errorf("lexer: stray '>' at line %d col %d", line, col)
	case b == '[':
		return Token{Type: TokenArrayStart, Value: "[", Line: line, Column: col}, nil
	case b == ']':
		return Token{Type: TokenArrayEnd, Value: "]", Line: line, Column: col}, nil
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		l.unreadByte()
		return l.lexNumber(line, col)
	case b == '{' || b == '}':
		// PostScript-calculator braces (PDF functions); surfaced as keywords
		// so higher layers can skip or interpret them.
		return Token{Type: TokenKeyword, Value: string(b), Line: line, Column: col}, nil
	default:
		l.unreadByte()
		return l.lexKeywordOrNumber(line, col)
	}
}

// lexName reads a /Name, resolving #xx hex escapes per spec.
func (l *Lexer) lexName(line, col int) (Token, error) {
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			break
		}
		if !isRegular(b) {
			l.unreadByte()
			break
		}
		if b == '#' {
			hex := make([]byte, 2)
			for i := 0; i < 2; i++ {
				hb, herr := l.readByte()
				if herr != nil {
					break
				}
				hex[i] = hb
			}
			var v int
			if _, err := fmt.Sscanf(string(hex), "%02x", &v); err == nil {
				buf.WriteByte(byte(v))
				continue
			}
			buf.WriteByte('#')
			continue
		}
		buf.WriteByte(b)
	}
	return Token{Type: TokenName, Value: buf.String(), Line: line, Column: col}, nil
}

// lexLiteralString reads a (...) string with balanced parens and escapes
// \n \r \t \b \f \( \) \\ \ddd.
func (l *Lexer) lexLiteralString(line, col int) (Token, error) {
	var buf bytes.Buffer
	depth := 1
	for depth > 0 {
		b, err := l.readByte()
		if err != nil {
			return Token{}, fmt.Errorf("lexer: unterminated literal string at line %d: %w", line, err)
		}
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(b)
			}
		case '\\':
			eb, err := l.readByte()
			if err != nil {
				return Token{}, fmt.Errorf("lexer: unterminated escape at line %d: %w", line, err)
			}
			switch eb {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(eb)
			case '\r':
				// line continuation; if followed by \n, consume it too.
				if nb, perr := l.peekByte(); perr == nil && nb == '\n' {
					_, _ = l.readByte()
				}
			case '\n':
				// line continuation, no output.
			default:
				if eb >= '0' && eb <= '7' {
					val := int(eb - '0')
					for i := 0; i < 2; i++ {
						nb, perr := l.peekByte()
						if perr != nil || nb < '0' || nb > '7' {
							break
						}
						_, _ = l.readByte()
						val = val*8 + int(nb-'0')
					}
					buf.WriteByte(byte(val))
				} else {
					buf.WriteByte(eb)
				}
			}
		default:
			buf.WriteByte(b)
		}
	}
	return Token{Type: TokenString, Value: buf.String(), Line: line, Column: col}, nil
}

// lexHexString reads a <...> hex string (whitespace-tolerant, odd trailing
// nibble treated as if followed by 0).
func (l *Lexer) lexHexString(line, col int) (Token, error) {
	var hex bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			return Token{}, fmt.Errorf("lexer: unterminated hex string at line %d: %w", line, err)
		}
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		hex.WriteByte(b)
	}
	if hex.Len()%2 == 1 {
		hex.WriteByte('0')
	}
	return Token{Type: TokenHexString, Value: hex.String(), Line: line, Column: col}, nil
}

func isNumberByte(b byte) bool {
	return b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9')
}

// lexNumber reads an integer or real token. Malformed numeric tokens (e.g.
// "1.2.3", stray signs) are left to the caller (objparser) to coerce to 0
// under its leniency policy; the lexer only slices the regular-character
// run.
func (l *Lexer) lexNumber(line, col int) (Token, error) {
	var buf bytes.Buffer
	isReal := false
	for {
		b, err := l.readByte()
		if err != nil {
			break
		}
		if !isNumberByte(b) {
			l.unreadByte()
			break
		}
		if b == '.' {
			isReal = true
		}
		buf.WriteByte(b)
	}
	tt := TokenInteger
	if isReal {
		tt = TokenReal
	}
	return Token{Type: tt, Value: buf.String(), Line: line, Column: col}, nil
}

// lexKeywordOrNumber reads a bare regular-character run: true/false/null,
// obj/endobj/stream/endstream/R/xref/trailer/startxref, or an unrecognized
// keyword which the caller skips per the lenient parsing policy.
func (l *Lexer) lexKeywordOrNumber(line, col int) (Token, error) {
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			break
		}
		if !isRegular(b) {
			l.unreadByte()
			break
		}
		buf.WriteByte(b)
	}
	word := buf.String()
	switch word {
	case KeywordTrue, KeywordFalse:
		return Token{Type: TokenBoolean, Value: word, Line: line, Column: col}, nil
	case KeywordNullWord:
		return Token{Type: TokenNull, Value: word, Line: line, Column: col}, nil
	}
	if word == "" {
		return Token{}, fmt.Errorf("lexer: unexpected byte at line %d col %d", line, col)
	}
	return Token{Type: TokenKeyword, Value: word, Line: line, Column: col}, nil
}

// ReadN reads exactly n raw bytes bypassing tokenization — used after the
// "stream" keyword to take /Length bytes verbatim.
func (l *Lexer) ReadN(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(l.r, buf)
	l.consumed += int64(read)
	return buf, err
}

// ConsumeLineTerminator consumes exactly one EOL (\r\n, \r, or \n) after the
// "stream" keyword.
func (l *Lexer) ConsumeLineTerminator() error {
	b, err := l.readByte()
	if err != nil {
		return err
	}
	if b == '\r' {
		if nb, perr := l.peekByte(); perr == nil && nb == '\n' {
			_, _ = l.readByte()
		}
		return nil
	}
	if b == '\n' {
		return nil
	}
	l.unreadByte()
	return nil
}

// Reset discards buffered state and resumes tokenizing from r.
func (l *Lexer) Reset(r io.Reader) {
	l.r = bufio.NewReader(r)
	l.line = 1
	l.column = 0
	l.consumed = 0
}
