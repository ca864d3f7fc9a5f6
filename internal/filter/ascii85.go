package filter

import (
	"bytes"
	"fmt"

	"github.com/coregx/gxpdf/internal/model"
)

type ascii85Filter struct{}

// Decode implements PDF's ASCII85 variant: 'z' is shorthand for four
// zero bytes at a group boundary, '~>' terminates, and a partial final
// group of n>1 chars yields n-1 bytes. Stdlib encoding/ascii85 doesn't
// support 'z' or the '~>' terminator, so this is hand-rolled.
func (ascii85Filter) Decode(data []byte, _ *model.Dictionary) ([]byte, error) {
	if idx := bytes.Index(data, []byte("~>")); idx >= 0 {
		data = data[:idx]
	}

	var out bytes.Buffer
	var group [5]byte
	n := 0

	flush := func(count int) {
		if count == 0 {
			return
		}
		for i := count; i < 5; i++ {
			group[i] = 'u'
		}
		var v uint32
		for _, c := range group {
			v = v*85 + uint32(c-'!')
		}
		b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		out.Write(b[:count-1])
	}

	for _, c := range data {
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0 {
			continue
		}
		if c == 'z' && n == 0 {
			out.Write([]byte{0, 0, 0, 0})
			continue
		}
		if c < '!' || c > 'u' {
			return out.Bytes(), fmt.Errorf("ascii85: invalid character %q", c)
		}
		group[n] = c
		n++
		if n == 5 {
			flush(5)
			n = 0
		}
	}
	if n > 0 {
		flush(n)
	}
	return out.Bytes(), nil
}

func (ascii85Filter) Encode(data []byte, _ *model.Dictionary) ([]byte, error) {
	var out bytes.Buffer
	for i := 0; i < len(data); i += 4 {
		chunk := data[i:min(i+4, len(data))]
		var buf [4]byte
		copy(buf[:], chunk)
		v := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])

		if len(chunk) == 4 && v == 0 {
			out.WriteByte('z')
			continue
		}

		var group [5]byte
		for j := 4; j >= 0; j-- {
			group[j] = byte(v%85) + '!'
			v /= 85
		}
		out.Write(group[:len(chunk)+1])
	}
	out.WriteString("~>")
	return out.Bytes(), nil
}
