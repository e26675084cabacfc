package serial

import (
	"errors"
	"strings"
	"unicode/utf16"
)

var errBadMUTF8 = errors.New("malformed modified UTF-8")

// encodeMUTF8 encodes s the way DataOutput.writeUTF does: NUL as two bytes
// and supplementary characters as surrogate pairs.
func encodeMUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			out = appendUnit(out, uint16(hi))
			out = appendUnit(out, uint16(lo))
			continue
		}
		out = appendUnit(out, uint16(r))
	}
	return out
}

func appendUnit(out []byte, c uint16) []byte {
	switch {
	case c >= 0x0001 && c <= 0x007F:
		return append(out, byte(c))
	case c <= 0x07FF:
		return append(out,
			byte(0xC0|(c>>6)&0x1F),
			byte(0x80|c&0x3F))
	default:
		return append(out,
			byte(0xE0|(c>>12)&0x0F),
			byte(0x80|(c>>6)&0x3F),
			byte(0x80|c&0x3F))
	}
}

func decodeMUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", errBadMUTF8
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", errBadMUTF8
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", errBadMUTF8
		}
	}
	var sb strings.Builder
	sb.Grow(len(units))
	for _, r := range utf16.Decode(units) {
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
