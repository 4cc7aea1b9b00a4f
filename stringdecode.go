/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simdjson

import "unicode/utf8"

// decodeString decodes the JSON string starting at buf[0] == '"' into
// doc.Strings, laid out as a 4-byte little-endian length prefix followed
// by the decoded UTF-8 body and a trailing NUL. It returns the offset of
// the length prefix (the value a STRING tape word points at) and the
// number of input bytes consumed, including both quotation marks.
//
// Unlike the original, always copies: there is no zero-copy fast path
// that decodes in place over unescaped runs of the source buffer, since
// this module has no mmap'd read-only input to alias safely.
func (w tapeWriter) decodeString(buf []byte) (offset uint64, consumed int, ok bool) {
	if len(buf) == 0 || buf[0] != '"' {
		return 0, 0, false
	}
	offset = uint64(len(w.doc.Strings))
	w.doc.Strings = append(w.doc.Strings, 0, 0, 0, 0) // length prefix, patched below
	bodyStart := len(w.doc.Strings)

	i := 1
	for {
		if i >= len(buf) {
			return 0, 0, false
		}
		c := buf[i]
		if c == '"' {
			i++
			break
		}
		if c == '\\' {
			i++
			if i >= len(buf) {
				return 0, 0, false
			}
			n, decOK := w.decodeEscape(buf[i:])
			if !decOK {
				return 0, 0, false
			}
			i += n
			continue
		}
		if c < 0x20 {
			return 0, 0, false
		}
		w.doc.Strings = append(w.doc.Strings, c)
		i++
	}

	length := len(w.doc.Strings) - bodyStart
	putLE32(w.doc.Strings[offset:], uint32(length))
	w.doc.Strings = append(w.doc.Strings, 0) // NUL terminator
	return offset, i, true
}

// decodeEscape decodes one escape sequence (the bytes after the
// backslash) appending its decoding to w.doc.Strings, and returns how
// many bytes of buf (starting right after the backslash) it consumed.
func (w tapeWriter) decodeEscape(buf []byte) (n int, ok bool) {
	if len(buf) == 0 {
		return 0, false
	}
	switch buf[0] {
	case '"', '\\', '/':
		w.doc.Strings = append(w.doc.Strings, buf[0])
		return 1, true
	case 'b':
		w.doc.Strings = append(w.doc.Strings, '\b')
		return 1, true
	case 'f':
		w.doc.Strings = append(w.doc.Strings, '\f')
		return 1, true
	case 'n':
		w.doc.Strings = append(w.doc.Strings, '\n')
		return 1, true
	case 'r':
		w.doc.Strings = append(w.doc.Strings, '\r')
		return 1, true
	case 't':
		w.doc.Strings = append(w.doc.Strings, '\t')
		return 1, true
	case 'u':
		return w.decodeUnicodeEscape(buf)
	}
	return 0, false
}

// decodeUnicodeEscape handles "uXXXX", including surrogate pairs
// ("uD800"-"uDBFF" followed by a second "\uDC00"-"\uDFFF" escape), and
// returns the number of buf bytes consumed starting at the 'u'.
func (w tapeWriter) decodeUnicodeEscape(buf []byte) (n int, ok bool) {
	if len(buf) < 5 {
		return 0, false
	}
	hi, ok := parseHex4(buf[1:5])
	if !ok {
		return 0, false
	}
	if hi < 0xD800 || hi > 0xDBFF {
		w.appendRune(rune(hi))
		return 5, true
	}
	// High surrogate: a low surrogate must follow immediately.
	if len(buf) < 11 || buf[5] != '\\' || buf[6] != 'u' {
		return 0, false
	}
	lo, ok := parseHex4(buf[7:11])
	if !ok || lo < 0xDC00 || lo > 0xDFFF {
		return 0, false
	}
	r := ((rune(hi) - 0xD800) << 10) + (rune(lo) - 0xDC00) + 0x10000
	w.appendRune(r)
	return 11, true
}

func (w tapeWriter) appendRune(r rune) {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	w.doc.Strings = append(w.doc.Strings, tmp[:n]...)
}

func parseHex4(b []byte) (uint16, bool) {
	var v uint16
	for i := 0; i < 4; i++ {
		v <<= 4
		c := b[i]
		switch {
		case c >= '0' && c <= '9':
			v += uint16(c - '0')
		case c >= 'a' && c <= 'f':
			v += uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v += uint16(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}
