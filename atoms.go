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

import "encoding/binary"

// atomTrue/atomFalse/atomNull are the little-endian uint64 bit patterns
// of "true????", "false???" and "null????" (the literal bytes followed
// by don't-care padding), matching the masked-compare idiom the amd64
// validators used, now done generically instead of in assembly.
const (
	atomTrueBits  = uint64('t') | uint64('r')<<8 | uint64('u')<<16 | uint64('e')<<24
	atomTrueMask  = uint64(0xFFFFFFFF)
	atomNullBits  = uint64('n') | uint64('u')<<8 | uint64('l')<<16 | uint64('l')<<24
	atomNullMask  = uint64(0xFFFFFFFF)
	atomFalseBits = uint64('f') | uint64('a')<<8 | uint64('l')<<16 | uint64('s')<<24 | uint64('e')<<32
	atomFalseMask = uint64(0xFFFFFFFFFF)
)

// structuralOrWhitespace classifies the byte that is allowed to follow an
// atom or number: end of buffer aside, only whitespace or a structural
// character may trail a scalar value.
func structuralOrWhitespace(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// isValidTrueAtom validates the 4 bytes at buf[:4] are "true" and that
// the 5th byte (if any within the buffer) terminates the atom.
func isValidTrueAtom(buf []byte) bool {
	if len(buf) < 8 {
		return validTrueAtomShort(buf)
	}
	word := binary.LittleEndian.Uint64(buf)
	if word&atomTrueMask != atomTrueBits {
		return false
	}
	return structuralOrWhitespace(byte(word >> 32))
}

// isValidTrueAtomBounded is used at the document root, where fewer than
// PaddingBytes trailing bytes may be guaranteed: remaining is the exact
// number of readable bytes starting at buf[0].
func isValidTrueAtomBounded(buf []byte, remaining int) bool {
	if remaining < 4 {
		return false
	}
	if string(buf[:4]) != "true" {
		return false
	}
	if remaining == 4 {
		return true
	}
	return structuralOrWhitespace(buf[4])
}

func validTrueAtomShort(buf []byte) bool {
	return isValidTrueAtomBounded(buf, len(buf))
}

func isValidFalseAtom(buf []byte) bool {
	if len(buf) < 8 {
		return isValidFalseAtomBounded(buf, len(buf))
	}
	word := binary.LittleEndian.Uint64(buf)
	if word&atomFalseMask != atomFalseBits {
		return false
	}
	return structuralOrWhitespace(byte(word >> 40))
}

func isValidFalseAtomBounded(buf []byte, remaining int) bool {
	if remaining < 5 {
		return false
	}
	if string(buf[:5]) != "false" {
		return false
	}
	if remaining == 5 {
		return true
	}
	return structuralOrWhitespace(buf[5])
}

func isValidNullAtom(buf []byte) bool {
	if len(buf) < 8 {
		return isValidNullAtomBounded(buf, len(buf))
	}
	word := binary.LittleEndian.Uint64(buf)
	if word&atomNullMask != atomNullBits {
		return false
	}
	return structuralOrWhitespace(byte(word >> 32))
}

func isValidNullAtomBounded(buf []byte, remaining int) bool {
	if remaining < 4 {
		return false
	}
	if string(buf[:4]) != "null" {
		return false
	}
	if remaining == 4 {
		return true
	}
	return structuralOrWhitespace(buf[4])
}
