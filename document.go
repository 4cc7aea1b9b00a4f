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

import "fmt"

// Document holds the two output buffers stage 2 fills in: the tape and
// the decoded string buffer. Both are pre-sized by the caller per the
// capacity contracts in spec.md §6: Tape at least len(Indexes) words,
// Strings at least len(Buf) bytes.
type Document struct {
	Tape    []uint64
	Strings []byte
}

// Reset truncates both buffers (retaining capacity) for reuse across parses.
func (d *Document) Reset() {
	d.Tape = d.Tape[:0]
	d.Strings = d.Strings[:0]
}

// stringByteAt returns the decoded body of a string stored at offset
// (as found in a STRING tape word's payload): a 4-byte little-endian
// length prefix at offset, followed by exactly that many bytes.
func (d *Document) stringByteAt(offset uint64) ([]byte, error) {
	if offset+4 > uint64(len(d.Strings)) {
		return nil, fmt.Errorf("string offset %d outside string buffer of length %d", offset, len(d.Strings))
	}
	length := uint64(le32(d.Strings[offset:]))
	start := offset + 4
	if start+length > uint64(len(d.Strings)) {
		return nil, fmt.Errorf("string at offset %d (length %d) extends past string buffer of length %d", offset, length, len(d.Strings))
	}
	return d.Strings[start : start+length], nil
}

func (d *Document) stringAt(offset uint64) (string, error) {
	b, err := d.stringByteAt(offset)
	return string(b), err
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// ParserState supplies everything stage 2 needs to read from: the padded
// input buffer, the structural index array stage 1 produced, the scope
// stack capacity, and (for streaming callers) where to resume.
type ParserState struct {
	// Buf is the input buffer. It must have at least PaddingBytes of
	// readable (unspecified) bytes past Len.
	Buf []byte
	// Len is the logical length of the document in Buf. Len <= len(Buf)-PaddingBytes.
	Len int
	// Indexes is the ordered list of structural byte offsets into Buf,
	// as produced by stage 1.
	Indexes []uint32
	// MaxDepth bounds the scope stack. Zero means DefaultMaxDepth.
	MaxDepth int
	// NextStructuralIndex is the position in Indexes to resume from in
	// streaming mode, and is updated on a successful streaming parse.
	NextStructuralIndex uint32
}

func (ps *ParserState) maxDepth() int {
	if ps.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return ps.MaxDepth
}

// ParsedJson is the externally usable result of a parse: the tape and
// the decoded string buffer. Strings are always copied into Strings, so
// no tape entry refers to the input; Message is not filled in by Parse
// or ParseND. It composes Document with the fields an Iter needs to
// resolve values.
type ParsedJson struct {
	Message []byte
	Tape    []uint64
	Strings []byte
}

// Iter returns a fresh Iter positioned before the first tape entry.
func (pj *ParsedJson) Iter() Iter {
	return Iter{tape: *pj}
}

func (pj *ParsedJson) doc() *Document {
	return &Document{Tape: pj.Tape, Strings: pj.Strings}
}

func (pj *ParsedJson) stringAt(offset uint64) (string, error) {
	return pj.doc().stringAt(offset)
}

func (pj *ParsedJson) stringByteAt(offset uint64) ([]byte, error) {
	return pj.doc().stringByteAt(offset)
}

// Reset truncates the buffers (retaining capacity) for reuse.
func (pj *ParsedJson) Reset() {
	pj.Tape = pj.Tape[:0]
	pj.Strings = pj.Strings[:0]
	pj.Message = pj.Message[:0]
}
