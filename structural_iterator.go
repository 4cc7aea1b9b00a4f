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

// structuralIterator walks the structural-index array stage 1 produced,
// tracking a single cursor position. It replaces the channel-fed
// indexing machinery the concurrent amd64 port used to overlap stage 1
// and stage 2: a scalar stage 1 runs to completion first, so stage 2
// only ever needs a plain slice cursor.
type structuralIterator struct {
	buf     []byte
	indexes []uint32
	pos     int
}

func newStructuralIterator(buf []byte, indexes []uint32, start uint32) structuralIterator {
	return structuralIterator{buf: buf, indexes: indexes, pos: int(start)}
}

// advance moves the cursor to the next structural index and reports
// whether that moved it at or past the end of indexes.
func (s *structuralIterator) advance() bool {
	s.pos++
	return s.pos >= len(s.indexes)
}

// currentByte returns the byte at the cursor's structural index.
func (s *structuralIterator) currentByte() byte {
	return s.buf[s.indexes[s.pos]]
}

// currentIndex returns the cursor's structural byte offset into buf.
func (s *structuralIterator) currentIndex() uint32 {
	return s.indexes[s.pos]
}

// peek returns the byte at the next structural index without advancing,
// or 0 if there is no next structural index.
func (s *structuralIterator) peek() byte {
	if s.pos+1 >= len(s.indexes) {
		return 0
	}
	return s.buf[s.indexes[s.pos+1]]
}

// remaining returns the number of bytes in buf from the current
// structural position (inclusive) to the end of buf, padding included:
// the iterator does not know the document's logical length.
func (s *structuralIterator) remaining() int {
	return len(s.buf) - int(s.indexes[s.pos])
}

// atEnd reports whether the cursor has reached or passed position n in
// the structural-index array (n is a count of structural indices, e.g.
// len(indexes) for "no more structurals").
func (s *structuralIterator) atEnd(n int) bool {
	return s.pos >= n
}
