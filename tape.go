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

import "math"

// tapeWriter appends tape words to a Document. It owns no state of its
// own beyond the document it writes into; nextIndex() is always
// len(doc.Tape).
type tapeWriter struct {
	doc *Document
}

// nextIndex returns the tape index the next append/skip will occupy.
func (w tapeWriter) nextIndex() uint32 {
	return uint32(len(w.doc.Tape))
}

// append writes a single tape word: tag in the top byte, payload in the
// low 56 bits. payload above the 56-bit range is silently truncated by
// the caller's responsibility, not this method's.
func (w tapeWriter) append(tag Tag, payload uint64) {
	w.doc.Tape = append(w.doc.Tape, uint64(tag)<<56|(payload&JSONValueMask))
}

// appendInt64 writes a two-word INT64 entry: a tag word with a zero
// payload, followed by the raw bit pattern of val.
func (w tapeWriter) appendInt64(val int64) {
	w.append(TagInt64, 0)
	w.doc.Tape = append(w.doc.Tape, uint64(val))
}

// appendUint64 writes a two-word UINT64 entry.
func (w tapeWriter) appendUint64(val uint64) {
	w.append(TagUint64, 0)
	w.doc.Tape = append(w.doc.Tape, val)
}

// appendDouble writes a two-word DOUBLE entry, storing the IEEE-754 bit
// pattern of val in the second word.
func (w tapeWriter) appendDouble(val float64) {
	w.append(TagDouble, 0)
	w.doc.Tape = append(w.doc.Tape, math.Float64bits(val))
}

// skip reserves a tape slot (for a scope opener whose true payload is
// only known once the matching closer is reached) and returns its index.
func (w tapeWriter) skip() uint32 {
	idx := w.nextIndex()
	w.doc.Tape = append(w.doc.Tape, 0)
	return idx
}

// backPatch overwrites a previously reserved slot (from skip, or the
// root placeholder) with its final tag and payload.
func (w tapeWriter) backPatch(slot uint32, tag Tag, payload uint64) {
	w.doc.Tape[slot] = uint64(tag)<<56 | (payload & JSONValueMask)
}

// backPatchPayload rewrites only the payload of a slot, preserving
// whatever tag was already written there. Used when the final tag was
// already known at skip time (object/array openers always write TagObjectStart
// or TagArrayStart immediately) and only the closer-index/count half of
// the payload needs filling in once the scope ends.
func (w tapeWriter) backPatchPayload(slot uint32, payload uint64) {
	tag := Tag(w.doc.Tape[slot] >> 56)
	w.backPatch(slot, tag, payload)
}
