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

import (
	"math"
	"testing"
)

func TestTapeWriterAppend(t *testing.T) {
	doc := &Document{}
	w := tapeWriter{doc: doc}

	w.append(TagBoolTrue, 1)
	if got := doc.Tape[0]; got != uint64(TagBoolTrue)<<56|1 {
		t.Fatalf("append() = %#x, want tag/payload packed", got)
	}
}

func TestTapeWriterTwoWordEntries(t *testing.T) {
	doc := &Document{}
	w := tapeWriter{doc: doc}

	w.appendInt64(-42)
	w.appendUint64(1 << 63)
	w.appendDouble(3.5)

	if len(doc.Tape) != 6 {
		t.Fatalf("expected 6 tape words for 3 two-word entries, got %d", len(doc.Tape))
	}
	if Tag(doc.Tape[0]>>56) != TagInt64 || int64(doc.Tape[1]) != -42 {
		t.Fatalf("int64 entry malformed: %#x %#x", doc.Tape[0], doc.Tape[1])
	}
	if Tag(doc.Tape[2]>>56) != TagUint64 || doc.Tape[3] != 1<<63 {
		t.Fatalf("uint64 entry malformed: %#x %#x", doc.Tape[2], doc.Tape[3])
	}
	if Tag(doc.Tape[4]>>56) != TagDouble || math.Float64frombits(doc.Tape[5]) != 3.5 {
		t.Fatalf("double entry malformed: %#x %#x", doc.Tape[4], doc.Tape[5])
	}
}

func TestTapeWriterSkipAndBackPatch(t *testing.T) {
	doc := &Document{}
	w := tapeWriter{doc: doc}

	slot := w.skip()
	w.append(TagBoolFalse, 0)
	w.backPatch(slot, TagArrayStart, 123)

	if Tag(doc.Tape[slot]>>56) != TagArrayStart {
		t.Fatalf("backPatch did not set tag")
	}
	if doc.Tape[slot]&JSONValueMask != 123 {
		t.Fatalf("backPatch did not set payload")
	}
}

func TestTapeWriterBackPatchPayloadPreservesTag(t *testing.T) {
	doc := &Document{}
	w := tapeWriter{doc: doc}

	slot := w.skip()
	w.backPatch(slot, TagObjectStart, 0)
	w.backPatchPayload(slot, 7|(3<<countShift))

	if Tag(doc.Tape[slot]>>56) != TagObjectStart {
		t.Fatalf("backPatchPayload clobbered tag")
	}
	if doc.Tape[slot]&JSONValueMask != 7|(3<<countShift) {
		t.Fatalf("backPatchPayload did not set payload")
	}
}

func TestTapeWriterNextIndex(t *testing.T) {
	doc := &Document{}
	w := tapeWriter{doc: doc}

	if w.nextIndex() != 0 {
		t.Fatalf("nextIndex() on empty tape = %d, want 0", w.nextIndex())
	}
	w.append(TagNull, 0)
	if w.nextIndex() != 1 {
		t.Fatalf("nextIndex() after one append = %d, want 1", w.nextIndex())
	}
}
