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

import "testing"

func parseStructurals(t *testing.T, js string, streaming bool) (*Document, *ParserState, ErrorCode) {
	t.Helper()
	buf := padBuffer([]byte(js), nil)
	indexes := findStructuralIndices(buf, len(js), nil)
	ps := &ParserState{Buf: buf, Len: len(js), Indexes: indexes}
	doc := &Document{}
	code := ParseStructurals(ps, doc, streaming)
	return doc, ps, code
}

func TestParseStructuralsObjectChildCount(t *testing.T) {
	doc, _, code := parseStructurals(t, `{"a":1,"b":2,"c":3}`, false)
	if code != Success {
		t.Fatalf("ParseStructurals() = %v, want Success", code)
	}
	// tape[0] = root, tape[1] = object opener.
	opener := doc.Tape[1]
	if Tag(opener>>56) != TagObjectStart {
		t.Fatalf("tape[1] tag = %v, want TagObjectStart", Tag(opener>>56))
	}
	count := (opener & JSONValueMask) >> countShift
	if count != 3 {
		t.Fatalf("object child count = %d, want 3 (one per key/value pair)", count)
	}
}

func TestParseStructuralsArrayChildCount(t *testing.T) {
	doc, _, code := parseStructurals(t, `[1,2,3,4]`, false)
	if code != Success {
		t.Fatalf("ParseStructurals() = %v, want Success", code)
	}
	opener := doc.Tape[1]
	if Tag(opener>>56) != TagArrayStart {
		t.Fatalf("tape[1] tag = %v, want TagArrayStart", Tag(opener>>56))
	}
	count := (opener & JSONValueMask) >> countShift
	if count != 4 {
		t.Fatalf("array child count = %d, want 4", count)
	}
}

func TestParseStructuralsOpenerCloserCrossReference(t *testing.T) {
	doc, _, code := parseStructurals(t, `[1,2]`, false)
	if code != Success {
		t.Fatalf("ParseStructurals() = %v, want Success", code)
	}
	openerIdx := uint32(1)
	opener := doc.Tape[openerIdx]
	closerIdx := uint32(opener & 0xFFFFFFFF)
	closer := doc.Tape[closerIdx]
	if Tag(closer>>56) != TagArrayEnd {
		t.Fatalf("tape[%d] tag = %v, want TagArrayEnd", closerIdx, Tag(closer>>56))
	}
	if uint32(closer&JSONValueMask) != openerIdx {
		t.Fatalf("closer payload = %d, want opener index %d", closer&JSONValueMask, openerIdx)
	}
}

func TestParseStructuralsDepthError(t *testing.T) {
	js := ""
	for i := 0; i < 10; i++ {
		js += "["
	}
	for i := 0; i < 10; i++ {
		js += "]"
	}
	buf := padBuffer([]byte(js), nil)
	indexes := findStructuralIndices(buf, len(js), nil)
	ps := &ParserState{Buf: buf, Len: len(js), Indexes: indexes, MaxDepth: 5}
	doc := &Document{}
	code := ParseStructurals(ps, doc, false)
	if code != DepthError {
		t.Fatalf("ParseStructurals() = %v, want DepthError", code)
	}
}

func TestParseStructuralsErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		js   string
		want ErrorCode
	}{
		{"unterminated object", `{"a":1`, TapeError},
		{"bad true atom", `tru`, TAtomError},
		{"bad false atom", `fal`, FAtomError},
		{"bad null atom", `nul`, NAtomError},
		{"bad number", `1.`, NumberError},
		{"missing colon", `{"a" 1}`, TapeError},
		{"trailing comma object", `{"a":1,}`, TapeError},
		{"root array never closes", `[1,2,3`, TapeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, code := parseStructurals(t, tt.js, false)
			if code != tt.want {
				t.Fatalf("ParseStructurals(%q) = %v, want %v", tt.js, code, tt.want)
			}
		})
	}
}

func TestParseStructuralsEmptyInput(t *testing.T) {
	ps := &ParserState{Buf: padBuffer(nil, nil), Len: 0}
	doc := &Document{}
	if code := ParseStructurals(ps, doc, false); code != Empty {
		t.Fatalf("ParseStructurals() on empty input = %v, want Empty", code)
	}
}

func TestParseStructuralsStreamingResumesAcrossRecords(t *testing.T) {
	js := `{"a":1}{"b":2}`
	buf := padBuffer([]byte(js), nil)
	indexes := findStructuralIndices(buf, len(js), nil)
	ps := &ParserState{Buf: buf, Len: len(js), Indexes: indexes}
	doc := &Document{}

	if code := ParseStructurals(ps, doc, true); code != Success {
		t.Fatalf("first ParseStructurals() = %v, want Success", code)
	}
	if int(ps.NextStructuralIndex) >= len(indexes) {
		t.Fatal("expected a second record left to parse")
	}
	if code := ParseStructurals(ps, doc, true); code != Success {
		t.Fatalf("second ParseStructurals() = %v, want Success", code)
	}
	if int(ps.NextStructuralIndex) != len(indexes) {
		t.Fatalf("NextStructuralIndex = %d, want %d (fully consumed)", ps.NextStructuralIndex, len(indexes))
	}
}

func TestParseStructuralsRootScalarTypes(t *testing.T) {
	tests := []struct {
		js  string
		tag Tag
	}{
		{"true", TagBoolTrue},
		{"false", TagBoolFalse},
		{"null", TagNull},
		{`"hi"`, TagString},
		{"42", TagInt64},
		{"3.5", TagDouble},
	}
	for _, tt := range tests {
		doc, _, code := parseStructurals(t, tt.js, false)
		if code != Success {
			t.Fatalf("ParseStructurals(%q) = %v, want Success", tt.js, code)
		}
		if Tag(doc.Tape[1]>>56) != tt.tag {
			t.Fatalf("ParseStructurals(%q) tape[1] tag = %v, want %v", tt.js, Tag(doc.Tape[1]>>56), tt.tag)
		}
	}
}

func TestParseStructuralsRootNumberWithTrailingBytesRejected(t *testing.T) {
	// "1]" as a whole document: the number itself parses (a structural
	// byte may follow a number), but a structural index remains after
	// the root value, which a non-streaming parse rejects.
	_, _, code := parseStructurals(t, "1]", false)
	if code != TapeError {
		t.Fatalf("ParseStructurals(\"1]\") = %v, want TapeError", code)
	}
}

func TestParseStructuralsMaxDepthDefault(t *testing.T) {
	ps := &ParserState{}
	if ps.maxDepth() != DefaultMaxDepth {
		t.Fatalf("maxDepth() = %d, want %d", ps.maxDepth(), DefaultMaxDepth)
	}
	ps.MaxDepth = 7
	if ps.maxDepth() != 7 {
		t.Fatalf("maxDepth() = %d, want 7", ps.maxDepth())
	}
}
