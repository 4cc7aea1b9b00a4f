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
	"bytes"
	"strings"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	js := `{"a":1,"b":[1,2,3],"c":"hello world","d":null,"e":true,"f":3.5}`
	pj, err := Parse([]byte(js), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	snap := NewSnapshot()
	saved := snap.Save(nil, pj.doc())

	restored, err := snap.Restore(saved, nil)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !tapeEqual(restored.Tape, pj.Tape) {
		t.Fatal("restored tape does not match original")
	}
	if !bytes.Equal(restored.Strings, pj.Strings) {
		t.Fatalf("restored strings = %v, want %v", restored.Strings, pj.Strings)
	}

	restoredPJ := &ParsedJson{Tape: restored.Tape, Strings: restored.Strings}
	restoredIt := restoredPJ.Iter()
	out, err := restoredIt.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() on restored document error = %v", err)
	}
	origIt := pj.Iter()
	orig, err := origIt.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() on original document error = %v", err)
	}
	if string(out) != string(orig) {
		t.Fatalf("restored document = %s, want %s", out, orig)
	}
}

func TestSnapshotRoundTripLargeStringBuffer(t *testing.T) {
	// Exceeds the 64 byte inline threshold in encodeBlock so the
	// string buffer actually goes through the Zstd path.
	js := `{"big":"` + strings.Repeat("abcdefgh", 64) + `"}`
	pj, err := Parse([]byte(js), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	snap := NewSnapshot()
	saved := snap.Save(nil, pj.doc())
	restored, err := snap.Restore(saved, nil)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !bytes.Equal(restored.Strings, pj.Strings) {
		t.Fatal("restored strings do not match original after compression round trip")
	}
}

func TestSnapshotRestoreRejectsBadVersion(t *testing.T) {
	snap := NewSnapshot()
	_, err := snap.Restore([]byte{99}, nil)
	if err == nil {
		t.Fatal("Restore() with bad version byte expected error")
	}
}

func tapeEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

