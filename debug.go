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
	"fmt"
	"io"
	"math"
)

// DumpTape writes a line-per-entry trace of the tape to w: index, tag,
// and payload, with the scope-open/close entries annotated with the
// tape index they reference. It exists for debugging a parse gone
// wrong, not as a logging facility wired into the hot path.
func (pj *ParsedJson) DumpTape(w io.Writer) error {
	tape := pj.Tape
	for idx := 0; idx < len(tape); idx++ {
		v := tape[idx]
		tag := Tag(v >> 56)
		payload := v & JSONValueMask

		switch tag {
		case TagRoot:
			if end := scopeEndIndex(v); end-1 > idx {
				fmt.Fprintf(w, "%d : r\t// root, next record at %d\n", idx, end)
			} else {
				fmt.Fprintf(w, "%d : r\t// root end, opened at %d\n", idx, payload)
			}
		case TagString:
			s, err := pj.stringAt(payload)
			if err != nil {
				return fmt.Errorf("dump: %w", err)
			}
			fmt.Fprintf(w, "%d : string %q (offset %d)\n", idx, s, payload)
		case TagInt64:
			idx++
			if idx >= len(tape) {
				return fmt.Errorf("dump: integer tag at end of tape")
			}
			fmt.Fprintf(w, "%d : integer %d\n", idx-1, int64(tape[idx]))
		case TagUint64:
			idx++
			if idx >= len(tape) {
				return fmt.Errorf("dump: unsigned tag at end of tape")
			}
			fmt.Fprintf(w, "%d : unsigned %d\n", idx-1, tape[idx])
		case TagDouble:
			idx++
			if idx >= len(tape) {
				return fmt.Errorf("dump: float tag at end of tape")
			}
			fmt.Fprintf(w, "%d : float %v\n", idx-1, math.Float64frombits(tape[idx]))
		case TagNull:
			fmt.Fprintf(w, "%d : null\n", idx)
		case TagBoolTrue:
			fmt.Fprintf(w, "%d : true\n", idx)
		case TagBoolFalse:
			fmt.Fprintf(w, "%d : false\n", idx)
		case TagObjectStart:
			end := scopeEndIndex(v)
			count := payload >> countShift
			fmt.Fprintf(w, "%d : {\t// closes at %d, %d child values\n", idx, end-1, count)
		case TagObjectEnd:
			fmt.Fprintf(w, "%d : }\t// opened at %d\n", idx, payload)
		case TagArrayStart:
			end := scopeEndIndex(v)
			count := payload >> countShift
			fmt.Fprintf(w, "%d : [\t// closes at %d, %d child values\n", idx, end-1, count)
		case TagArrayEnd:
			fmt.Fprintf(w, "%d : ]\t// opened at %d\n", idx, payload)
		default:
			return fmt.Errorf("dump: unknown tag %c at index %d", byte(tag), idx)
		}
	}
	return nil
}
