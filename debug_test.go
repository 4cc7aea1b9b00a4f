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

func TestDumpTape(t *testing.T) {
	pj, err := Parse([]byte(`{"a":1,"b":[true,null]}`), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var buf bytes.Buffer
	if err := pj.DumpTape(&buf); err != nil {
		t.Fatalf("DumpTape() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"root", "{", "integer 1", "[", "true", "null", "]", "}"} {
		if !strings.Contains(out, want) {
			t.Errorf("DumpTape() output missing %q:\n%s", want, out)
		}
	}
}
