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
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		js      string
		wantErr bool
	}{
		{name: "object", js: `{"a":1,"b":[1,2,3],"c":"hello","d":null,"e":true,"f":false}`},
		{name: "array", js: `[1,2.5,"x",[true,false],{"k":null}]`},
		{name: "bare number", js: `12345`},
		{name: "bare string", js: `"just a string"`},
		{name: "bare true", js: `true`},
		{name: "nested empty", js: `{"a":{},"b":[]}`},
		{name: "unterminated object", js: `{"a":1`, wantErr: true},
		{name: "trailing garbage", js: `1 2`, wantErr: true},
		{name: "bad atom", js: `tru`, wantErr: true},
		{name: "unterminated root array", js: `[1,2,3`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pj, err := Parse([]byte(tt.js), nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			it := pj.Iter()
			out, err := it.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			t.Logf("round trip: %s", out)
		})
	}
}

func TestParseND(t *testing.T) {
	js := `{"three":true,"two":"foo","one":-1}
{"three":false,"two":"bar","one":null}
{"three":true,"two":"baz","one":2.5}`

	got, err := ParseND([]byte(js), nil)
	if err != nil {
		t.Fatalf("ParseND() error = %v", err)
	}

	i := got.Iter()
	count := 0
	for i.Advance() == TypeRoot {
		obj, _, err := i.Root(nil)
		if err != nil {
			t.Fatalf("Root() error = %v", err)
		}
		_ = obj
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 records, got %d", count)
	}
}

func TestParseReuse(t *testing.T) {
	pj, err := Parse([]byte(`{"a":1}`), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	pj2, err := Parse([]byte(`{"b":2}`), pj)
	if err != nil {
		t.Fatalf("Parse() with reuse error = %v", err)
	}
	i := pj2.Iter()
	i.Advance()
	if _, _, err := i.Root(&i); err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	obj, err := i.Object(nil)
	if err != nil {
		t.Fatalf("Object() error = %v", err)
	}
	var elem Iter
	name, typ, err := obj.NextElement(&elem)
	if err != nil {
		t.Fatalf("NextElement() error = %v", err)
	}
	if name != "b" || typ != TypeInt {
		t.Fatalf("got name=%q type=%v, want b/int", name, typ)
	}
}
