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

// stage 1 finds structural characters and records their byte offsets.
// The amd64 port found these with SIMD classification tables processed
// 64 bytes at a time; this is the scalar fallback that does the same
// job one byte at a time, suitable for any GOARCH.

// isStructural reports whether c is one of the 6 structural JSON bytes.
func isStructural(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// findStructuralIndices scans buf[:length] and appends the offset of
// every structural character and every byte that begins a scalar token
// (a string's opening quote, or the first byte of a number/atom) to
// indexes. Bytes inside string literals, including escaped quotes, are
// skipped without being mistaken for structural bytes.
//
// length must not exceed len(buf)-PaddingBytes: callers reading ahead
// during stage 2 rely on PaddingBytes of slack past the logical end.
func findStructuralIndices(buf []byte, length int, indexes []uint32) []uint32 {
	capabilities().touch()

	i := 0
	for i < length {
		c := buf[i]
		switch {
		case isWhitespace(c):
			i++
		case c == '"':
			indexes = append(indexes, uint32(i))
			i = skipString(buf, length, i+1)
		case isStructural(c):
			indexes = append(indexes, uint32(i))
			i++
		default:
			// Start of a number, true/false/null, or (if all else
			// fails) an invalid byte that stage 2 will reject: either
			// way stage 2 needs to see where it begins.
			indexes = append(indexes, uint32(i))
			i = skipScalarToken(buf, length, i)
		}
	}
	return indexes
}

// skipString advances past a string body starting right after the
// opening quote, honoring backslash escapes, and returns the index
// right after the closing quote (or length if the string never closes;
// stage 2's decoder reports the precise error in that case).
func skipString(buf []byte, length, i int) int {
	for i < length {
		c := buf[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '"' {
			return i + 1
		}
		i++
	}
	return length
}

// skipScalarToken advances past a run of bytes that could plausibly be
// part of a bare atom or number: anything that is not whitespace, a
// structural byte, or a quote. stage 2 performs the actual grammar
// validation; stage 1 only needs a single structural-index entry per
// token.
func skipScalarToken(buf []byte, length, i int) int {
	for i < length {
		c := buf[i]
		if isWhitespace(c) || isStructural(c) || c == '"' {
			return i
		}
		i++
	}
	return length
}
