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

import "strconv"

// parsedNumber is the result of scanning one JSON number: the tag to
// write (int64, uint64 or double) and the value in the matching field.
type parsedNumber struct {
	tag Tag
	i   int64
	u   uint64
	f   float64
	ok  bool
	end int
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// parseNumber implements the full JSON number grammar:
//
//	number = [ "-" ] int [ frac ] [ exp ]
//	int    = "0" / digit1-9 *digit
//	frac   = "." 1*digit
//	exp    = ("e" / "E") [ "-" / "+" ] 1*digit
//
// buf starts at the number's first byte ('-' or a digit) and must have
// at least PaddingBytes of readable bytes past the logical end of the
// document, except at the document root where limit bounds the scan
// (see parseRootNumber).
func parseNumber(buf []byte) parsedNumber {
	return scanNumber(buf, len(buf))
}

// parseRootNumber scans a number known to be the entire (trimmed)
// document, reading no further than remaining bytes, and rejects a
// number followed by a byte that is neither whitespace nor structural
// (such as "1x"). A structural byte after the number, as in "1]", is
// accepted here; ParseStructurals reports that document as a TapeError
// because a structural index remains after the root value.
func parseRootNumber(buf []byte, remaining int) parsedNumber {
	n := scanNumber(buf, remaining)
	if !n.ok {
		return n
	}
	if n.end < remaining && !structuralOrWhitespace(buf[n.end]) {
		n.ok = false
	}
	return n
}

func scanNumber(buf []byte, limit int) parsedNumber {
	var n parsedNumber
	i := 0
	negative := false
	if i < limit && buf[i] == '-' {
		negative = true
		i++
	}
	if i >= limit || !isDigit(buf[i]) {
		return n
	}
	if buf[i] == '0' {
		i++
	} else {
		for i < limit && isDigit(buf[i]) {
			i++
		}
	}
	isDouble := false

	if i < limit && buf[i] == '.' {
		isDouble = true
		i++
		fracStart := i
		for i < limit && isDigit(buf[i]) {
			i++
		}
		if i == fracStart {
			return n
		}
	}

	if i < limit && (buf[i] == 'e' || buf[i] == 'E') {
		isDouble = true
		i++
		if i < limit && (buf[i] == '-' || buf[i] == '+') {
			i++
		}
		expStart := i
		for i < limit && isDigit(buf[i]) {
			i++
		}
		if i == expStart {
			return n
		}
	}

	n.end = i
	text := buf[:i]

	if isDouble {
		f, err := strconv.ParseFloat(string(text), 64)
		if err != nil {
			return parsedNumber{}
		}
		n.tag = TagDouble
		n.f = f
		n.ok = true
		return n
	}

	// Integer: prefer int64, fall back to uint64 for values in
	// (math.MaxInt64, math.MaxUint64], matching the upstream behavior
	// of accepting the full unsigned range for non-negative integers.
	if !negative {
		u, err := strconv.ParseUint(string(text), 10, 64)
		if err != nil {
			return parsedNumber{}
		}
		if u <= 1<<63-1 {
			n.tag = TagInt64
			n.i = int64(u)
		} else {
			n.tag = TagUint64
			n.u = u
		}
		n.ok = true
		return n
	}

	v, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return parsedNumber{}
	}
	n.tag = TagInt64
	n.i = v
	n.ok = true
	return n
}
