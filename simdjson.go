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

// Package simdjson parses pre-tokenized JSON ("stage 2" of the simdjson
// architecture) into a tape representation: a pass over an array of
// structural byte offsets that builds a flat, randomly-walkable encoding
// of the document without constructing a tree of objects.
package simdjson

import (
	"bufio"
	"fmt"
	"io"
)

// padBuffer returns a buffer of at least len(b)+PaddingBytes bytes whose
// first len(b) bytes are a copy of b. Stage 1 and stage 2 both assume
// they may read PaddingBytes past the logical end of the document.
func padBuffer(b []byte, reuse []byte) []byte {
	need := len(b) + PaddingBytes
	if cap(reuse) >= need {
		reuse = reuse[:need]
	} else {
		reuse = make([]byte, need)
	}
	copy(reuse, b)
	for i := len(b); i < need; i++ {
		reuse[i] = ' '
	}
	return reuse
}

func parseOne(b []byte, opts parseOptions, pj *ParsedJson) error {
	buf := padBuffer(b, nil)
	indexes := findStructuralIndices(buf, len(b), make([]uint32, 0, len(b)/2+2))
	if len(indexes) == 0 {
		return Empty
	}
	pj.Tape = pj.Tape[:0]
	if cap(pj.Tape) < len(indexes)+2 {
		pj.Tape = make([]uint64, 0, len(indexes)+2)
	}
	pj.Strings = pj.Strings[:0]
	doc := pj.doc()

	ps := ParserState{Buf: buf, Len: len(b), Indexes: indexes, MaxDepth: opts.maxDepth}
	code := ParseStructurals(&ps, doc, false)
	pj.Tape = doc.Tape
	pj.Strings = doc.Strings
	if code != Success {
		return code
	}
	return nil
}

// Parse parses a single JSON document in b. An optional previously
// returned ParsedJson can be supplied in reuse to cut allocations.
func Parse(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	o := defaultParseOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pj := reuse
	if pj == nil {
		pj = &ParsedJson{}
	} else {
		pj.Reset()
	}
	if err := parseOne(b, o, pj); err != nil {
		return nil, err
	}
	return pj, nil
}

// ParseND parses newline-delimited JSON: a sequence of complete JSON
// values, one after another, each becoming a sibling ROOT entry on the
// same tape.
func ParseND(b []byte, reuse *ParsedJson, opts ...ParserOption) (*ParsedJson, error) {
	o := defaultParseOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pj := reuse
	if pj == nil {
		pj = &ParsedJson{}
	} else {
		pj.Reset()
	}

	buf := padBuffer(b, nil)
	indexes := findStructuralIndices(buf, len(b), make([]uint32, 0, len(b)/2+2))
	if len(indexes) == 0 {
		return nil, Empty
	}
	doc := pj.doc()
	ps := ParserState{Buf: buf, Len: len(b), Indexes: indexes, MaxDepth: o.maxDepth}
	for {
		code := ParseStructurals(&ps, doc, true)
		if code != Success {
			pj.Tape = doc.Tape
			pj.Strings = doc.Strings
			return nil, code
		}
		if int(ps.NextStructuralIndex) >= len(indexes) {
			break
		}
	}
	pj.Tape = doc.Tape
	pj.Strings = doc.Strings
	return pj, nil
}

// Stream is one parsed record (or a terminal error) sent back by
// ParseNDStream.
type Stream struct {
	Value *ParsedJson
	Error error
}

// ParseNDStream parses newline-delimited JSON read from r, sending each
// chunk's parse result to res as it becomes available. The stream ends
// when a non-nil Error is sent; on a clean end of input that Error is
// io.EOF. res is closed after the final send. An optional reuse channel
// lets a consumer recycle ParsedJson buffers back to the parser;
// writers to reuse must never block.
func ParseNDStream(r io.Reader, res chan<- Stream, reuse <-chan *ParsedJson) {
	const chunkSize = 10 << 20
	br := bufio.NewReaderSize(r, chunkSize)
	tmp := make([]byte, 0, chunkSize+4096)

	go func() {
		defer close(res)
		for {
			tmp = tmp[:0]
			chunk := make([]byte, chunkSize)
			n, readErr := br.Read(chunk)
			tmp = append(tmp, chunk[:n]...)
			if readErr == nil {
				// Finish the last (possibly partial) record in this
				// chunk so every chunk handed to the parser ends on a
				// record boundary.
				rest, err := br.ReadBytes('\n')
				if err != nil && err != io.EOF {
					res <- Stream{Error: fmt.Errorf("reading input: %w", err)}
					return
				}
				tmp = append(tmp, rest...)
			}

			if len(tmp) > 0 {
				var reused *ParsedJson
				select {
				case reused = <-reuse:
				default:
				}
				pj, err := ParseND(tmp, reused)
				if err != nil {
					res <- Stream{Error: fmt.Errorf("parsing input: %w", err)}
					return
				}
				res <- Stream{Value: pj}
			}

			if readErr != nil {
				if readErr != io.EOF {
					res <- Stream{Error: fmt.Errorf("reading input: %w", readErr)}
					return
				}
				res <- Stream{Error: io.EOF}
				return
			}
		}
	}()
}
