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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Snapshot serializes a parsed Document's tape and string buffer so it
// can be stored or shipped without re-parsing the source JSON. Unlike a
// from-scratch re-parse, Restore only needs to inflate two compressed
// blocks and can reuse an existing Document's backing slices.
//
// Wire format:
//
//	byte    version
//	uvarint tape length, in 8-byte words
//	uvarint string buffer length, in bytes
//	block   tape    (raw 8-byte LE words, S2 compressed)
//	block   strings (length-prefixed UTF-8 records, Zstd compressed)
//
// A block is: uvarint block length (type byte included), byte block
// type, block bytes. A section shorter than 64 bytes is stored
// uncompressed.
type Snapshot struct {
	tapeBuf    []byte
	tapeComp   []byte
	stringComp []byte
}

const snapshotVersion byte = 1

const (
	blockTypeUncompressed byte = 0
	blockTypeS2           byte = 1
	blockTypeZstd         byte = 2
)

var (
	snapshotZstdDecoder, _ = zstd.NewReader(nil)
	snapshotZstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderCRC(false))
)

// NewSnapshot returns a reusable Snapshot. Reuse across calls avoids
// reallocating the staging buffers on every Save.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Save appends the serialized form of doc to dst and returns the
// extended slice.
func (s *Snapshot) Save(dst []byte, doc *Document) []byte {
	if cap(s.tapeBuf) < len(doc.Tape)*8 {
		s.tapeBuf = make([]byte, len(doc.Tape)*8)
	}
	s.tapeBuf = s.tapeBuf[:len(doc.Tape)*8]
	for i, v := range doc.Tape {
		binary.LittleEndian.PutUint64(s.tapeBuf[i*8:], v)
	}

	// Tape values are already stable 64-bit words (no reliance on raw
	// pointers or process-local hashes), so a single S2 block per
	// section is enough; there is no per-record entropy table to
	// rebuild the way the tag/value split buys the original encoder.
	s.tapeComp = encodeBlock(blockTypeS2, s.tapeBuf, s.tapeComp)
	s.stringComp = encodeBlock(blockTypeZstd, doc.Strings, s.stringComp)

	var tmp [binary.MaxVarintLen64]byte
	dst = append(dst, snapshotVersion)
	n := binary.PutUvarint(tmp[:], uint64(len(doc.Tape)))
	dst = append(dst, tmp[:n]...)
	n = binary.PutUvarint(tmp[:], uint64(len(doc.Strings)))
	dst = append(dst, tmp[:n]...)

	n = binary.PutUvarint(tmp[:], uint64(len(s.tapeComp)))
	dst = append(dst, tmp[:n]...)
	dst = append(dst, s.tapeComp...)

	n = binary.PutUvarint(tmp[:], uint64(len(s.stringComp)))
	dst = append(dst, tmp[:n]...)
	dst = append(dst, s.stringComp...)
	return dst
}

// Restore decodes a buffer produced by Save into dst, reusing dst's
// backing slices when they are large enough.
func (s *Snapshot) Restore(src []byte, dst *Document) (*Document, error) {
	br := bytes.NewReader(src)
	version, err := br.ReadByte()
	if err != nil {
		return dst, err
	}
	if version != snapshotVersion {
		return dst, fmt.Errorf("snapshot: unsupported version %d", version)
	}
	if dst == nil {
		dst = &Document{}
	}

	tapeLen, err := binary.ReadUvarint(br)
	if err != nil {
		return dst, err
	}
	stringsLen, err := binary.ReadUvarint(br)
	if err != nil {
		return dst, err
	}

	tapeBytes, err := readBlock(br, int(tapeLen)*8)
	if err != nil {
		return dst, fmt.Errorf("snapshot: reading tape: %w", err)
	}
	if uint64(cap(dst.Tape)) < tapeLen {
		dst.Tape = make([]uint64, tapeLen)
	}
	dst.Tape = dst.Tape[:tapeLen]
	for i := range dst.Tape {
		dst.Tape[i] = binary.LittleEndian.Uint64(tapeBytes[i*8:])
	}

	stringBytes, err := readBlock(br, int(stringsLen))
	if err != nil {
		return dst, fmt.Errorf("snapshot: reading strings: %w", err)
	}
	if uint64(cap(dst.Strings)) < stringsLen {
		dst.Strings = make([]byte, stringsLen)
	}
	dst.Strings = dst.Strings[:stringsLen]
	copy(dst.Strings, stringBytes)
	return dst, nil
}

func encodeBlock(mode byte, src, dst []byte) []byte {
	if len(src) < 64 {
		mode = blockTypeUncompressed
	}
	switch mode {
	case blockTypeUncompressed:
		if cap(dst) < len(src)+1 {
			dst = make([]byte, len(src)+1)
		}
		dst = dst[:len(src)+1]
		dst[0] = mode
		copy(dst[1:], src)
		return dst
	case blockTypeS2:
		maxLen := s2.MaxEncodedLen(len(src)) + 1
		if cap(dst) < maxLen {
			dst = make([]byte, maxLen)
		}
		dst = dst[:maxLen]
		dst[0] = mode
		got := s2.Encode(dst[1:], src)
		return dst[:len(got)+1]
	case blockTypeZstd:
		maxLen := len(src) + 64
		if cap(dst) < maxLen {
			dst = make([]byte, maxLen)
		}
		dst = dst[:1]
		dst[0] = mode
		return snapshotZstdEncoder.EncodeAll(src, dst)
	}
	panic("snapshot: unknown block type")
}

func readBlock(br *bytes.Reader, wantLen int) ([]byte, error) {
	size, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, errors.New("block too small to hold a type byte")
	}
	if int(size) > br.Len() {
		return nil, fmt.Errorf("block size %d exceeds remaining input %d", size, br.Len())
	}
	typ, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	compressed := make([]byte, size-1)
	if _, err := br.Read(compressed); err != nil {
		return nil, err
	}
	switch typ {
	case blockTypeUncompressed:
		if len(compressed) != wantLen {
			return nil, fmt.Errorf("uncompressed block length %d, want %d", len(compressed), wantLen)
		}
		return compressed, nil
	case blockTypeS2:
		out, err := s2.Decode(make([]byte, wantLen), compressed)
		if err != nil {
			return nil, err
		}
		if len(out) != wantLen {
			return nil, fmt.Errorf("s2 decoded length %d, want %d", len(out), wantLen)
		}
		return out, nil
	case blockTypeZstd:
		out, err := snapshotZstdDecoder.DecodeAll(compressed, make([]byte, 0, wantLen))
		if err != nil {
			return nil, err
		}
		if len(out) != wantLen {
			return nil, fmt.Errorf("zstd decoded length %d, want %d", len(out), wantLen)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown block type %d", typ)
}
