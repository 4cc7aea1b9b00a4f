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

// ErrorCode is the stable, coarse-grained failure taxonomy returned by
// ParseStructurals. It intentionally carries no byte offset or message:
// stage 2 does not attempt to produce human readable diagnostics, only
// enough information for a caller to classify what went wrong.
type ErrorCode uint8

const (
	// Success indicates the parse completed and depth returned to 0.
	Success ErrorCode = iota
	// Uninitialized is the value a parser reports before start() runs.
	Uninitialized
	// Empty indicates there were no structural indices to parse.
	Empty
	// StringError indicates an invalid escape sequence or unterminated string.
	StringError
	// NumberError indicates a malformed JSON number.
	NumberError
	// TAtomError indicates an invalid "true" atom.
	TAtomError
	// FAtomError indicates an invalid "false" atom.
	FAtomError
	// NAtomError indicates an invalid "null" atom.
	NAtomError
	// DepthError indicates max depth was reached or exceeded.
	DepthError
	// TapeError indicates a grammar violation: a missing comma, colon,
	// closing bracket/brace, or unclosed scope.
	TapeError
)

var errorStrings = [...]string{
	Success:       "success",
	Uninitialized: "uninitialized",
	Empty:         "no structural indices found in input",
	StringError:   "invalid string: bad escape or unterminated",
	NumberError:   "invalid number",
	TAtomError:    "invalid true atom",
	FAtomError:    "invalid false atom",
	NAtomError:    "invalid null atom",
	DepthError:    "max depth reached",
	TapeError:     "tape error: unexpected structural character",
}

// Error implements the error interface. Success never escapes as an error;
// callers get a nil error for ErrorCode(Success).
func (e ErrorCode) Error() string {
	if int(e) < len(errorStrings) && errorStrings[e] != "" {
		return errorStrings[e]
	}
	return "unknown error"
}

// OrNil returns nil if e is Success, otherwise e itself as an error.
func (e ErrorCode) OrNil() error {
	if e == Success {
		return nil
	}
	return e
}
