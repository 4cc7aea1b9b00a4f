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
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Iter walks a tape, one value at a time. The zero Iter is not usable;
// get one from ParsedJson.Iter, Iter.Root, Iter.Object or Iter.Array.
// Copying an Iter yields an independent cursor over the same tape.
type Iter struct {
	tape ParsedJson

	// off is the offset of the next entry to be decoded.
	off int
	// addNext is how far Advance must move off to skip the value
	// queued by the last Advance/AdvanceInto call.
	addNext int
	// cur is the current entry's payload, tag bits excluded.
	cur uint64
	// t is the current entry's tag.
	t Tag
}

// Advance reads the type of the next element and queues its value so a
// later Advance skips over it without descending into it.
func (i *Iter) Advance() Type {
	i.off += i.addNext
	if i.off >= len(i.tape.Tape) {
		i.addNext = 0
		i.t = TagEnd
		return TypeNone
	}
	v := i.tape.Tape[i.off]
	i.cur = v & JSONValueMask
	i.t = Tag(v >> 56)
	i.off++
	i.calcNext(false)
	if i.addNext < 0 {
		// A corrupt tape pointed a scope backward; there is no error
		// return here, so stop iteration instead of reading garbage.
		i.moveToEnd()
		return TypeNone
	}
	return TagToType[i.t]
}

// AdvanceInto reads the tag of the next element and, for a container or
// root, descends into it rather than skipping over it.
func (i *Iter) AdvanceInto() Tag {
	i.off += i.addNext
	if i.off >= len(i.tape.Tape) {
		i.addNext = 0
		i.t = TagEnd
		return TagEnd
	}
	v := i.tape.Tape[i.off]
	i.cur = v & JSONValueMask
	i.t = Tag(v >> 56)
	i.off++
	i.calcNext(true)
	if i.addNext < 0 {
		i.moveToEnd()
		return TagEnd
	}
	return i.t
}

func (i *Iter) moveToEnd() {
	i.off = len(i.tape.Tape)
	i.addNext = 0
	i.t = TagEnd
}

// scopeEndIndex returns the tape index of the entry right after a
// scope's matching closer, from a Root/ObjectStart/ArrayStart payload
// (the low 32 bits hold the closer's own tape index).
func scopeEndIndex(cur uint64) int {
	return int(cur&0xFFFFFFFF) + 1
}

// calcNext populates addNext: how many tape words the just-read value
// occupies, so the next Advance can skip it (into=false) or land right
// after the tag word to continue reading its contents (into=true).
func (i *Iter) calcNext(into bool) {
	i.addNext = 0
	switch i.t {
	case TagInt64, TagUint64, TagDouble:
		i.addNext = 1
	case TagRoot, TagObjectStart, TagArrayStart:
		if !into {
			i.addNext = scopeEndIndex(i.cur) - i.off
		}
	}
}

// Type returns the type queued by the previous Advance/AdvanceInto.
func (i *Iter) Type() Type {
	if i.off+i.addNext > len(i.tape.Tape) {
		return TypeNone
	}
	return TagToType[i.t]
}

// AdvanceIter reads the next element and returns an iterator scoped to
// just that element (its container, if it is one). dst may alias i.
func (i *Iter) AdvanceIter(dst *Iter) (Type, error) {
	i.off += i.addNext
	if i.off == len(i.tape.Tape) {
		i.addNext = 0
		i.t = TagEnd
		return TypeNone, nil
	}
	if i.off > len(i.tape.Tape) {
		return TypeNone, errors.New("offset bigger than tape")
	}

	v := i.tape.Tape[i.off]
	i.cur = v & JSONValueMask
	i.t = Tag(v >> 56)
	i.off++
	i.calcNext(false)
	if i.addNext < 0 {
		i.moveToEnd()
		return TypeNone, errors.New("element has negative offset")
	}

	iEnd := i.off + i.addNext
	typ := TagToType[i.t]

	if i != dst {
		*dst = *i
	}
	dst.calcNext(true)
	if dst.addNext < 0 {
		i.moveToEnd()
		return TypeNone, errors.New("element has negative offset")
	}

	if iEnd > len(dst.tape.Tape) {
		return TypeNone, errors.New("element extends beyond tape")
	}
	dst.tape.Tape = dst.tape.Tape[:iEnd]
	return typ, nil
}

// PeekNext returns the type of the value the next Advance would read,
// without moving the cursor.
func (i *Iter) PeekNext() Type {
	if i.off+i.addNext >= len(i.tape.Tape) {
		return TypeNone
	}
	return TagToType[Tag(i.tape.Tape[i.off+i.addNext]>>56)]
}

// PeekNextTag returns the tag of the value the next Advance would read.
func (i *Iter) PeekNextTag() Tag {
	if i.off+i.addNext >= len(i.tape.Tape) {
		return TagEnd
	}
	return Tag(i.tape.Tape[i.off+i.addNext] >> 56)
}

// Float returns the current element as a float64. Integers convert.
func (i *Iter) Float() (float64, error) {
	switch i.t {
	case TagDouble:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected float, but no more values on tape")
		}
		return math.Float64frombits(i.tape.Tape[i.off]), nil
	case TagInt64:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected integer, but no more values on tape")
		}
		return float64(int64(i.tape.Tape[i.off])), nil
	case TagUint64:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected integer, but no more values on tape")
		}
		return float64(i.tape.Tape[i.off]), nil
	}
	return 0, fmt.Errorf("unable to convert type %v to float", i.t)
}

// Int returns the current element as an int64. Floats and uint64
// values within range convert.
func (i *Iter) Int() (int64, error) {
	switch i.t {
	case TagDouble:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected float, but no more values on tape")
		}
		v := math.Float64frombits(i.tape.Tape[i.off])
		if v > math.MaxInt64 || v < math.MinInt64 {
			return 0, errors.New("float value overflows int64")
		}
		return int64(v), nil
	case TagInt64:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected integer, but no more values on tape")
		}
		return int64(i.tape.Tape[i.off]), nil
	case TagUint64:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected integer, but no more values on tape")
		}
		v := i.tape.Tape[i.off]
		if v > math.MaxInt64 {
			return 0, errors.New("unsigned integer value overflows int64")
		}
		return int64(v), nil
	}
	return 0, fmt.Errorf("unable to convert type %v to int", i.t)
}

// Uint returns the current element as a uint64.
func (i *Iter) Uint() (uint64, error) {
	switch i.t {
	case TagDouble:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected float, but no more values on tape")
		}
		v := math.Float64frombits(i.tape.Tape[i.off])
		if v > math.MaxUint64 || v < 0 {
			return 0, errors.New("float value cannot convert to uint64")
		}
		return uint64(v), nil
	case TagInt64:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected integer, but no more values on tape")
		}
		v := int64(i.tape.Tape[i.off])
		if v < 0 {
			return 0, errors.New("integer value is negative, cannot convert to uint")
		}
		return uint64(v), nil
	case TagUint64:
		if i.off >= len(i.tape.Tape) {
			return 0, errors.New("corrupt input: expected integer, but no more values on tape")
		}
		return i.tape.Tape[i.off], nil
	}
	return 0, fmt.Errorf("unable to convert type %v to uint", i.t)
}

// String returns the current element as a string. Only valid for TagString.
func (i *Iter) String() (string, error) {
	if i.t != TagString {
		return "", errors.New("value is not string")
	}
	return i.tape.stringAt(i.cur)
}

// StringBytes returns the current string's decoded bytes.
func (i *Iter) StringBytes() ([]byte, error) {
	if i.t != TagString {
		return nil, errors.New("value is not string")
	}
	return i.tape.stringByteAt(i.cur)
}

// StringCvt returns a string representation of any scalar value.
// Objects, arrays and root are not supported.
func (i *Iter) StringCvt() (string, error) {
	switch i.t {
	case TagString:
		return i.String()
	case TagInt64:
		v, err := i.Int()
		return strconv.FormatInt(v, 10), err
	case TagUint64:
		v, err := i.Uint()
		return strconv.FormatUint(v, 10), err
	case TagDouble:
		v, err := i.Float()
		if err != nil {
			return "", err
		}
		return floatToString(v)
	case TagBoolFalse:
		return "false", nil
	case TagBoolTrue:
		return "true", nil
	case TagNull:
		return "null", nil
	}
	return "", fmt.Errorf("cannot convert type %s to string", TagToType[i.t])
}

// Root returns the value embedded in a root entry (an NDJSON record) as
// an iterator, along with its type. An optional destination avoids
// allocation.
func (i *Iter) Root(dst *Iter) (Type, *Iter, error) {
	if i.t != TagRoot {
		return TypeNone, dst, errors.New("value is not root")
	}
	end := scopeEndIndex(i.cur)
	if end > len(i.tape.Tape)+1 {
		return TypeNone, dst, errors.New("root element extends beyond tape")
	}
	if dst == nil {
		c := *i
		dst = &c
	} else {
		dst.cur = i.cur
		dst.off = i.off
		dst.t = i.t
		dst.tape.Strings = i.tape.Strings
		dst.tape.Message = i.tape.Message
	}
	dst.addNext = 0
	dst.tape.Tape = i.tape.Tape[:end-1]
	return dst.AdvanceInto().Type(), dst, nil
}

// Bool returns the current element as a bool.
func (i *Iter) Bool() (bool, error) {
	switch i.t {
	case TagBoolTrue:
		return true, nil
	case TagBoolFalse:
		return false, nil
	}
	return false, fmt.Errorf("value is not bool, but %v", i.t)
}

// Interface returns the current element as a generic Go value: objects
// become map[string]interface{}, arrays become []interface{}, numbers
// become int64/uint64/float64, and a root entry becomes []interface{}
// (one element per NDJSON record).
func (i *Iter) Interface() (interface{}, error) {
	switch i.t.Type() {
	case TypeUint:
		return i.Uint()
	case TypeInt:
		return i.Int()
	case TypeFloat:
		return i.Float()
	case TypeNull:
		return nil, nil
	case TypeArray:
		arr, err := i.Array(nil)
		if err != nil {
			return nil, err
		}
		return arr.Interface()
	case TypeString:
		return i.String()
	case TypeObject:
		obj, err := i.Object(nil)
		if err != nil {
			return nil, err
		}
		return obj.Map(nil)
	case TypeBool:
		return i.t == TagBoolTrue, nil
	case TypeRoot:
		var dst []interface{}
		var tmp Iter
		for {
			typ, obj, err := i.Root(&tmp)
			if err != nil {
				return nil, err
			}
			if typ == TypeNone {
				break
			}
			elem, err := obj.Interface()
			if err != nil {
				return nil, err
			}
			dst = append(dst, elem)
			typ = i.Advance()
			if typ != TypeRoot {
				break
			}
		}
		return dst, nil
	case TypeNone:
		if i.PeekNextTag() == TagEnd {
			return nil, errors.New("no content in iterator")
		}
		i.Advance()
		return i.Interface()
	}
	return nil, fmt.Errorf("unknown tag type: %v", i.t)
}

// Object returns the current element as an Object. An optional
// destination avoids allocation.
func (i *Iter) Object(dst *Object) (*Object, error) {
	if i.t != TagObjectStart {
		return nil, errors.New("next item is not object")
	}
	end := scopeEndIndex(i.cur)
	if end < i.off {
		return nil, errors.New("corrupt input: object ends at index before start")
	}
	if end > len(i.tape.Tape) {
		return nil, errors.New("corrupt input: object extended beyond tape")
	}
	if dst == nil {
		dst = &Object{}
	}
	dst.tape.Tape = i.tape.Tape[:end]
	dst.tape.Strings = i.tape.Strings
	dst.tape.Message = i.tape.Message
	dst.off = i.off
	return dst, nil
}

// Array returns the current element as an Array. An optional
// destination avoids allocation.
func (i *Iter) Array(dst *Array) (*Array, error) {
	if i.t != TagArrayStart {
		return nil, errors.New("next item is not array")
	}
	end := scopeEndIndex(i.cur)
	if end > len(i.tape.Tape) {
		return nil, errors.New("corrupt input: array extended beyond tape")
	}
	if dst == nil {
		dst = &Array{}
	}
	dst.tape.Tape = i.tape.Tape[:end]
	dst.tape.Strings = i.tape.Strings
	dst.tape.Message = i.tape.Message
	dst.off = i.off
	return dst, nil
}

// MarshalJSON renders the remaining scope of the iterator, including
// the current value, as JSON.
func (i *Iter) MarshalJSON() ([]byte, error) {
	return i.MarshalJSONBuffer(nil)
}

// MarshalJSONBuffer is MarshalJSON with a caller-supplied destination
// buffer to reduce allocations. Output is appended to dst.
func (i *Iter) MarshalJSONBuffer(dst []byte) ([]byte, error) {
	var stackTmp [100]uint8
	stack := stackTmp[:1]
	const (
		stackNone = iota
		stackArray
		stackObject
		stackRoot
	)

writeloop:
	for {
		if stack[len(stack)-1] == stackObject && i.t != TagObjectEnd {
			sb, err := i.StringBytes()
			if err != nil {
				return nil, fmt.Errorf("expected key within object: %w", err)
			}
			dst = append(dst, '"')
			dst = escapeBytes(dst, sb)
			dst = append(dst, '"', ':')
			if i.PeekNextTag() == TagEnd {
				return nil, fmt.Errorf("unexpected end of tape within object")
			}
			i.AdvanceInto()
		}

	tagswitch:
		switch i.t {
		case TagRoot:
			isOpenRoot := scopeEndIndex(i.cur)-1 > i.off
			if len(stack) > 1 {
				if isOpenRoot {
					return dst, errors.New("root tag open, but not at top of stack")
				}
				switch stack[len(stack)-1] {
				case stackRoot:
					if i.PeekNextTag() != TagEnd {
						dst = append(dst, '\n')
					}
					stack = stack[:len(stack)-1]
					break tagswitch
				case stackNone:
					break writeloop
				default:
					return dst, fmt.Errorf("root tag, but not at top of stack, got id %d", stack[len(stack)-1])
				}
			}
			if isOpenRoot {
				i.addNext = 0
			}
			i.AdvanceInto()
			stack = append(stack, stackRoot)
			continue
		case TagString:
			sb, err := i.StringBytes()
			if err != nil {
				return nil, err
			}
			dst = append(dst, '"')
			dst = escapeBytes(dst, sb)
			dst = append(dst, '"')
		case TagInt64:
			v, err := i.Int()
			if err != nil {
				return nil, err
			}
			dst = strconv.AppendInt(dst, v, 10)
		case TagUint64:
			v, err := i.Uint()
			if err != nil {
				return nil, err
			}
			dst = strconv.AppendUint(dst, v, 10)
		case TagDouble:
			v, err := i.Float()
			if err != nil {
				return nil, err
			}
			dst, err = appendFloat(dst, v)
			if err != nil {
				return nil, err
			}
		case TagNull:
			dst = append(dst, "null"...)
		case TagBoolTrue:
			dst = append(dst, "true"...)
		case TagBoolFalse:
			dst = append(dst, "false"...)
		case TagObjectStart:
			dst = append(dst, '{')
			stack = append(stack, stackObject)
			i.AdvanceInto()
			continue
		case TagObjectEnd:
			dst = append(dst, '}')
			if stack[len(stack)-1] != stackObject {
				return dst, errors.New("end of object with no object on stack")
			}
			stack = stack[:len(stack)-1]
		case TagArrayStart:
			dst = append(dst, '[')
			stack = append(stack, stackArray)
			i.AdvanceInto()
			continue
		case TagArrayEnd:
			dst = append(dst, ']')
			if stack[len(stack)-1] != stackArray {
				return nil, errors.New("end of array with no array on stack")
			}
			stack = stack[:len(stack)-1]
		case TagEnd:
			if i.PeekNextTag() == TagEnd {
				return nil, errors.New("no content queued in iterator")
			}
			i.AdvanceInto()
			continue
		}

		if i.PeekNextTag() == TagEnd {
			break
		}
		i.AdvanceInto()

		switch stack[len(stack)-1] {
		case stackArray:
			if i.t != TagArrayEnd {
				dst = append(dst, ',')
			}
		case stackObject:
			if i.t != TagObjectEnd {
				dst = append(dst, ',')
			}
		}
	}
	if len(stack) > 1 {
		return nil, fmt.Errorf("objects or arrays not closed, left on stack: %v", stack[1:])
	}
	return dst, nil
}

var valToHex = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// escapeBytes appends the JSON-escaped form of src to dst.
func escapeBytes(dst, src []byte) []byte {
	for _, s := range src {
		switch s {
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '"':
			dst = append(dst, '\\', '"')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\\':
			dst = append(dst, '\\', '\\')
		default:
			if s <= 0x1f {
				dst = append(dst, '\\', 'u', '0', '0', valToHex[s>>4], valToHex[s&0xf])
			} else {
				dst = append(dst, s)
			}
		}
	}
	return dst
}

// floatToString converts f to its JSON text form.
func floatToString(f float64) (string, error) {
	var tmp [32]byte
	v, err := appendFloat(tmp[:0], f)
	return string(v), err
}

// appendFloat is floatToString appending into dst, matching the ES6
// number-to-string conversion most JSON encoders use (see Go issues
// 6384 and 14135 for why this differs from fmt's %g).
func appendFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, errors.New("INF or NaN number found")
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}
