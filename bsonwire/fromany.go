// Copyright 2024 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bsonwire

import (
	"math"
	"regexp"
	"time"
)

// FromAny converts a loosely-typed Go value (as produced by, say,
// encoding/json unmarshaling into map[string]any) into a Value, following
// a fixed dispatch order: booleans before integers, integer width
// promotion (Int32 if it fits, else Int64, else Overflow), and so on down
// to a final late reload of the registry with one retry for anything
// unrecognized.
//
// Most callers building documents from scratch should prefer the typed
// constructors (Int32Value, StringValue, ...) directly; FromAny exists for
// hosts migrating data already shaped as Go's untyped any.
func FromAny(x any, reg Registry) (Value, error) {
	if u, ok := x.(uint64); ok && u > math.MaxInt64 {
		return nil, NewCodecError(Overflow, "integer exceeds 8-byte signed range")
	}
	if v, ok := fromAnyOnce(x); ok {
		return v, nil
	}
	if reg == nil {
		reg = DefaultRegistry()
	}
	reg.Reload()
	if v, ok := fromAnyOnce(x); ok {
		return v, nil
	}
	return nil, NewCodecError(CannotEncode, "unrecognized value type after registry reload")
}

func fromAnyOnce(x any) (Value, bool) {
	switch v := x.(type) {
	case Value:
		return v, true
	case nil:
		return NullValue{}, true
	case bool: // Boolean before Integer in the dispatch order
		return BoolValue(v), true
	case int:
		return intToValue(int64(v))
	case int8:
		return Int32Value(int32(v)), true
	case int16:
		return Int32Value(int32(v)), true
	case int32:
		return Int32Value(v), true
	case int64:
		return intToValue(v)
	case uint8:
		return Int32Value(int32(v)), true
	case uint16:
		return Int32Value(int32(v)), true
	case uint32:
		return intToValue(int64(v))
	case uint64:
		return intToValue(int64(v)) // overflow already handled in FromAny
	case float32:
		return DoubleValue(float64(v)), true
	case float64:
		return DoubleValue(v), true
	case string:
		return StringValue(v), true
	case []byte:
		return BinaryValue{Subtype: BinaryGeneric, Data: v}, true
	case [12]byte:
		return ObjectIDValue(v), true
	case [16]byte:
		return UUIDValue(v), true
	case time.Time:
		return NewDatetimeValue(v), true
	case *regexp.Regexp:
		return regexpToValue(v), true
	case *Document:
		return DocumentValue{Doc: v}, true
	case []Value:
		return NewArray(v...), true
	case []any:
		return sliceToArray(v)
	case map[string]Value:
		return mapToDocument(v)
	default:
		return nil, false
	}
}

// intToValue applies width promotion: Int32 if it fits, else Int64 (the
// 8-byte signed range always fits an int64 input, so Overflow can only be
// reached from the uint64 case above).
func intToValue(v int64) (Value, bool) {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return Int32Value(int32(v)), true
	}
	return Int64Value(v), true
}

func sliceToArray(xs []any) (Value, bool) {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		v, ok := fromAnyOnce(x)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return NewArray(vals...), true
}

func mapToDocument(m map[string]Value) (Value, bool) {
	doc := NewDocument()
	for k, v := range m {
		doc.Set(k, v)
	}
	return DocumentValue{Doc: doc}, true
}

func regexpToValue(re *regexp.Regexp) Value {
	return RegexValue{Pattern: re.String(), Compiled: re}
}
