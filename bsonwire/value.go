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
	"regexp"
	"time"
)

// Value is the tagged union of every wire kind a document field can hold.
// The sum type is closed statically: Value is an interface with an
// unexported method, so every implementation lives in this package and an
// encoder can type-switch over the full, known set exhaustively.
type Value interface {
	Kind() Kind
	sealed()
}

type DoubleValue float64

func (DoubleValue) Kind() Kind { return KindDouble }
func (DoubleValue) sealed()    {}

type StringValue string

func (StringValue) Kind() Kind { return KindString }
func (StringValue) sealed()    {}

// JSCodeValue is plain JavaScript code without a scope document (tag 0D).
type JSCodeValue string

func (JSCodeValue) Kind() Kind { return KindJSCode }
func (JSCodeValue) sealed()    {}

// SymbolValue is the deprecated BSON symbol kind (tag 0E); encoded and
// decoded identically to String.
type SymbolValue string

func (SymbolValue) Kind() Kind { return KindSymbol }
func (SymbolValue) sealed()    {}

type DocumentValue struct{ Doc *Document }

func (DocumentValue) Kind() Kind { return KindDocument }
func (DocumentValue) sealed()    {}

// ArrayValue wraps a Document whose keys are "0", "1", … in order.
type ArrayValue struct{ Doc *Document }

func (ArrayValue) Kind() Kind { return KindArray }
func (ArrayValue) sealed()    {}

// BinaryValue is generic binary data with a subtype attribute. UUIDs
// (subtype 3) have their own type, UUIDValue; a BinaryValue with
// Subtype == BinaryUUID encodes to the same bytes, but decode returns a
// 16-byte subtype-3 payload as a UUIDValue.
type BinaryValue struct {
	Subtype byte
	Data    []byte
}

func (BinaryValue) Kind() Kind { return KindBinary }
func (BinaryValue) sealed()    {}

// UUIDValue is Binary subtype 3, 16 bytes, little-endian byte order.
type UUIDValue [16]byte

func (UUIDValue) Kind() Kind { return KindBinary }
func (UUIDValue) sealed()    {}

// ObjectIDValue is 12 raw bytes (tag 07).
type ObjectIDValue [12]byte

func (ObjectIDValue) Kind() Kind { return KindObjectID }
func (ObjectIDValue) sealed()    {}

type BoolValue bool

func (BoolValue) Kind() Kind { return KindBool }
func (BoolValue) sealed()    {}

// DatetimeValue is milliseconds since the Unix epoch (tag 09). Use
// NewDatetimeValue to construct one from a time.Time.
type DatetimeValue struct {
	Millis int64
	UTC    bool // set when decoded with TZAware; informational only
}

func (DatetimeValue) Kind() Kind { return KindDatetime }
func (DatetimeValue) sealed()    {}

// NewDatetimeValue normalizes t to UTC and drops sub-millisecond
// precision (rounding toward negative infinity, see millisSinceEpoch).
func NewDatetimeValue(t time.Time) DatetimeValue {
	u := t.UTC()
	return DatetimeValue{Millis: millisSinceEpoch(u), UTC: true}
}

// Time reconstructs a time.Time from the stored millisecond count.
func (d DatetimeValue) Time() time.Time {
	return timeFromMillis(d.Millis)
}

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }
func (NullValue) sealed()    {}

// RegexValue holds an uncompiled pattern/flags pair as they appear on the
// wire. Flags is the assembled cstring (e.g. "im"), already sorted in
// definition order. Use NewRegexValue to build one from a bitmask.
type RegexValue struct {
	Pattern string
	Flags   string

	// Compiled is populated by Decode via the Registry's RegexCompile
	// hook; it is nil for values built directly by NewRegexValue. It has
	// no bearing on Encode, which only ever looks at Pattern/Flags.
	Compiled *regexp.Regexp
}

func NewRegexValue(pattern string, flagsBitmask uint32) RegexValue {
	return RegexValue{Pattern: pattern, Flags: FlagsBitmaskToString(flagsBitmask)}
}

func (RegexValue) Kind() Kind { return KindRegex }
func (RegexValue) sealed()    {}

// DBRefValue is the legacy database reference kind. Decode produces one
// from tag 0C, and from a tag-03 Document whose first key is "$ref";
// encode always writes it as a tag-03 Document.
type DBRefValue struct {
	Collection string
	ID         Value
	DB         string
	HasDB      bool
	Extra      *Document // remaining keys beyond $ref/$id/$db, in order
}

func (DBRefValue) Kind() Kind { return KindDBRef }
func (DBRefValue) sealed()    {}

// CodeWithScopeValue is JavaScript code plus its closure scope (tag 0F).
type CodeWithScopeValue struct {
	Code  string
	Scope *Document
}

func (CodeWithScopeValue) Kind() Kind { return KindCodeWithScope }
func (CodeWithScopeValue) sealed()    {}

type Int32Value int32

func (Int32Value) Kind() Kind { return KindInt32 }
func (Int32Value) sealed()    {}

type Int64Value int64

func (Int64Value) Kind() Kind { return KindInt64 }
func (Int64Value) sealed()    {}

// TimestampValue is a replication timestamp (tag 11): an increment and a
// seconds-since-epoch value, each a plain int32.
type TimestampValue struct {
	Increment int32
	Seconds   int32
}

func (TimestampValue) Kind() Kind { return KindTimestamp }
func (TimestampValue) sealed()    {}

type MinKeyValue struct{}

func (MinKeyValue) Kind() Kind { return KindMinKey }
func (MinKeyValue) sealed()    {}

type MaxKeyValue struct{}

func (MaxKeyValue) Kind() Kind { return KindMaxKey }
func (MaxKeyValue) sealed()    {}
