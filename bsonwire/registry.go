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

import "regexp"

// Registry is the host value-type registry. It supplies the constructors
// decode needs for kinds that have no single obvious Go representation,
// and is the seam FromAny retries through once after Reload: import and
// cache, then retry.
type Registry interface {
	// Binary is consulted by decode for binary subtypes other than
	// generic (0), legacy (2) and 16-byte UUID (3), which decode builds
	// directly as BinaryValue or UUIDValue.
	Binary(subtype byte, b []byte) (Value, error)
	// Code is consulted by decode when building a CodeWithScopeValue,
	// giving a host the chance to return its own code-object
	// representation instead of the plain CodeWithScopeValue struct.
	Code(code string, scope *Document) (Value, error)
	ObjectID(b [12]byte) (Value, error)
	// DBRef is consulted by decode when rewriting a $ref-first document
	// (or a legacy tag-0x0C payload) into a host DBRef representation,
	// instead of the plain DBRefValue struct.
	DBRef(collection string, id Value, db string, hasDB bool, extra *Document) (Value, error)
	Timestamp(seconds, increment int32) (Value, error)
	MinKey() (Value, error)
	MaxKey() (Value, error)
	RegexCompile(pattern string, flagsBitmask uint32) (*regexp.Regexp, error)
	UUID(bytesLE [16]byte) (Value, error)

	// Reload is a best-effort hook for hosts with dynamically loadable
	// type modules. DefaultRegistry's Reload is a no-op.
	Reload()
}

// DefaultRegistry returns Go-native values and never needs to Reload.
func DefaultRegistry() Registry { return defaultRegistry{} }

type defaultRegistry struct{}

func (defaultRegistry) Binary(subtype byte, b []byte) (Value, error) {
	return BinaryValue{Subtype: subtype, Data: b}, nil
}

func (defaultRegistry) Code(code string, scope *Document) (Value, error) {
	return CodeWithScopeValue{Code: code, Scope: scope}, nil
}

func (defaultRegistry) ObjectID(b [12]byte) (Value, error) {
	return ObjectIDValue(b), nil
}

func (defaultRegistry) DBRef(collection string, id Value, db string, hasDB bool, extra *Document) (Value, error) {
	return DBRefValue{Collection: collection, ID: id, DB: db, HasDB: hasDB, Extra: extra}, nil
}

func (defaultRegistry) Timestamp(seconds, increment int32) (Value, error) {
	return TimestampValue{Seconds: seconds, Increment: increment}, nil
}

func (defaultRegistry) MinKey() (Value, error) { return MinKeyValue{}, nil }
func (defaultRegistry) MaxKey() (Value, error) { return MaxKeyValue{}, nil }

// RegexCompile drops bit 4 (the locale flag) before calling regexp.Compile,
// since Go's regexp package has no locale concept; the bitmask itself is
// still preserved faithfully on the wire by Encode/Decode regardless of
// what this does with it.
func (defaultRegistry) RegexCompile(pattern string, flagsBitmask uint32) (*regexp.Regexp, error) {
	var goFlags string
	if flagsBitmask&RegexCaseInsensitive != 0 {
		goFlags += "i"
	}
	if flagsBitmask&RegexMultiline != 0 {
		goFlags += "m"
	}
	if flagsBitmask&RegexDotAll != 0 {
		goFlags += "s"
	}
	if goFlags == "" {
		return regexp.Compile(pattern)
	}
	return regexp.Compile("(?" + goFlags + ")" + pattern)
}

func (defaultRegistry) UUID(bytesLE [16]byte) (Value, error) {
	return UUIDValue(bytesLE), nil
}

func (defaultRegistry) Reload() {}
