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

import "fmt"

// ErrorKind enumerates the error taxonomy raised across the codec.
type ErrorKind int32

const (
	InvalidDocument ErrorKind = iota
	InvalidStringData
	InvalidBSON
	Overflow
	InvalidOperation
	RecursionError
	OutOfMemory
	CannotEncode
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidDocument:
		return "InvalidDocument"
	case InvalidStringData:
		return "InvalidStringData"
	case InvalidBSON:
		return "InvalidBSON"
	case Overflow:
		return "Overflow"
	case InvalidOperation:
		return "InvalidOperation"
	case RecursionError:
		return "RecursionError"
	case OutOfMemory:
		return "OutOfMemory"
	case CannotEncode:
		return "CannotEncode"
	default:
		return "Unknown"
	}
}

// CodecError is the concrete error type raised by every operation in this
// package: a numeric kind, a message, and an optional wrapped cause
// reachable through errors.Unwrap/errors.Is.
type CodecError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// NewCodecError builds a CodecError with no wrapped cause.
func NewCodecError(kind ErrorKind, msg string) *CodecError {
	return &CodecError{Kind: kind, Msg: msg}
}

// NewCodecErrorWithErr wraps err under kind, unless err already is a
// *CodecError, in which case it is returned unchanged (no double-wrapping).
func NewCodecErrorWithErr(kind ErrorKind, msg string, err error) *CodecError {
	if e, ok := err.(*CodecError); ok {
		return e
	}
	return &CodecError{Kind: kind, Msg: msg, Err: err}
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bsonwire: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("bsonwire: %s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause to the errors package.
func (e *CodecError) Unwrap() error { return e.Err }

// Is reports whether target is a *CodecError with the same Kind. It does
// not look at the wrapped cause itself; errors.Is reaches that through
// Unwrap.
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if ok {
		return t.Kind == e.Kind
	}
	return false
}
